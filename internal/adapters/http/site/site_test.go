package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/roommatch/internal/domain/model"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a mux with the site registered", t, func() {
		mux := http.NewServeMux()
		Register(context.Background(), mux)

		Convey("Then / should serve the landing page", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
			So(w.Body.String(), ShouldContainSubstring, "/api-docs")
		})

		Convey("Then unknown paths should not fall through to the landing page", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then /neighborhoods should list every accepted slug", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/neighborhoods", nil))

			var body neighborhoodsResponse
			So(w.Code, ShouldEqual, http.StatusOK)
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Neighborhoods, ShouldResemble, model.Neighborhoods)
		})

		Convey("Then a nil mux should panic", func() {
			So(func() { Register(context.Background(), nil) }, ShouldPanic)
		})
	})
}
