package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/smartystreets/goconvey/convey"

	service "github.com/okian/roommatch/internal/app"
	"github.com/okian/roommatch/internal/config"
	"github.com/okian/roommatch/internal/domain/scoring"
	"github.com/okian/roommatch/pkg/logger"
)

const yamlProfile = `
neighborhood: chelsea
age: 30
budget:
  min: 1000
  max: 2000
preferences:
  sleepSchedule: night_owl
  smoking: false
  cleanliness: 4
`

const jsonProfile = `{
  "neighborhood": "chelsea",
  "age": 31,
  "budget": {"min": 1200, "max": 1800},
  "preferences": {"sleepSchedule": "night_owl", "smoking": false, "cleanliness": 4}
}`

func writeTemp(dir, name, content string) string {
	path := filepath.Join(dir, name)
	convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)
	return path
}

func TestScoreCommand(t *testing.T) {
	convey.Convey("Given two profile files", t, func() {
		dir := t.TempDir()
		a := writeTemp(dir, "a.yaml", yamlProfile)
		b := writeTemp(dir, "b.json", jsonProfile)

		convey.Convey("When scoring them", func() {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"score", "--a", a, "--b", b})
			err := cmd.Execute()

			convey.Convey("Then the result should be printed as JSON", func() {
				convey.So(err, convey.ShouldBeNil)
				var res scoring.Result
				convey.So(json.Unmarshal(out.Bytes(), &res), convey.ShouldBeNil)
				convey.So(res.Categories.Location, convey.ShouldEqual, 100)
				convey.So(res.Categories.Lifestyle, convey.ShouldEqual, 100)
				convey.So(res.Categories.Personality, convey.ShouldEqual, 100)
				convey.So(res.OverallPercentage, convey.ShouldBeBetweenOrEqual, 0, 100)
			})
		})

		convey.Convey("When the breakdown is requested", func() {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetArgs([]string{"score", "--a", a, "--b", b, "--explain"})
			convey.So(cmd.Execute(), convey.ShouldBeNil)

			var res explainedScore
			convey.So(json.Unmarshal(out.Bytes(), &res), convey.ShouldBeNil)
			convey.So(res.Factors, convey.ShouldNotBeEmpty)
		})

		convey.Convey("When a file is missing", func() {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"score", "--a", a, "--b", filepath.Join(dir, "nope.yaml")})
			convey.So(cmd.Execute(), convey.ShouldNotBeNil)
		})

		convey.Convey("When a flag is omitted", func() {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs([]string{"score", "--a", a})
			convey.So(cmd.Execute(), convey.ShouldEqual, errMissingProfile)
		})
	})
}

func TestLoadProfile(t *testing.T) {
	convey.Convey("Given a YAML profile", t, func() {
		path := writeTemp(t.TempDir(), "p.yaml", yamlProfile)

		convey.Convey("Then every field should be decoded", func() {
			p, err := loadProfile(path)
			convey.So(err, convey.ShouldBeNil)
			convey.So(*p.Neighborhood, convey.ShouldEqual, "chelsea")
			convey.So(*p.Age, convey.ShouldEqual, 30)
			convey.So(p.Budget.Max, convey.ShouldEqual, 2000)
			convey.So(string(*p.Preferences.SleepSchedule), convey.ShouldEqual, "night_owl")
			convey.So(*p.Preferences.Smoking, convey.ShouldBeFalse)
			convey.So(p.Preferences.Noise, convey.ShouldBeNil)
		})
	})
}

func TestHandler(t *testing.T) {
	convey.Convey("Given the assembled HTTP handler", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		svc := service.New(service.WithLogger(logger.Nop()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		ts := httptest.NewServer(newHandler(ctx, cfg, svc, logger.Nop()))
		defer ts.Close()

		convey.Convey("Then API, docs and metrics routes should be served", func() {
			for _, path := range []string{"/healthz", "/stats", "/openapi.yaml", "/api-docs", "/", "/neighborhoods"} {
				resp, err := ts.Client().Get(ts.URL + path)
				convey.So(err, convey.ShouldBeNil)
				resp.Body.Close()
				convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
				convey.So(resp.Header.Get("X-Request-ID"), convey.ShouldNotBeEmpty)
			}
		})

		convey.Convey("Then unknown users should be 404", func() {
			resp, err := ts.Client().Get(ts.URL + "/matches/ghost")
			convey.So(err, convey.ShouldBeNil)
			resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the runtime sampler", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)
	})
}
