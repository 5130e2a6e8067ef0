// Package site serves the landing page and the catalogue clients need to
// build a profile form.
package site

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/okian/roommatch/internal/domain/model"
)

// Register attaches the landing page and catalogue routes to mux.
//
//	GET /               -> landing page
//	GET /neighborhoods  -> accepted neighborhoods
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("GET /{$}", http.FileServer(FS()))
	mux.HandleFunc("GET /neighborhoods", HandleNeighborhoods)
}

type neighborhoodsResponse struct {
	Neighborhoods []model.Neighborhood `json:"neighborhoods"`
}

// HandleNeighborhoods lists the neighborhoods profiles may use.
func HandleNeighborhoods(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(neighborhoodsResponse{Neighborhoods: model.Neighborhoods})
}
