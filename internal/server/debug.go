package server

import (
	"net/http"

	"deskmate-server/internal/network"
	"deskmate-server/internal/systems"
	"deskmate-server/pkg/api"

	"github.com/go-chi/chi/v5"
	"github.com/invopop/jsonschema"
)

// schemaTypes - payload'ы, которые могут прислать клиенты, по имени маршрута.
var schemaTypes = map[string]any{
	"navigate":  &api.NavigateRequest{},
	"approach":  &api.ApproachRequest{},
	"path":      &api.PathRequest{},
	"reachable": &api.ReachableRequest{},
	"convert":   &api.ConvertRequest{},
	"nearest":   &api.NearestRequest{},
	"object":    &api.ObjectRequest{},
	"command":   &api.ClientCommand{},
	"event":     &api.NavigationEvent{},
}

type obstacleDump struct {
	Count     int               `json:"count"`
	Cells     []api.CellView    `json:"cells"`
	Footprint api.FootprintView `json:"footprint"`
	Version   uint64            `json:"version"`
}

// /debug/obstacles - все заблокированные клетки, которые сейчас видит pathfinder.
func (s *Server) handleObstacles(w http.ResponseWriter, r *http.Request) {
	snap, err := s.nav.Snapshot(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	cells := systems.SortedCells(systems.BuildObstacleSet(snap.Objects))
	respondJSON(w, http.StatusOK, obstacleDump{
		Count:     len(cells),
		Cells:     network.CellViews(cells),
		Footprint: api.FootprintView{Width: snap.Footprint.Width, Height: snap.Footprint.Height},
		Version:   snap.Version,
	})
}

// /debug/schema/{name} - JSON-схема payload'а запроса.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	v, ok := schemaTypes[name]
	if !ok {
		http.Error(w, "unknown schema "+name, http.StatusNotFound)
		return
	}
	reflector := &jsonschema.Reflector{DoNotReference: true}
	respondJSON(w, http.StatusOK, reflector.Reflect(v))
}
