package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/infrastructure/storage"
	"deskmate-server/internal/network"
	"deskmate-server/internal/spatial"
	"deskmate-server/internal/systems"
	"deskmate-server/pkg/api"

	"github.com/go-chi/chi/v5"
)

// Источники, которые записываются в разосланные события.
const (
	sourceHTTP = "http"
	sourceWS   = "ws"
)

// statusFor отдает 400 на нарушения контракта и 500 на все остальное (сбои
// хранилища). Пространственные неудачи сюда не попадают, это ответы 200.
func statusFor(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidRequest),
		errors.Is(err, gridconv.ErrUnknownUnit),
		errors.Is(err, gridconv.ErrFractionalGrid),
		errors.Is(err, spatial.ErrNonFinite),
		errors.Is(err, domain.ErrInvalidFootprint),
		errors.Is(err, systems.ErrInvalidBounds):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrObjectMissing):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decode читает JSON-тело в T и валидирует его. Пустое тело - нулевой запрос.
func decode[T api.Validator](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("%w: %v", api.ErrInvalidRequest, err)
	}
	return req, req.Validate()
}

func decodePayload[T api.Validator](payload json.RawMessage) (T, error) {
	var req T
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			return req, fmt.Errorf("%w: %v", api.ErrInvalidRequest, err)
		}
	}
	return req, req.Validate()
}

// coordinate превращает координату с провода в помеченную. Ввод без единиц
// идет через старую эвристику, чтобы старые клиенты продолжали работать.
func (s *Server) coordinate(v api.CoordinateView) gridconv.Coordinate {
	coord := gridconv.Coordinate{Unit: gridconv.Unit(v.Unit), X: v.X, Y: v.Y}
	if coord.Unit == "" {
		coord.Unit = s.nav.Converter().Classify(spatial.Position{X: v.X, Y: v.Y})
	}
	return coord
}

func (s *Server) navigate(ctx context.Context, req api.NavigateRequest, source string) (*api.NavigationResponse, error) {
	target, err := s.nav.Converter().ToCell(s.coordinate(req.Target))
	if err != nil {
		return nil, err
	}
	res, err := s.nav.Navigate(ctx, target, engine.NavigateOptions{ValidatePath: req.ShouldValidate()})
	if err != nil {
		return nil, err
	}
	return s.pub.Commit(res, source)
}

func (s *Server) approach(ctx context.Context, req api.ApproachRequest, source string) (*api.NavigationResponse, error) {
	mode := engine.ApproachInteract
	if req.Mode != "" {
		mode = engine.ApproachMode(req.Mode)
	}
	res, err := s.nav.Approach(ctx, req.ObjectID, mode)
	if err != nil {
		return nil, err
	}
	return s.pub.Commit(res, source)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.NavigateRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	resp, err := s.navigate(r.Context(), req, sourceHTTP)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleApproach(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.ApproachRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	resp, err := s.approach(r.Context(), req, sourceHTTP)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// handlePath - чистый запрос: работает по сетке и препятствиям вызывающего
// и не трогает хранилище.
func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.PathRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := req.WithinLimit(s.maxPathCells); err != nil {
		respondError(w, err)
		return
	}
	pf, err := systems.NewPathfinder(req.Width, req.Height)
	if err != nil {
		respondError(w, err)
		return
	}
	obstacles := systems.NewCellSet()
	for _, c := range req.Obstacles {
		obstacles.Put(domain.Cell{X: c.X, Y: c.Y})
	}
	fp := domain.DefaultFootprint
	if req.Footprint != nil {
		fp = domain.Footprint{Width: req.Footprint.Width, Height: req.Footprint.Height}
	}

	path, err := pf.FindPath(
		domain.Cell{X: req.Start.X, Y: req.Start.Y},
		domain.Cell{X: req.Goal.X, Y: req.Goal.Y},
		obstacles, fp,
	)
	if err != nil {
		respondError(w, err)
		return
	}
	resp := api.PathResponse{Found: len(path) > 0, Path: network.CellViews(path)}
	if len(path) > 0 {
		resp.Steps = len(path) - 1
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReachable(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.ReachableRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	cells, err := s.nav.Reachable(r.Context(), req.Limit())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, api.ReachableResponse{Cells: network.CellViews(cells), Count: len(cells)})
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.ConvertRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	conv := s.nav.Converter()
	coord := s.coordinate(req.Coordinate)
	cell, err := conv.ToCell(coord)
	if err != nil {
		respondError(w, err)
		return
	}
	pixel, err := conv.ToPosition(coord)
	if err != nil {
		respondError(w, err)
		return
	}
	center := conv.CellCenter(cell)
	respondJSON(w, http.StatusOK, api.ConvertResponse{
		Unit:   string(coord.Unit),
		Cell:   network.CellView(cell),
		Pixel:  api.PointView{X: pixel.X, Y: pixel.Y},
		Center: api.PointView{X: center.X, Y: center.Y},
	})
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	req, err := decode[api.NearestRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	pos, cell, err := s.nav.NearestFree(r.Context(), spatial.Position{X: req.X, Y: req.Y})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, api.NearestResponse{
		Pixel: api.PointView{X: pos.X, Y: pos.Y},
		Cell:  network.CellView(cell),
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	view, err := s.state(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, view)
}

func (s *Server) state(ctx context.Context) (*api.StateResponse, error) {
	snap, err := s.nav.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return network.StateView(snap, s.nav.Converter()), nil
}

// handlePutObject ставит или двигает один объект и отправляет новое состояние подписчикам.
func (s *Server) handlePutObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	req, err := decode[api.ObjectRequest](r)
	if err != nil {
		respondError(w, err)
		return
	}
	pos, err := s.nav.Converter().ToCell(s.coordinate(req.Position))
	if err != nil {
		respondError(w, err)
		return
	}
	obj := domain.RoomObject{
		ID:    id,
		Name:  req.Name,
		Kind:  req.Kind,
		Pos:   pos,
		Size:  domain.Footprint{Width: req.Width, Height: req.Height},
		Solid: req.IsSolid(),
	}
	if obj.Name == "" {
		obj.Name = id
	}
	far := pos.Shift(obj.Size.Width-1, obj.Size.Height-1)
	if pf := s.nav.Pathfinder(); !pf.InBounds(pos) || !pf.InBounds(far) {
		respondError(w, fmt.Errorf("%w: object %s does not fit the grid", api.ErrInvalidRequest, id))
		return
	}

	snap := s.objects.UpsertObject(obj)
	s.log.WithField("object", id).WithField("version", snap.Version).Info("object placed")
	respondJSON(w, http.StatusOK, s.publishState(snap, sourceHTTP))
}

func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap, err := s.objects.RemoveObject(id)
	if err != nil {
		respondError(w, fmt.Errorf("object %s: %w", id, err))
		return
	}
	s.log.WithField("object", id).WithField("version", snap.Version).Info("object removed")
	respondJSON(w, http.StatusOK, s.publishState(snap, sourceHTTP))
}

func (s *Server) publishState(snap engine.Snapshot, source string) *api.StateResponse {
	view := network.StateView(snap, s.nav.Converter())
	ev := network.NewEvent(api.EventState, source)
	ev.State = view
	s.pub.Hub().Broadcast(ev)
	return view
}
