package network

import (
	"time"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/gridconv"
	"deskmate-server/pkg/api"
	"deskmate-server/pkg/utils"
)

func CellView(c domain.Cell) api.CellView {
	return api.CellView{X: c.X, Y: c.Y}
}

func CellViews(cells []domain.Cell) []api.CellView {
	out := make([]api.CellView, len(cells))
	for i, c := range cells {
		out[i] = CellView(c)
	}
	return out
}

// NavigationView переводит результат движка в DTO для провода.
func NavigationView(res engine.NavigationResult, applied bool) *api.NavigationResponse {
	return &api.NavigationResponse{
		Success:   res.Success,
		Reason:    string(res.Reason),
		Path:      CellViews(res.Path),
		Facing:    string(res.Facing),
		Current:   CellView(res.Current),
		Target:    CellView(res.Target),
		Validated: res.Validated,
		ObjectID:  res.ObjectID,
		Applied:   applied,
		Version:   res.Version,
	}
}

// StateView отдает снапшот вместе с метаданными сетки, нужными клиенту для отрисовки.
func StateView(snap engine.Snapshot, conv *gridconv.Converter) *api.StateResponse {
	layout := conv.Layout()
	cell := conv.CellPixelSize()
	objects := make([]api.ObjectView, len(snap.Objects))
	for i, obj := range snap.Objects {
		objects[i] = api.ObjectView{
			ID:     obj.ID,
			Name:   obj.Name,
			Kind:   obj.Kind,
			X:      obj.Pos.X,
			Y:      obj.Pos.Y,
			Width:  obj.Size.Width,
			Height: obj.Size.Height,
			Solid:  obj.Solid,
		}
	}
	return &api.StateResponse{
		Agent:     CellView(snap.Agent),
		Facing:    string(snap.Facing),
		Footprint: api.FootprintView{Width: snap.Footprint.Width, Height: snap.Footprint.Height},
		Objects:   objects,
		Grid: api.GridMeta{
			Width:      layout.GridWidth,
			Height:     layout.GridHeight,
			CellWidth:  cell.Width,
			CellHeight: cell.Height,
		},
		Version: snap.Version,
	}
}

// NewEvent ставит на конверт свежий ID и текущее время.
func NewEvent(eventType, source string) api.NavigationEvent {
	return api.NavigationEvent{
		Type:      eventType,
		ID:        utils.GenerateID("evt_"),
		Timestamp: time.Now().UnixMilli(),
		Source:    source,
	}
}
