package api

import (
	"encoding/json"
)

// --- SERVER -> CLIENT ---

// CellView - клетка сетки на проводе.
type CellView struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PointView - пиксельная позиция на проводе.
type PointView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CoordinateView - точка с пометкой единиц ("grid" или "pixel").
// Пустые единицы уходят в старую эвристику ради старых клиентов.
type CoordinateView struct {
	Unit string  `json:"unit,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type FootprintView struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ObjectView описывает объект комнаты в клетках.
type ObjectView struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Kind   string `json:"kind,omitempty"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Solid  bool   `json:"solid"`
}

// GridMeta говорит клиенту, как рисовать сетку поверх комнаты.
type GridMeta struct {
	Width      int     `json:"w"`
	Height     int     `json:"h"`
	CellWidth  float64 `json:"cellWidth"`
	CellHeight float64 `json:"cellHeight"`
}

// NavigationResponse - исход запроса navigate или approach.
// Success=false с Reason - нормальный ответ, а не ошибка.
type NavigationResponse struct {
	Success   bool       `json:"success"`
	Reason    string     `json:"reason,omitempty"`
	Path      []CellView `json:"path"`
	Facing    string     `json:"facing"`
	Current   CellView   `json:"current"`
	Target    CellView   `json:"target"`
	Validated bool       `json:"validated"`
	ObjectID  string     `json:"objectId,omitempty"`

	// Applied = true, когда сервер переставил агента в точку назначения.
	Applied bool   `json:"applied"`
	Version uint64 `json:"version"`
}

// PathResponse отвечает на stateless-запрос пути.
type PathResponse struct {
	Found bool       `json:"found"`
	Path  []CellView `json:"path"`
	Steps int        `json:"steps"`
}

type ReachableResponse struct {
	Cells []CellView `json:"cells"`
	Count int        `json:"count"`
}

// ConvertResponse показывает одну координату в обеих системах.
type ConvertResponse struct {
	Unit   string    `json:"unit"`
	Cell   CellView  `json:"cell"`
	Pixel  PointView `json:"pixel"`
	Center PointView `json:"center"`
}

type NearestResponse struct {
	Pixel PointView `json:"pixel"`
	Cell  CellView  `json:"cell"`
}

// StateResponse - полный снапшот комнаты.
type StateResponse struct {
	Agent     CellView      `json:"agent"`
	Facing    string        `json:"facing"`
	Footprint FootprintView `json:"footprint"`
	Objects   []ObjectView  `json:"objects"`
	Grid      GridMeta      `json:"grid"`
	Version   uint64        `json:"version"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// Типы событий, которые уходят websocket-подписчикам.
const (
	EventNavigation = "NAVIGATION"
	EventState      = "STATE"
	EventError      = "ERROR"
)

// NavigationEvent - конверт для всего, что уходит по /ws.
type NavigationEvent struct {
	Type string `json:"type"`
	ID   string `json:"id"`

	// Timestamp в Unix-миллисекундах.
	Timestamp int64 `json:"timestamp"`

	// Source - кто вызвал событие: "http", "ws", "wander".
	Source string `json:"source,omitempty"`

	Navigation *NavigationResponse `json:"navigation,omitempty"`
	State      *StateResponse      `json:"state,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// --- CLIENT -> SERVER ---

// Действия websocket.
const (
	ActionNavigate = "NAVIGATE"
	ActionApproach = "APPROACH"
	ActionState    = "STATE"
)

// ClientCommand - корень любого websocket-сообщения от клиента.
type ClientCommand struct {
	Action string `json:"action"`

	// Payload зависит от Action: NavigateRequest или ApproachRequest.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// NavigateRequest ведет агента к Target. ValidatePath по умолчанию true.
type NavigateRequest struct {
	Target       CoordinateView `json:"target"`
	ValidatePath *bool          `json:"validatePath,omitempty"`
}

func (r NavigateRequest) ShouldValidate() bool {
	return r.ValidatePath == nil || *r.ValidatePath
}

// ApproachRequest подходит к объекту. Mode - "interact" (по умолчанию) или "sit".
type ApproachRequest struct {
	ObjectID string `json:"objectId"`
	Mode     string `json:"mode,omitempty"`
}

// PathRequest запускает pathfinder по состоянию вызывающего, не трогая хранилище.
type PathRequest struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	Start     CellView       `json:"start"`
	Goal      CellView       `json:"goal"`
	Obstacles []CellView     `json:"obstacles,omitempty"`
	Footprint *FootprintView `json:"footprint,omitempty"`
}

// ReachableRequest перечисляет клетки в пределах MaxDistance шагов; отсутствие значения - без ограничения.
type ReachableRequest struct {
	MaxDistance *int `json:"maxDistance,omitempty"`
}

// Limit возвращает ограничение шагов, -1 - без ограничения.
func (r ReachableRequest) Limit() int {
	if r.MaxDistance == nil {
		return -1
	}
	return *r.MaxDistance
}

type ConvertRequest struct {
	Coordinate CoordinateView `json:"coordinate"`
}

// NearestRequest ищет ближайшую свободную пиксельную позицию к (X, Y).
type NearestRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ObjectRequest ставит или двигает один объект; Position - его левый верхний угол.
// Solid по умолчанию true.
type ObjectRequest struct {
	Name     string         `json:"name,omitempty"`
	Kind     string         `json:"kind,omitempty"`
	Position CoordinateView `json:"position"`
	Width    int            `json:"width"`
	Height   int            `json:"height"`
	Solid    *bool          `json:"solid,omitempty"`
}

func (r ObjectRequest) IsSolid() bool {
	return r.Solid == nil || *r.Solid
}
