package room

import (
	"errors"
	"fmt"
	"math/rand"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
)

var (
	ErrUnknownTemplate = errors.New("unknown template")
	ErrOutOfRoom       = errors.New("object does not fit in the room")
	ErrOverlap         = errors.New("object overlaps another solid object")
	ErrDuplicateID     = errors.New("duplicate object id")
	ErrAgentBlocked    = errors.New("agent starts inside a solid object")
)

const placementAttempts = 50

// Rect - прямоугольник из клеток [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

func RectOf(obj domain.RoomObject) Rect {
	return Rect{X: obj.Pos.X, Y: obj.Pos.Y, W: obj.Size.Width, H: obj.Size.Height}
}

// Intersects проверяет, есть ли у прямоугольников хотя бы одна общая клетка.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.W && r.X+r.W > other.X &&
		r.Y < other.Y+other.H && r.Y+r.H > other.Y
}

// Builder - fluent API для сборки снапшота комнаты. Ошибки копятся
// и возвращаются вместе из Build.
type Builder struct {
	width     int
	height    int
	agent     domain.Cell
	facing    domain.Facing
	footprint domain.Footprint
	objects   []domain.RoomObject
	errs      []error
}

// NewBuilder начинает пустую комнату width x height клеток.
func NewBuilder(width, height int) *Builder {
	return &Builder{
		width:     width,
		height:    height,
		agent:     domain.Cell{X: width / 2, Y: height / 2},
		facing:    domain.FacingDown,
		footprint: domain.DefaultFootprint,
	}
}

// WithAgent задает стартовую позицию агента.
func (b *Builder) WithAgent(pos domain.Cell, facing domain.Facing) *Builder {
	b.agent = pos
	b.facing = facing
	return b
}

func (b *Builder) WithFootprint(fp domain.Footprint) *Builder {
	if err := fp.Validate(); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.footprint = fp
	return b
}

// Place ставит объект по шаблону в pos.
func (b *Builder) Place(templateName, id string, pos domain.Cell) *Builder {
	tmpl, ok := Templates[templateName]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateName))
		return b
	}
	if err := b.check(tmpl.Place(id, pos)); err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.objects = append(b.objects, tmpl.Place(id, pos))
	return b
}

// PlaceRandom раскидывает count копий шаблона по свободным местам. Копии,
// которым не нашлось места за несколько попыток, пропускаются.
func (b *Builder) PlaceRandom(templateName string, count int, rng *rand.Rand) *Builder {
	tmpl, ok := Templates[templateName]
	if !ok {
		b.errs = append(b.errs, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateName))
		return b
	}
	if tmpl.Width > b.width || tmpl.Height > b.height {
		return b
	}

	for i := 0; i < count; i++ {
		for attempt := 0; attempt < placementAttempts; attempt++ {
			pos := domain.Cell{
				X: rng.Intn(b.width - tmpl.Width + 1),
				Y: rng.Intn(b.height - tmpl.Height + 1),
			}
			obj := tmpl.Place(fmt.Sprintf("%s_%d", templateName, len(b.objects)+1), pos)
			if b.check(obj) == nil && !b.covers(obj, b.agent) {
				b.objects = append(b.objects, obj)
				break
			}
		}
	}
	return b
}

func (b *Builder) covers(obj domain.RoomObject, anchor domain.Cell) bool {
	if !obj.Solid {
		return false
	}
	agent := Rect{X: anchor.X, Y: anchor.Y, W: b.footprint.Width, H: b.footprint.Height}
	return RectOf(obj).Intersects(agent)
}

// check проверяет obj на границы комнаты и уже поставленные объекты.
// Нетвердые объекты могут лежать под твердыми.
func (b *Builder) check(obj domain.RoomObject) error {
	r := RectOf(obj)
	if r.W <= 0 || r.H <= 0 || r.X < 0 || r.Y < 0 || r.X+r.W > b.width || r.Y+r.H > b.height {
		return fmt.Errorf("%w: %s at (%d,%d) %dx%d", ErrOutOfRoom, obj.ID, r.X, r.Y, r.W, r.H)
	}
	for _, other := range b.objects {
		if other.ID == obj.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateID, obj.ID)
		}
		if obj.Solid && other.Solid && r.Intersects(RectOf(other)) {
			return fmt.Errorf("%w: %s and %s", ErrOverlap, obj.ID, other.ID)
		}
	}
	return nil
}

// Build возвращает комнату как снапшот хранилища.
func (b *Builder) Build() (engine.Snapshot, error) {
	errs := append([]error(nil), b.errs...)
	for _, obj := range b.objects {
		if b.covers(obj, b.agent) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrAgentBlocked, obj.ID))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return engine.Snapshot{}, err
	}
	return engine.Snapshot{
		Agent:     b.agent,
		Facing:    b.facing,
		Footprint: b.footprint,
		Objects:   append([]domain.RoomObject(nil), b.objects...),
	}, nil
}
