package api

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidRequest = errors.New("invalid request")

// Validator - DTO, которые умеют проверить себя до попадания в движок.
type Validator interface {
	Validate() error
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

func (c CoordinateView) Validate() error {
	switch c.Unit {
	case "", "grid", "pixel":
	default:
		return invalid("unknown unit %q", c.Unit)
	}
	if math.IsNaN(c.X) || math.IsNaN(c.Y) || math.IsInf(c.X, 0) || math.IsInf(c.Y, 0) {
		return invalid("coordinate must be finite")
	}
	return nil
}

func (f FootprintView) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return invalid("footprint must be positive, got %dx%d", f.Width, f.Height)
	}
	return nil
}

func (r NavigateRequest) Validate() error {
	return r.Target.Validate()
}

func (r ApproachRequest) Validate() error {
	if r.ObjectID == "" {
		return invalid("objectId is required")
	}
	switch r.Mode {
	case "", "interact", "sit":
		return nil
	}
	return invalid("unknown mode %q", r.Mode)
}

func (r PathRequest) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return invalid("grid must be positive, got %dx%d", r.Width, r.Height)
	}
	if r.Footprint != nil {
		return r.Footprint.Validate()
	}
	return nil
}

// WithinLimit отклоняет сетки больше maxCells клеток.
func (r PathRequest) WithinLimit(maxCells int) error {
	if r.Width > 0 && r.Height > 0 && r.Width > maxCells/r.Height {
		return invalid("grid %dx%d exceeds %d cells", r.Width, r.Height, maxCells)
	}
	return nil
}

func (r ReachableRequest) Validate() error {
	if r.Limit() < -1 {
		return invalid("maxDistance must be >= -1")
	}
	return nil
}

func (r ConvertRequest) Validate() error {
	return r.Coordinate.Validate()
}

func (r NearestRequest) Validate() error {
	return CoordinateView{Unit: "pixel", X: r.X, Y: r.Y}.Validate()
}

func (r ObjectRequest) Validate() error {
	if err := r.Position.Validate(); err != nil {
		return err
	}
	return FootprintView{Width: r.Width, Height: r.Height}.Validate()
}
