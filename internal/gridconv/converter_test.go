package gridconv

import (
	"testing"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/spatial"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Converter {
	t.Helper()
	conv, err := NewConverter(DefaultLayout())
	require.NoError(t, err)
	return conv
}

func TestNewConverterRejectsBadLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.GridWidth = 0
	_, err := NewConverter(layout)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	layout = DefaultLayout()
	layout.Room.Size.Height = -1
	_, err = NewConverter(layout)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestDefaultCellIs30px(t *testing.T) {
	conv := newDefault(t)
	assert.Equal(t, spatial.Size{Width: 30, Height: 30}, conv.CellPixelSize())
}

func TestGridToContinuous(t *testing.T) {
	conv := newDefault(t)

	assert.Equal(t, spatial.Position{X: 0, Y: 0}, conv.GridToContinuous(domain.Cell{X: 0, Y: 0}))
	assert.Equal(t, spatial.Position{X: 210, Y: 90}, conv.GridToContinuous(domain.Cell{X: 7, Y: 3}))
	assert.Equal(t, spatial.Position{X: 1890, Y: 450}, conv.GridToContinuous(domain.Cell{X: 63, Y: 15}))
	assert.Equal(t, spatial.Position{X: 225, Y: 105}, conv.CellCenter(domain.Cell{X: 7, Y: 3}))
}

func TestGridToContinuousWithOffset(t *testing.T) {
	layout := DefaultLayout()
	layout.Room.Origin = spatial.Position{X: 100, Y: 50}
	conv, err := NewConverter(layout)
	require.NoError(t, err)

	p := conv.GridToContinuous(domain.Cell{X: 2, Y: 1})
	assert.Equal(t, spatial.Position{X: 160, Y: 80}, p)
	assert.Equal(t, domain.Cell{X: 2, Y: 1}, conv.ContinuousToGrid(p))
}

func TestContinuousToGridClamps(t *testing.T) {
	conv := newDefault(t)

	tests := []struct {
		name string
		in   spatial.Position
		want domain.Cell
	}{
		{"inside a cell", spatial.Position{X: 45, Y: 59.9}, domain.Cell{X: 1, Y: 1}},
		{"negative saturates", spatial.Position{X: -100, Y: -1}, domain.Cell{X: 0, Y: 0}},
		{"far edge saturates", spatial.Position{X: 1920, Y: 480}, domain.Cell{X: 63, Y: 15}},
		{"way out", spatial.Position{X: 99999, Y: 12}, domain.Cell{X: 63, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, conv.ContinuousToGrid(tt.in))
		})
	}
}

func TestRoundTripAllCells(t *testing.T) {
	layouts := map[string]Layout{
		"default": DefaultLayout(),
		"odd scale": {
			GridWidth: 64, GridHeight: 16,
			LegacyCellWidth: 20, LegacyCellHeight: 30,
			Room: spatial.BoundingBox{
				Origin: spatial.Position{X: 13.7, Y: 2.2},
				Size:   spatial.Size{Width: 1000, Height: 333},
			},
		},
	}
	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			conv, err := NewConverter(layout)
			require.NoError(t, err)
			for y := 0; y < layout.GridHeight; y++ {
				for x := 0; x < layout.GridWidth; x++ {
					cell := domain.Cell{X: x, Y: y}
					got := conv.ContinuousToGrid(conv.GridToContinuous(cell))
					require.Equal(t, cell, got, "round trip of %v", cell)
				}
			}
		})
	}
}

func TestContinuousToGridIsHalfOpen(t *testing.T) {
	conv := newDefault(t)

	tests := []struct {
		name string
		in   spatial.Position
		want domain.Cell
	}{
		{"just below a line", spatial.Position{X: 29.99999999, Y: 0}, domain.Cell{X: 0, Y: 0}},
		{"on the line", spatial.Position{X: 30, Y: 0}, domain.Cell{X: 1, Y: 0}},
		{"just below on y", spatial.Position{X: 0, Y: 59.9999999999}, domain.Cell{X: 0, Y: 1}},
		{"last cell edge", spatial.Position{X: 1889.99999999, Y: 449.99999999}, domain.Cell{X: 62, Y: 14}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := conv.ContinuousToGrid(tt.in)
			assert.Equal(t, tt.want, got)
			box := conv.CellBox(got, domain.Footprint{Width: 1, Height: 1})
			assert.True(t, box.Contains(tt.in), "cell %v box does not contain %v", got, tt.in)
		})
	}
}

func TestContinuousToGridAgreesWithCellBox(t *testing.T) {
	conv := newDefault(t)
	size := conv.CellPixelSize()

	for y := 0; y < 16; y++ {
		for x := 0; x < 64; x++ {
			cell := domain.Cell{X: x, Y: y}
			box := conv.CellBox(cell, domain.Footprint{Width: 1, Height: 1})
			for _, p := range []spatial.Position{
				box.Origin,
				box.Center(),
				{X: box.Left() + size.Width*0.999999999, Y: box.Top() + size.Height*0.999999999},
			} {
				require.True(t, box.Contains(p))
				require.Equal(t, cell, conv.ContinuousToGrid(p), "point %v", p)
			}
		}
	}
}

func TestCellBox(t *testing.T) {
	conv := newDefault(t)
	box := conv.CellBox(domain.Cell{X: 2, Y: 1}, domain.Footprint{Width: 3, Height: 2})
	assert.Equal(t, 60.0, box.Left())
	assert.Equal(t, 150.0, box.Right())
	assert.Equal(t, 30.0, box.Top())
	assert.Equal(t, 90.0, box.Bottom())
}
