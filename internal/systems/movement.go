package systems

import (
	"deskmate-server/internal/domain"
)

// ApproachCells перечисляет якорные клетки, где footprint касается obj по
// грани, не перекрывая его. Порядок: снизу, сверху, слева, справа.
// Границы и препятствия здесь не проверяются.
func ApproachCells(obj domain.RoomObject, fp domain.Footprint) []domain.Cell {
	ox, oy := obj.Pos.X, obj.Pos.Y
	ow, oh := obj.Size.Width, obj.Size.Height
	if ow <= 0 || oh <= 0 || fp.Width <= 0 || fp.Height <= 0 {
		return nil
	}

	var cells []domain.Cell
	// Горизонтальные грани
	for x := ox - fp.Width + 1; x < ox+ow; x++ {
		cells = append(cells, domain.Cell{X: x, Y: oy + oh})
	}
	for x := ox - fp.Width + 1; x < ox+ow; x++ {
		cells = append(cells, domain.Cell{X: x, Y: oy - fp.Height})
	}
	// Вертикальные грани
	for y := oy - fp.Height + 1; y < oy+oh; y++ {
		cells = append(cells, domain.Cell{X: ox - fp.Width, Y: y})
	}
	for y := oy - fp.Height + 1; y < oy+oh; y++ {
		cells = append(cells, domain.Cell{X: ox + ow, Y: y})
	}
	return cells
}

// FacingToward поворачивает footprint с якорем в from к центру obj.
func FacingToward(from domain.Cell, fp domain.Footprint, obj domain.RoomObject, fallback domain.Facing) domain.Facing {
	cx, cy := obj.Center()
	ax := float64(from.X) + float64(fp.Width)/2
	ay := float64(from.Y) + float64(fp.Height)/2
	return domain.FacingFromDelta(cx-ax, cy-ay, fallback)
}
