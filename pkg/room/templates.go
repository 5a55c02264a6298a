package room

import (
	"deskmate-server/internal/domain"
)

// ObjectTemplate - предмет мебели до того, как его поставили в комнату.
type ObjectTemplate struct {
	Name   string
	Kind   string
	Width  int
	Height int
	Solid  bool
}

// Place создает объект по шаблону с левым верхним углом в pos.
func (t ObjectTemplate) Place(id string, pos domain.Cell) domain.RoomObject {
	return domain.RoomObject{
		ID:    id,
		Name:  t.Name,
		Kind:  t.Kind,
		Pos:   pos,
		Size:  domain.Footprint{Width: t.Width, Height: t.Height},
		Solid: t.Solid,
	}
}

// --- МЕБЕЛЬ ---

var Desk = ObjectTemplate{Name: "Desk", Kind: domain.ObjectKindFurniture, Width: 6, Height: 2, Solid: true}

var Bookshelf = ObjectTemplate{Name: "Bookshelf", Kind: domain.ObjectKindFurniture, Width: 6, Height: 2, Solid: true}

var CoffeeTable = ObjectTemplate{Name: "Coffee table", Kind: domain.ObjectKindFurniture, Width: 4, Height: 2, Solid: true}

var Bed = ObjectTemplate{Name: "Bed", Kind: domain.ObjectKindFurniture, Width: 8, Height: 4, Solid: true}

// --- СИДЕНЬЯ ---

var DeskChair = ObjectTemplate{Name: "Desk chair", Kind: domain.ObjectKindSeat, Width: 2, Height: 1, Solid: true}

var Couch = ObjectTemplate{Name: "Couch", Kind: domain.ObjectKindSeat, Width: 8, Height: 2, Solid: true}

// --- УСТРОЙСТВА ---

var Computer = ObjectTemplate{Name: "Computer", Kind: domain.ObjectKindDevice, Width: 2, Height: 1, Solid: true}

var Lamp = ObjectTemplate{Name: "Floor lamp", Kind: domain.ObjectKindDevice, Width: 1, Height: 1, Solid: true}

// --- ДЕКОР ---

// Plant - декор, но все равно мешает пройти.
var Plant = ObjectTemplate{Name: "Plant", Kind: domain.ObjectKindDecoration, Width: 2, Height: 2, Solid: true}

// Rug лежит под мебелью, по нему можно ходить.
var Rug = ObjectTemplate{Name: "Rug", Kind: domain.ObjectKindDecoration, Width: 12, Height: 5, Solid: false}

// Templates - реестр по имени для инструментов раскладки и случайной расстановки.
var Templates = map[string]ObjectTemplate{
	"desk":         Desk,
	"bookshelf":    Bookshelf,
	"coffee_table": CoffeeTable,
	"bed":          Bed,
	"desk_chair":   DeskChair,
	"couch":        Couch,
	"computer":     Computer,
	"lamp":         Lamp,
	"plant":        Plant,
	"rug":          Rug,
}
