package storage

import (
	"errors"
	"fmt"
	"io"
	"os"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/engine"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/spatial"

	"gopkg.in/yaml.v3"
)

// LayoutVersion1 - пока единственная понятная схема layout-файла.
const LayoutVersion1 = 1

var ErrLayoutVersion = errors.New("unsupported layout version")

// LayoutFile - описание комнаты на диске. Позиции могут быть в клетках,
// в пикселях или старыми данными без единиц (угадываются старой эвристикой).
// Размеры всегда в клетках.
type LayoutFile struct {
	Version int          `yaml:"version"`
	Agent   AgentSpec    `yaml:"agent"`
	Objects []ObjectSpec `yaml:"objects"`
}

type AgentSpec struct {
	X         float64           `yaml:"x"`
	Y         float64           `yaml:"y"`
	Unit      gridconv.Unit     `yaml:"unit,omitempty"`
	Facing    string            `yaml:"facing,omitempty"`
	Footprint *domain.Footprint `yaml:"footprint,omitempty"`
}

type ObjectSpec struct {
	ID     string        `yaml:"id"`
	Name   string        `yaml:"name,omitempty"`
	Kind   string        `yaml:"kind,omitempty"`
	X      float64       `yaml:"x"`
	Y      float64       `yaml:"y"`
	Unit   gridconv.Unit `yaml:"unit,omitempty"`
	Width  int           `yaml:"width"`
	Height int           `yaml:"height"`
	// Solid по умолчанию true, кроме декораций.
	Solid *bool `yaml:"solid,omitempty"`
}

// LoadLayout читает layout-файл и разрешает его в снапшот.
func LoadLayout(path string, conv *gridconv.Converter) (engine.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.Snapshot{}, err
	}
	defer f.Close()

	snap, err := ReadLayout(f, conv)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("layout %s: %w", path, err)
	}
	return snap, nil
}

// ReadLayout декодирует YAML из r.
func ReadLayout(r io.Reader, conv *gridconv.Converter) (engine.Snapshot, error) {
	var file LayoutFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return file.Resolve(conv)
}

// Resolve переводит все позиции в клетки.
func (f LayoutFile) Resolve(conv *gridconv.Converter) (engine.Snapshot, error) {
	// 1. Заголовок
	if f.Version != 0 && f.Version != LayoutVersion1 {
		return engine.Snapshot{}, fmt.Errorf("%w: %d (expected %d)", ErrLayoutVersion, f.Version, LayoutVersion1)
	}

	// 2. Агент
	agent, err := resolveCell(conv, f.Agent.X, f.Agent.Y, f.Agent.Unit)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("agent: %w", err)
	}
	facing, err := domain.ParseFacing(f.Agent.Facing)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("agent facing %q: %w", f.Agent.Facing, err)
	}
	fp := domain.DefaultFootprint
	if f.Agent.Footprint != nil {
		fp = *f.Agent.Footprint
	}
	if err := fp.Validate(); err != nil {
		return engine.Snapshot{}, fmt.Errorf("agent: %w", err)
	}

	snap := engine.Snapshot{Agent: agent, Facing: facing, Footprint: fp}

	// 3. Объекты
	seen := make(map[string]bool, len(f.Objects))
	for i, entry := range f.Objects {
		if entry.ID == "" {
			return engine.Snapshot{}, fmt.Errorf("object #%d: missing id", i)
		}
		if seen[entry.ID] {
			return engine.Snapshot{}, fmt.Errorf("object %s: duplicate id", entry.ID)
		}
		seen[entry.ID] = true

		pos, err := resolveCell(conv, entry.X, entry.Y, entry.Unit)
		if err != nil {
			return engine.Snapshot{}, fmt.Errorf("object %s: %w", entry.ID, err)
		}
		size := domain.Footprint{Width: entry.Width, Height: entry.Height}
		if err := size.Validate(); err != nil {
			return engine.Snapshot{}, fmt.Errorf("object %s: %w", entry.ID, err)
		}
		solid := entry.Kind != domain.ObjectKindDecoration
		if entry.Solid != nil {
			solid = *entry.Solid
		}
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		snap.Objects = append(snap.Objects, domain.RoomObject{
			ID: entry.ID, Name: name, Kind: entry.Kind,
			Pos: pos, Size: size, Solid: solid,
		})
	}
	return snap, nil
}

func resolveCell(conv *gridconv.Converter, x, y float64, unit gridconv.Unit) (domain.Cell, error) {
	if unit != "" {
		return conv.ToCell(gridconv.Coordinate{Unit: unit, X: x, Y: y})
	}
	// Без единиц: старые данные.
	p, err := spatial.NewPosition(x, y)
	if err != nil {
		return domain.Cell{}, err
	}
	return conv.ContinuousToGrid(conv.NormalizeLegacyPosition(p)), nil
}

// SaveLayout пишет snap в path в клетках.
func SaveLayout(path string, snap engine.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLayout(f, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteLayout всегда явно помечает позиции, чтобы файлу больше не нужна была эвристика.
func WriteLayout(w io.Writer, snap engine.Snapshot) error {
	fp := snap.Footprint
	file := LayoutFile{
		Version: LayoutVersion1,
		Agent: AgentSpec{
			X: float64(snap.Agent.X), Y: float64(snap.Agent.Y),
			Unit:      gridconv.UnitGrid,
			Facing:    string(snap.Facing),
			Footprint: &fp,
		},
	}
	for _, obj := range snap.Objects {
		solid := obj.Solid
		file.Objects = append(file.Objects, ObjectSpec{
			ID: obj.ID, Name: obj.Name, Kind: obj.Kind,
			X: float64(obj.Pos.X), Y: float64(obj.Pos.Y),
			Unit:  gridconv.UnitGrid,
			Width: obj.Size.Width, Height: obj.Size.Height,
			Solid: &solid,
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&file); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return enc.Close()
}
