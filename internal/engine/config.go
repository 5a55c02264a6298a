package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"deskmate-server/internal/domain"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/spatial"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config хранит параметры запуска. Нулевые значения напрямую не используются:
// начинаем с NewConfig и накладываем файл.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Grid   GridConfig   `yaml:"grid"`
	Room   RoomConfig   `yaml:"room"`
	Layout LayoutConfig `yaml:"layout"`
	Wander WanderConfig `yaml:"wander"`
}

// ServerConfig - HTTP-слушатель. MaxPathCells ограничивает width*height сетки для /api/path.
type ServerConfig struct {
	Port         string `yaml:"port"`
	MaxPathCells int    `yaml:"max_path_cells"`
}

// DefaultMaxPathCells - 256x256.
const DefaultMaxPathCells = 1 << 16

// GridConfig - навигационная сетка и размер старой клетки, в которой она размечалась.
type GridConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	LegacyCellWidth  float64 `yaml:"legacy_cell_width"`
	LegacyCellHeight float64 `yaml:"legacy_cell_height"`
}

// RoomConfig - непрерывные размеры комнаты в пикселях.
type RoomConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type LayoutConfig struct {
	Path  string `yaml:"path"`
	Watch bool   `yaml:"watch"`
}

// WanderConfig - блуждание в простое. Interval 0 его отключает.
type WanderConfig struct {
	Interval    time.Duration `yaml:"interval"`
	MaxDistance int           `yaml:"max_distance"`
	Seed        int64         `yaml:"seed"`
}

// NewConfig возвращает значения по умолчанию: сетка 64x16 поверх комнаты 1920x480.
func NewConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8080", MaxPathCells: DefaultMaxPathCells},
		Grid: GridConfig{
			Width:            domain.DefaultGridWidth,
			Height:           domain.DefaultGridHeight,
			LegacyCellWidth:  domain.DefaultLegacyCellWidth,
			LegacyCellHeight: domain.DefaultLegacyCellHeight,
		},
		Room: RoomConfig{
			Width:  domain.DefaultRoomWidth,
			Height: domain.DefaultRoomHeight,
		},
		Wander: WanderConfig{MaxDistance: 8},
	}
}

// LoadConfig накладывает YAML-файл на значения по умолчанию, затем окружение
// (DESKMATE_PORT, DESKMATE_LAYOUT). Пустой путь пропускает файл.
func LoadConfig(path string) (Config, error) {
	cfg := NewConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if port := os.Getenv("DESKMATE_PORT"); port != "" {
		c.Server.Port = port
	}
	if layout := os.Getenv("DESKMATE_LAYOUT"); layout != "" {
		c.Layout.Path = layout
	}
}

// Validate отсекает настройки, при которых любой запрос бессмысленен.
func (c Config) Validate() error {
	if _, err := gridconv.NewConverter(c.GridLayout()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("%w: empty port", ErrInvalidConfig)
	}
	if c.Server.MaxPathCells <= 0 {
		return fmt.Errorf("%w: max_path_cells must be positive", ErrInvalidConfig)
	}
	if c.Wander.Interval < 0 {
		return fmt.Errorf("%w: negative wander interval", ErrInvalidConfig)
	}
	return nil
}

// GridLayout - конфиг глазами конвертера. Сетка и комната должны
// одинаково передаваться и конвертеру, и pathfinder'у.
func (c Config) GridLayout() gridconv.Layout {
	return gridconv.Layout{
		GridWidth:        c.Grid.Width,
		GridHeight:       c.Grid.Height,
		LegacyCellWidth:  c.Grid.LegacyCellWidth,
		LegacyCellHeight: c.Grid.LegacyCellHeight,
		Room: spatial.BoundingBox{
			Origin: spatial.Position{X: c.Room.OriginX, Y: c.Room.OriginY},
			Size:   spatial.Size{Width: c.Room.Width, Height: c.Room.Height},
		},
	}
}
