package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"deskmate-server/internal/engine"
	"deskmate-server/internal/gridconv"
	"deskmate-server/internal/infrastructure/storage"
	"deskmate-server/internal/spatial"
)

func main() {
	fs := flag.NewFlagSet("coordconv", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to YAML config with grid/room settings")
	fs.Usage = func() { printHelp(os.Stderr) }
	_ = fs.Parse(os.Args[1:])

	cfg, err := engine.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	conv, err := gridconv.NewConverter(cfg.GridLayout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid layout: %v\n", err)
		os.Exit(1)
	}

	if err := run(os.Stdout, conv, fs.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, conv *gridconv.Converter, args []string) error {
	if len(args) < 1 {
		printHelp(out)
		return nil
	}

	switch args[0] {
	case "to-pixel":
		x, y, err := pair(args)
		if err != nil {
			return err
		}
		cell, err := conv.ToCell(gridconv.Coordinate{Unit: gridconv.UnitGrid, X: x, Y: y})
		if err != nil {
			return err
		}
		p := conv.GridToContinuous(cell)
		c := conv.CellCenter(cell)
		fmt.Fprintf(out, "cell (%d, %d) -> pixel (%g, %g), center (%g, %g)\n", cell.X, cell.Y, p.X, p.Y, c.X, c.Y)
	case "to-grid":
		x, y, err := pair(args)
		if err != nil {
			return err
		}
		cell, err := conv.ToCell(gridconv.Coordinate{Unit: gridconv.UnitPixel, X: x, Y: y})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "pixel (%g, %g) -> cell (%d, %d)\n", x, y, cell.X, cell.Y)
	case "classify":
		x, y, err := pair(args)
		if err != nil {
			return err
		}
		p := spatial.Position{X: x, Y: y}
		n := conv.NormalizeLegacyPosition(p)
		fmt.Fprintf(out, "(%g, %g) looks like %s -> pixel (%g, %g)\n", x, y, conv.Classify(p), n.X, n.Y)
	case "normalize":
		// Переписывает layout-файл, переводя все позиции в явные клетки.
		if len(args) < 2 {
			return fmt.Errorf("usage: coordconv normalize <layout.yaml> [out.yaml]")
		}
		snap, err := storage.LoadLayout(args[1], conv)
		if err != nil {
			return err
		}
		if len(args) < 3 {
			return storage.WriteLayout(out, snap)
		}
		if err := storage.SaveLayout(args[2], snap); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %d objects to %s\n", len(snap.Objects), args[2])
	case "cell":
		s := conv.CellPixelSize()
		l := conv.Layout()
		fmt.Fprintf(out, "grid %dx%d, cell %gx%g px, room %gx%g px at (%g, %g)\n",
			l.GridWidth, l.GridHeight, s.Width, s.Height,
			l.Room.Size.Width, l.Room.Size.Height, l.Room.Origin.X, l.Room.Origin.Y)
	default:
		printHelp(out)
	}
	return nil
}

func pair(args []string) (float64, float64, error) {
	if len(args) < 3 {
		return 0, 0, fmt.Errorf("usage: coordconv %s <x> <y>", args[0])
	}
	x, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", args[2], err)
	}
	return x, y, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `Coordinate utility - convert between grid cells and room pixels
Usage: coordconv [-config file.yaml] <command> [args]
Commands:
  to-pixel <x> <y>      - cell to its top-left pixel and center
  to-grid <x> <y>       - pixel to the cell containing it (clamped)
  classify <x> <y>      - how an untagged legacy position would be read
  normalize <in> [out]  - rewrite a layout file with positions in grid units
  cell                  - print the active grid geometry`)
}
