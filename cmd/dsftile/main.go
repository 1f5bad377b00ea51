// Command dsftile inspects, converts and merges X-Plane DSF scenery tiles
// using the text form of the format. Binary conversion is delegated to
// Laminar's DSFTool executable.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/scenery-tools/xpdsf/dsf"
	"github.com/scenery-tools/xpdsf/internal/config"
	"github.com/scenery-tools/xpdsf/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfgPath := os.Getenv("DSFTILE_CONFIG")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	opts := logger.DefaultOptions(cfg.Logging.LogFile)
	opts.Level = cfg.Logging.Level
	log := logger.New(opts)
	defer log.Sync()

	ctx := context.Background()

	switch os.Args[1] {
	case "info":
		err = runInfo(ctx, cfg, log, os.Args[2:])
	case "geojson":
		err = runGeoJSON(ctx, cfg, log, os.Args[2:])
	case "totext":
		err = runToText(ctx, cfg, log, os.Args[2:])
	case "todsf":
		err = runToDSF(ctx, cfg, log, os.Args[2:])
	case "merge":
		err = runMerge(ctx, cfg, log, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Error("command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: dsftile <command> [arguments]

commands:
  info    <tile>                 print feature counts for a tile
  geojson <tile> [-o out]        render a tile as GeoJSON
  totext  <tile.dsf>             convert a binary tile to text
  todsf   <tile.txt>             convert a text tile to binary
  merge   -south N -west W <tile>...
                                 merge tiles and write the result

Tiles with a .txt extension are read directly; anything else goes
through DSFTool (config key tool.dsftool_path).`)
}

func loadTile(ctx context.Context, cfg *config.Config, log *zap.Logger, path string) (*dsf.Tile, error) {
	t := dsf.NewTile()
	t.SetLogger(log)

	if strings.HasSuffix(path, ".txt") {
		return t, t.ReadText(path)
	}
	tool := dsf.NewDSFTool(cfg.Tool.DSFToolPath)
	tool.SetLogger(log)
	return t, t.Read(ctx, path, tool)
}

func runInfo(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("info wants exactly one tile argument")
	}
	t, err := loadTile(ctx, cfg, log, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("objects:  %d\n", len(t.Objects))
	fmt.Printf("polygons: %d\n", len(t.Polygons))
	fmt.Printf("facades:  %d\n", len(t.Facades))
	fmt.Printf("forests:  %d\n", len(t.Forests))
	fmt.Printf("strings:  %d\n", len(t.Strings))
	fmt.Printf("lines:    %d\n", len(t.Lines))
	fmt.Printf("roads:    %d\n", len(t.Roads))
	fmt.Printf("excludes: %d\n", len(t.Excludes))
	fmt.Printf("patches:  %d\n", len(t.TerrainPatches))
	return nil
}

func runGeoJSON(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("geojson", flag.ExitOnError)
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("geojson wants exactly one tile argument")
	}

	t, err := loadTile(ctx, cfg, log, fs.Arg(0))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(t.FeatureCollection(), "", "  ")
	if err != nil {
		return err
	}
	if *out == "" {
		fmt.Println(string(data))
		return nil
	}
	return os.WriteFile(*out, data, 0o644)
}

func runToText(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("totext wants exactly one tile argument")
	}
	tool := dsf.NewDSFTool(cfg.Tool.DSFToolPath)
	tool.SetLogger(log)

	out, err := tool.ToText(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runToDSF(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("todsf wants exactly one tile argument")
	}
	tool := dsf.NewDSFTool(cfg.Tool.DSFToolPath)
	tool.SetLogger(log)

	out, err := tool.ToBinary(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runMerge(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	south := fs.Int("south", 0, "tile south edge latitude")
	west := fs.Int("west", 0, "tile west edge longitude")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("merge wants at least one tile argument")
	}

	merged := dsf.NewTile()
	merged.SetLogger(log)
	for _, path := range fs.Args() {
		t, err := loadTile(ctx, cfg, log, path)
		if err != nil {
			return err
		}
		merged.Merge(t)
	}

	out, err := merged.Write(cfg.Output.Dir, *south, *west)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
