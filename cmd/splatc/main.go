// splatc converts triangulated mesh assets (glTF/GLB) into splat
// point-cloud files for real-time renderers.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/splatc/internal/config"
	"github.com/Faultbox/splatc/internal/logger"
	"github.com/Faultbox/splatc/pkg/gltfmesh"
	"github.com/Faultbox/splatc/pkg/splat"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "convert":
		cmdConvert(args)
	case "info":
		cmdInfo(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`splatc - mesh to splat point-cloud converter

Usage:
  splatc <command> [options]

Commands:
  convert <input> <output> [options]  Convert a glTF/GLB mesh to a splat file
  info <file.splat>                   Show splat file information
  config [--write]                    Show effective config (--write saves it)

Convert options:
  --samples N     Number of surface samples (default 500000)
  --seed S        Random seed for reproducible sampling
  --workers W     Concurrent sampling workers (default: one per CPU)
  --config PATH   Explicit config file
  --log-level L   debug, info, warn or error

Examples:
  splatc convert model.glb model.splat
  splatc convert model.glb model.splat --samples 250000 --seed 7
  splatc info model.splat`)
}

// parseInterleaved parses a flagset over arguments where flags may
// appear before or after positionals. Stdlib flag stops at the first
// non-flag token, so each remaining token is peeled off as a positional
// and parsing resumes on the rest.
func parseInterleaved(fs *flag.FlagSet, args []string) []string {
	var positionals []string
	fs.Parse(args)
	for {
		rest := fs.Args()
		if len(rest) == 0 {
			return positionals
		}
		positionals = append(positionals, rest[0])
		fs.Parse(rest[1:])
	}
}

// convertFlags carries the convert command's parsed arguments. seedSet
// distinguishes an explicit --seed 0 from an absent flag.
type convertFlags struct {
	positionals []string
	samples     string
	seed        int64
	seedSet     bool
	workers     int
	configPath  string
	logLevel    string
}

func parseConvertArgs(args []string) convertFlags {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	samples := fs.String("samples", "", "Number of surface samples")
	seed := fs.Int64("seed", 0, "Random seed")
	workers := fs.Int("workers", 0, "Concurrent sampling workers (0 = one per CPU)")
	configPath := fs.String("config", "", "Path to config file")
	logLevel := fs.String("log-level", "", "Log level override")

	f := convertFlags{positionals: parseInterleaved(fs, args)}
	f.samples = *samples
	f.seed = *seed
	f.workers = *workers
	f.configPath = *configPath
	f.logLevel = *logLevel
	fs.Visit(func(fl *flag.Flag) {
		if fl.Name == "seed" {
			f.seedSet = true
		}
	})
	return f
}

func cmdConvert(args []string) {
	f := parseConvertArgs(args)

	if len(f.positionals) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: splatc convert <input> <output> [options]")
		os.Exit(1)
	}
	inputPath := f.positionals[0]
	outputPath := f.positionals[1]

	cfg, err := config.Load(f.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	level := cfg.Logging.Level
	if f.logLevel != "" {
		level = f.logLevel
	}
	if err := logger.Init(level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts := optionsFromConfig(cfg, f)

	start := time.Now()
	prims, err := gltfmesh.Load(inputPath)
	if err != nil {
		logger.Sugar.Fatalf("loading %s: %v", inputPath, err)
	}

	mesh, err := splat.Aggregate(prims)
	if err != nil {
		logger.Sugar.Fatalf("aggregating mesh: %v", err)
	}
	logger.Log.Info("loaded mesh",
		zap.String("input", inputPath),
		zap.Int("primitives", len(prims)),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("faces", len(mesh.Faces)),
		zap.Duration("elapsed", time.Since(start)),
	)

	sampleStart := time.Now()
	splats, err := splat.Convert(mesh, opts)
	if err != nil {
		logger.Sugar.Fatalf("converting mesh: %v", err)
	}
	logger.Log.Info("sampled surface",
		zap.Int("splats", len(splats)),
		zap.Int64("seed", opts.Seed),
		zap.Duration("elapsed", time.Since(sampleStart)),
	)

	buf := splat.Encode(splats)
	if err := os.WriteFile(outputPath, buf, 0644); err != nil {
		logger.Sugar.Fatalf("writing %s: %v", outputPath, err)
	}

	manifest := splat.NewManifest(len(splats), mesh.Bounds)
	manifestData, err := manifest.MarshalJSONIndent()
	if err != nil {
		logger.Sugar.Fatalf("encoding manifest: %v", err)
	}
	manifestPath := outputPath + ".json"
	if err := os.WriteFile(manifestPath, manifestData, 0644); err != nil {
		logger.Sugar.Fatalf("writing %s: %v", manifestPath, err)
	}

	logger.Log.Info("wrote splat file",
		zap.String("output", outputPath),
		zap.Int("bytes", len(buf)),
		zap.String("manifest", manifestPath),
		zap.Duration("total", time.Since(start)),
	)
}

// optionsFromConfig layers CLI flags over the configured defaults. The
// samples flag is forgiving: anything that doesn't parse as a positive
// integer falls back to the configured count.
func optionsFromConfig(cfg *config.Config, f convertFlags) splat.Options {
	opts := splat.Options{
		Samples:     cfg.Convert.Samples,
		Seed:        cfg.Convert.Seed,
		Workers:     cfg.Convert.Workers,
		ScaleFactor: cfg.Convert.ScaleFactor,
		Flatten:     cfg.Convert.Flatten,
	}

	if f.samples != "" {
		n, err := strconv.Atoi(f.samples)
		if err != nil || n <= 0 {
			fmt.Fprintf(os.Stderr, "Ignoring invalid --samples %q, using %d\n", f.samples, opts.Samples)
		} else {
			opts.Samples = n
		}
	}
	if f.seedSet {
		opts.Seed = f.seed
	}
	if f.workers != 0 {
		opts.Workers = f.workers
	}
	if opts.Workers == 0 {
		opts.Workers = runtime.NumCPU()
	}
	return opts
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	positionals := parseInterleaved(fs, args)

	if len(positionals) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: splatc info <file.splat>")
		os.Exit(1)
	}

	data, err := os.ReadFile(positionals[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	splats, err := splat.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:    %s\n", positionals[0])
	fmt.Printf("Size:    %d bytes\n", len(data))
	fmt.Printf("Splats:  %d (%d bytes each)\n", len(splats), splat.BytesPerSplat)

	if len(splats) == 0 {
		return
	}

	lo, hi := splats[0].Position, splats[0].Position
	for _, s := range splats[1:] {
		lo = lo.Min(s.Position)
		hi = hi.Max(s.Position)
	}
	fmt.Printf("Bounds:  min (%.4f, %.4f, %.4f)\n", lo.X, lo.Y, lo.Z)
	fmt.Printf("         max (%.4f, %.4f, %.4f)\n", hi.X, hi.Y, hi.Z)
	fmt.Printf("Scale:   (%.5f, %.5f, %.5f)\n", splats[0].Scale.X, splats[0].Scale.Y, splats[0].Scale.Z)
}

func cmdConfig(args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	write := fs.Bool("write", false, "Write the effective config to the user config directory")
	configPath := fs.String("config", "", "Path to config file")
	parseInterleaved(fs, args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *write {
		if err := cfg.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", config.ConfigDir()+"/splatc.yaml")
		return
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}
