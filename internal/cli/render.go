package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dotswarm/dotswarm/pkg/board"
	"github.com/dotswarm/dotswarm/pkg/cache"
	"github.com/dotswarm/dotswarm/pkg/export"
)

// cacheTTL bounds how long rendered artifacts are kept before recomputing.
const cacheTTL = 30 * 24 * time.Hour

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file path (single format) or base path (multiple)
	spec    string   // column spec path; empty means <dataset>.toml
	formats []string // output formats: "svg", "json"
	ticks   int      // simulation steps before projecting the frame
	seed    uint64   // layout seed
	title   string   // optional SVG title
	legend  bool     // include the legend in the output
	noCache bool     // bypass the artifact cache
}

// renderCommand creates the render command for headless output.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		ticks:  defaultTicks,
		seed:   board.DefaultSeed,
		legend: true,
	}

	cmd := &cobra.Command{
		Use:   "render [dataset.csv]",
		Short: "Settle the board headless and write SVG or JSON",
		Long: `Settle the board headless and write SVG or JSON.

The render command loads the dataset, runs the force simulation until the
configured tick count, then projects the final frame to the requested
formats. Identical inputs are served from the artifact cache.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	cmd.Flags().StringVar(&opts.spec, "spec", "", "column spec path (default: dataset path with .toml extension)")
	cmd.Flags().IntVar(&opts.ticks, "ticks", opts.ticks, "simulation steps before the frame is projected")
	cmd.Flags().Uint64Var(&opts.seed, "seed", opts.seed, "layout seed")
	cmd.Flags().StringVar(&opts.title, "title", "", "title text drawn above the board (svg)")
	cmd.Flags().BoolVar(&opts.legend, "legend", opts.legend, "include the category and size legend")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// runRender settles the board and writes one artifact per requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	datasetHash, specHash, err := inputHashes(input, opts.spec)
	if err != nil {
		return err
	}

	store, err := newCache(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	// Serve every format we can from the cache before paying for a settle.
	artifacts := make(map[string][]byte, len(opts.formats))
	cacheHit := true
	for _, format := range opts.formats {
		key := renderCacheKey(datasetHash, specHash, opts, format)
		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			artifacts[format] = data
		} else {
			cacheHit = false
		}
	}

	var markerCount, cellCount int
	if !cacheHit {
		frame, legend, err := c.settle(ctx, input, opts)
		if err != nil {
			return err
		}
		markerCount = len(frame.Markers)
		cellCount = len(frame.Cells)
		for _, format := range opts.formats {
			if _, ok := artifacts[format]; ok {
				continue
			}
			data, err := renderArtifact(frame, legend, format, opts)
			if err != nil {
				return err
			}
			artifacts[format] = data
			key := renderCacheKey(datasetHash, specHash, opts, format)
			if err := store.Set(ctx, key, data, cacheTTL); err != nil {
				printWarning("cache write failed: %v", err)
			}
		}
	}

	for _, format := range opts.formats {
		path := outputPath(input, opts.output, format, len(opts.formats) > 1)
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printBoardStats(markerCount, cellCount, cacheHit)
	return nil
}

// settle builds the board and runs it until opts.ticks, honoring cancellation.
func (c *CLI) settle(ctx context.Context, input string, opts *renderOpts) (board.Frame, board.Legend, error) {
	logger := loggerFromContext(ctx)

	d, err := loadDataset(input, opts.spec)
	if err != nil {
		return board.Frame{}, board.Legend{}, err
	}
	logger.Debug("dataset loaded", "rows", len(d.Rows), "groups", len(d.Groups()))

	cfg := board.DefaultConfig()
	cfg.Seed = opts.seed
	b, err := board.New(d, cfg)
	if err != nil {
		return board.Frame{}, board.Legend{}, err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Settling %d markers...", len(d.Rows)))
	spinner.Start()
	track := newProgress(logger)

	for i := 0; i < opts.ticks; i++ {
		if i%64 == 0 && ctx.Err() != nil {
			spinner.Stop()
			return board.Frame{}, board.Legend{}, ctx.Err()
		}
		b.Tick()
	}

	spinner.Stop()
	track.done(fmt.Sprintf("Settled %d markers in %d groups", len(d.Rows), len(d.Groups())))

	return b.Snapshot(), b.Legend(), nil
}

// renderArtifact projects a settled frame into the requested format.
func renderArtifact(frame board.Frame, legend board.Legend, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts := []export.SVGOption{}
		if opts.legend {
			svgOpts = append(svgOpts, export.WithLegend(legend))
		}
		if opts.title != "" {
			svgOpts = append(svgOpts, export.WithTitle(opts.title))
		}
		return export.RenderSVG(frame, svgOpts...), nil
	case FormatJSON:
		jsonOpts := []export.JSONOption{}
		if opts.legend {
			jsonOpts = append(jsonOpts, export.WithJSONLegend(legend))
		}
		return export.MarshalJSON(frame, jsonOpts...)
	}
	return nil, fmt.Errorf("invalid format: %s", format)
}

// renderCacheKey derives the artifact cache key for one output format.
func renderCacheKey(datasetHash, specHash string, opts *renderOpts, format string) string {
	return cache.RenderKey(datasetHash, specHash, opts.seed, opts.ticks, format)
}

// inputHashes hashes the dataset and spec files for cache keying.
func inputHashes(input, specPath string) (string, string, error) {
	if specPath == "" {
		specPath = specPathFor(input)
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", input, err)
	}
	spec, err := os.ReadFile(specPath)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", specPath, err)
	}
	return cache.Hash(data), cache.Hash(spec), nil
}

// outputPath resolves where the artifact for one format should land.
// With multiple formats the --output value is treated as a base path and
// the format extension replaces or extends it.
func outputPath(input, output, format string, multi bool) string {
	if output == "" {
		ext := filepath.Ext(input)
		return strings.TrimSuffix(input, ext) + "." + format
	}
	if !multi {
		return output
	}
	ext := filepath.Ext(output)
	return strings.TrimSuffix(output, ext) + "." + format
}
