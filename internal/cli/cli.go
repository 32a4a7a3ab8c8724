// Package cli implements the dotswarm command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dotswarm/dotswarm/pkg/buildinfo"
	"github.com/dotswarm/dotswarm/pkg/cache"
	"github.com/dotswarm/dotswarm/pkg/dataset"
	"github.com/dotswarm/dotswarm/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "dotswarm"

	// defaultTicks is the number of simulation steps a headless render runs
	// before projecting the frame. Energy decay leaves the board effectively
	// still well before this.
	defaultTicks = 300
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "dotswarm",
		Short:        "Dotswarm lays out tabular data as swarms of circles",
		Long:         `Dotswarm reads a CSV dataset, splits the rows into per-group cells, and settles each group into a cluster of circles with a small force simulation. Explore the board interactively in the terminal or render it headless to SVG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.runCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Dataset Loading
// =============================================================================

// loadDataset reads the column spec and the CSV it describes. When specPath
// is empty the spec is looked up next to the dataset with a .toml extension.
func loadDataset(path, specPath string) (*dataset.Dataset, error) {
	if specPath == "" {
		specPath = specPathFor(path)
	}
	spec, err := dataset.LoadSpec(specPath)
	if err != nil {
		return nil, err
	}
	return dataset.LoadFile(path, spec)
}

// specPathFor derives the default spec path from a dataset path by swapping
// the extension for .toml (data/trees.csv -> data/trees.toml).
func specPathFor(datasetPath string) string {
	ext := filepath.Ext(datasetPath)
	return strings.TrimSuffix(datasetPath, ext) + ".toml"
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dotswarm/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// Output formats supported by the render command.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{FormatSVG}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are supported.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if f != FormatSVG && f != FormatJSON {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg' or 'json')", f)
		}
	}
	return nil
}
