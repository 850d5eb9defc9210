// Command skim is a terminal speed reader for EPUB, Markdown, and plain
// text documents. It presents one word at a time at a configurable pace,
// supports word/line/section navigation with a table of contents, and
// resumes each document from its last saved position.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/skimreader/skim/internal/cursor"
	"github.com/skimreader/skim/internal/document"
	"github.com/skimreader/skim/internal/render"
	"github.com/skimreader/skim/internal/state"
)

// Build information. Populated at build-time via -ldflags flag.
var (
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set so
	// version remains "dev". Fall back to runtime/debug.BuildInfo which Go
	// populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

type flags struct {
	WPM      int
	Words    string
	StateDir string
	LogLevel string
	LogFile  string
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		opts      flags
	)

	app := &cli.Command{
		Name:      "skim",
		Usage:     "RSVP speed reader for EPUB, Markdown, and plain text",
		UsageText: "skim [options] <file>",
		ArgsUsage: "<file>",
		Description: `Skim renders a document one word at a time at a configurable pace,
keeping the surrounding lines and the table of contents in view. Reading
positions are saved per document and restored on the next open.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "wpm",
				Aliases:     []string{"w"},
				Usage:       "reading speed in words per minute",
				Sources:     cli.EnvVars("SKIM_WPM"),
				Value:       300,
				Destination: &opts.WPM,
			},
			&cli.StringFlag{
				Name:        "words",
				Usage:       "word segmentation: 'all' tokens or only 'letters'",
				Sources:     cli.EnvVars("SKIM_WORDS"),
				Value:       "all",
				Destination: &opts.Words,
			},
			&cli.StringFlag{
				Name:        "state-dir",
				Usage:       "directory for saved reading positions",
				Sources:     cli.EnvVars("SKIM_STATE_DIR"),
				Value:       state.DefaultDir(),
				Destination: &opts.StateDir,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("SKIM_LOG_LEVEL"),
				Value:       "info",
				Destination: &opts.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <state-dir>/skim.log)",
				Sources:     cli.EnvVars("SKIM_LOG_FILE"),
				Destination: &opts.LogFile,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; the terminal belongs to the TUI.
			logFile := opts.LogFile
			if logFile == "" {
				logFile = filepath.Join(opts.StateDir, "skim.log")
			}
			logger, closer, err := newLogger(opts.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer
			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return run(c.Args().First(), opts)
		},
	}

	err := app.Run(ctx, os.Args)
	if logCloser != nil {
		logCloser()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(path string, opts flags) error {
	if path == "" {
		return fmt.Errorf("no input file (supported: %s)",
			strings.Join(document.SupportedFormats(), ", "))
	}

	policy, err := parsePolicy(opts.Words)
	if err != nil {
		return err
	}

	doc, err := document.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	log.Info().
		Str("path", path).
		Str("id", doc.UniqueID()).
		Int("sections", doc.SectionCount()).
		Msg("document opened")

	cur, err := cursor.NewDocumentCursor(doc, render.Render, 80, policy)
	if err != nil {
		return err
	}

	pos := state.Load(opts.StateDir, doc.UniqueID())
	if err := cur.Restore(pos); err != nil {
		log.Warn().Err(err).Msg("could not restore saved position")
	}

	m := newModel(cur, clampWPM(opts.WPM), policy, opts.StateDir)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func parsePolicy(words string) (cursor.Policy, error) {
	switch words {
	case "all":
		return cursor.IndexAllTokens, nil
	case "letters":
		return cursor.IndexAlphabetic, nil
	default:
		return 0, fmt.Errorf("invalid --words value %q (want 'all' or 'letters')", words)
	}
}

func clampWPM(wpm int) int {
	if wpm < minWPM {
		return minWPM
	}
	if wpm > maxWPM {
		return maxWPM
	}
	return wpm
}

// newLogger returns a logger that writes JSON to the given file.
func newLogger(level, file string) (zerolog.Logger, func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return zerolog.Logger{}, closer, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.Create(file)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}
	closer = func() { _ = f.Close() }

	l := zerolog.New(f).
		With().
		Timestamp().
		Logger().
		Level(lvl)

	return l, closer, nil
}
