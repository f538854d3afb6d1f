// Package app wires the generator together: configuration, definition
// loading, capacity planning, and frame synthesis. The CLI and the watch
// mode both drive a single App.
package app

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/google/uuid"

	"github.com/quanterra/framegen/internal/config"
	"github.com/quanterra/framegen/internal/distribution"
	"github.com/quanterra/framegen/internal/genome"
	"github.com/quanterra/framegen/internal/synth"
	"github.com/quanterra/framegen/internal/trace"
)

// App holds the loaded configuration and the process-wide random source.
// The source is seeded once from the configuration; every generation run
// draws from it, so repeated runs in watch mode produce fresh samples.
type App struct {
	cfg *config.Config
	log *slog.Logger
	rng *rand.Rand
}

// New loads the configuration at configPath (empty means the default
// location) and prepares a seeded App.
func New(configPath string, log *slog.Logger) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &App{
		cfg: cfg,
		log: log,
		rng: rand.New(rand.NewPCG(cfg.RandomSeed, 0)),
	}, nil
}

// Config exposes the loaded configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// WatchedFiles returns the input files whose changes invalidate the
// current output: the three definition texts.
func (a *App) WatchedFiles() []string {
	return []string{a.cfg.NucleotideFile, a.cfg.FragmentFile, a.cfg.DistributionFile}
}

// load builds the definition store and distribution table from the
// configured input files, strictly in definition order.
func (a *App) load() (*genome.Store, distribution.Table, error) {
	store := genome.NewStore()
	if err := store.LoadNucleotides(a.cfg.NucleotideFile); err != nil {
		return nil, nil, err
	}
	if err := store.LoadFragments(a.cfg.FragmentFile, a.cfg.AdcPerNucleotide); err != nil {
		return nil, nil, err
	}
	table, err := distribution.Load(a.cfg.DistributionFile, store, a.cfg.CellsPerFrame)
	if err != nil {
		return nil, nil, err
	}
	return store, table, nil
}

func (a *App) params() synth.Params {
	return synth.Params{
		CellsPerFrame:  a.cfg.CellsPerFrame,
		RingBufferSize: a.cfg.RingBufferSize,
		DataFrames:     a.cfg.DataFrames,
		FillerValue:    a.cfg.FillerValue,
	}
}

// Generate runs one full synthesis pass: load definitions, plan capacity,
// and write the output file. It is the -config (default) mode of the CLI
// and the regeneration step of watch mode.
func (a *App) Generate() error {
	log := a.log.With("run", uuid.NewString())

	store, table, err := a.load()
	if err != nil {
		return err
	}

	stats, err := synth.Plan(table, a.params())
	if err != nil {
		return err
	}
	log.Info("capacity plan",
		"longest_sequence", stats.LongestSequence,
		"frames_per_group", stats.FramesPerGroup,
		"frame_groups", stats.FrameGroups,
		"frames_fit", stats.MaxFrames,
		"frames_required", stats.TotalFrames,
		"bytes_required", stats.TotalBytes,
	)

	out, err := os.Create(a.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", a.cfg.OutputFile, err)
	}
	defer out.Close()

	w := bufio.NewWriterSize(out, 1<<20)
	synthesizer := synth.NewSynthesizer(table, store, a.params(), a.rng)
	if err := synthesizer.WriteFrames(w, stats.FrameGroups); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", a.cfg.OutputFile, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", a.cfg.OutputFile, err)
	}

	log.Info("output written", "path", a.cfg.OutputFile, "bytes", stats.TotalBytes)
	return nil
}

// PrintDictionary loads the definitions and writes the fragment and
// distribution dictionary to w instead of generating output.
func (a *App) PrintDictionary(w io.Writer) error {
	store, table, err := a.load()
	if err != nil {
		return err
	}
	return trace.Dictionary(w, store, table)
}

// TraceCell reads the existing output file back and writes the value of
// one cell for every frame to w, one value per line.
func (a *App) TraceCell(w io.Writer, cell int) error {
	f, err := os.Open(a.cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", a.cfg.OutputFile, err)
	}
	defer f.Close()
	return trace.Cell(bufio.NewReaderSize(f, 1<<20), w, a.cfg.CellsPerFrame, cell)
}
