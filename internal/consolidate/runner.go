package consolidate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/bpmerge/internal/archive"
	"github.com/JonMunkholm/bpmerge/internal/config"
	"github.com/JonMunkholm/bpmerge/internal/csvio"
	"github.com/JonMunkholm/bpmerge/internal/logging"
	"github.com/JonMunkholm/bpmerge/internal/observability"
)

// ErrNotFolder is returned when the run root is missing or not a directory.
var ErrNotFolder = errors.New("not a valid folder")

// Summary reports the outcome of a run.
type Summary struct {
	RunID        string
	Archive      string
	Files        int
	Duplicates   int
	Unrecognized int
	Merged       int
	Outputs      []string
}

// Runner consolidates the exports found under a folder.
type Runner struct {
	cfg      *config.Config
	location *time.Location
	metrics  *observability.Metrics
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithLocation sets the zone reading timestamps are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) { r.location = loc }
}

// WithClock replaces time.Now, which names the backup archive.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithMetrics records run counters into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// NewRunner returns a Runner using cfg.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = observability.NewMetrics()
	}
	return r
}

/* ----------------------------------------
	Main entry for a folder run
---------------------------------------- */

// Run archives, deduplicates and parses every export under root, then writes
// the consolidated CSV files into root.
//
// Files are visited in lexical order so the merge grouping is reproducible.
// The run stops at the first filesystem error or malformed reading; files
// already removed or written stay that way.
func (r *Runner) Run(ctx context.Context, root string) (*Summary, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotFolder)
	}

	start := r.now()
	sum := &Summary{RunID: uuid.New().String()}
	ctx = logging.WithRun(ctx, sum.RunID)
	logger := logging.FromContext(ctx)

	backupDir := filepath.Join(root, r.cfg.Archive.Dir)
	backup, err := archive.Create(backupDir, archive.Name(r.cfg.Archive.Prefix, r.cfg.Archive.TimeLayout, start))
	if err != nil {
		return nil, err
	}
	sum.Archive = backup.Path()

	logger.Info("run started", "root", root, "archive", sum.Archive)

	engine := NewEngine(r.location, r.cfg.Merge.Window)
	seen := archive.NewSeen()

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == backupDir {
				return filepath.SkipDir
			}
			return nil
		}
		if r.skip(d.Name()) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled before %s: %w", path, err)
		}
		return r.processFile(ctx, path, backup, seen, engine, sum)
	})

	closeErr := backup.Close()
	if walkErr != nil {
		return sum, walkErr
	}
	if closeErr != nil {
		return sum, closeErr
	}

	for _, out := range engine.Outputs() {
		if filepath.Base(out.Name) != out.Name {
			return sum, fmt.Errorf("output name %q is not a plain file name", out.Name)
		}
		path := filepath.Join(root, out.Name)
		if err := csvio.WriteFile(path, out.Text); err != nil {
			return sum, err
		}
		sum.Outputs = append(sum.Outputs, path)
		r.metrics.RecordOutput()
		logger.Info("output written", "path", path)
	}

	r.metrics.RecordCompleted(start, r.now())
	if p := r.cfg.Metrics.TextfilePath; p != "" {
		if err := r.metrics.WriteTextfile(p); err != nil {
			logger.Warn("metrics export failed", "error", err)
		}
	}

	logger.Info("run completed",
		"files", sum.Files,
		"duplicates", sum.Duplicates,
		"unrecognized", sum.Unrecognized,
		"merged", sum.Merged,
		"outputs", len(sum.Outputs),
	)
	return sum, nil
}

// skip reports whether a file name is excluded from the run: dot files and
// reserved extensions (earlier outputs and archives).
func (r *Runner) skip(name string) bool {
	if r.cfg.Scan.SkipHidden && strings.HasPrefix(name, ".") {
		return true
	}
	return r.cfg.SkipsExtension(filepath.Ext(name))
}

/* ----------------------------------------
	Process individual export
---------------------------------------- */

func (r *Runner) processFile(
	ctx context.Context,
	path string,
	backup *archive.Backup,
	seen *archive.Seen,
	engine *Engine,
	sum *Summary,
) error {
	sum.Files++

	// 1. Archive the original before anything can remove it
	if err := backup.Add(path); err != nil {
		r.metrics.RecordFile(observability.OutcomeFailed)
		return err
	}

	// 2. Skip byte-identical copies
	hash, err := archive.HashFile(path)
	if err != nil {
		r.metrics.RecordFile(observability.OutcomeFailed)
		return err
	}
	logger := logging.WithFields(ctx, "path", path, "hash", hash)

	if seen.Check(hash) {
		sum.Duplicates++
		r.metrics.RecordFile(observability.OutcomeDuplicate)
		logger.Info("duplicate skipped")
		return r.removeOriginal(path)
	}

	// 3. Decode + split
	rows, enc, err := csvio.ReadFile(path)
	if err != nil {
		r.metrics.RecordFile(observability.OutcomeFailed)
		return err
	}

	// 4. Parse + fold
	res, err := engine.Ingest(rows)
	if err != nil {
		r.metrics.RecordFile(observability.OutcomeFailed)
		return fmt.Errorf("%s: %w", path, err)
	}

	switch {
	case !res.Recognized():
		sum.Unrecognized++
		r.metrics.RecordFile(observability.OutcomeUnrecognized)
		logger.Warn("not a monitor export, ignored", "encoding", enc, "rows", len(rows))
	default:
		r.metrics.RecordFile(observability.OutcomeParsed)
		r.metrics.RecordReadings(res.Readings)
		if res.Merged {
			sum.Merged++
			r.metrics.RecordMerge()
		}
		logger.Info("export parsed",
			"encoding", enc,
			"readings", res.Readings,
			"merged", res.Merged,
		)
	}

	// 5. Remove the original; it is in the backup
	return r.removeOriginal(path)
}

func (r *Runner) removeOriginal(path string) error {
	if !r.cfg.Archive.RemoveOriginals {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", filepath.Base(path), err)
	}
	return nil
}
