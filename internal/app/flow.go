package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"quik-bars/internal/clean"
	"quik-bars/internal/gaps"
	"quik-bars/internal/merge"
	"quik-bars/internal/model"
	"quik-bars/internal/saver"
	"quik-bars/internal/session"
)

var (
	// ErrAborted is returned when the user declines a confirmation. It is
	// a clean exit, not a failure.
	ErrAborted        = errors.New("aborted by user")
	ErrSourceNotFound = errors.New("source file doesn't exist")
	ErrDestinationDir = errors.New("destination directory doesn't exist")
	ErrNoDestination  = errors.New("either a destination or check-only is required")
)

// ConfirmFunc asks a yes/no question; defaultYes is the answer to an empty reply.
type ConfirmFunc func(question string, defaultYes bool) (bool, error)

// CleanOptions are the per-run options of the clean command.
type CleanOptions struct {
	Source        string
	Dest          string // empty: <source dir>/<stem>.clean.<ext>
	CheckOnly     bool
	Stock         bool
	ExtendedHours bool
	KeepDateTime  bool
	Interactive   bool
	StartDate     time.Time
	EndDate       time.Time
}

// MergeOptions are the per-run options of the merge command.
type MergeOptions struct {
	File1       string
	File2       string
	Dest        string
	CheckOnly   bool
	Interactive bool
	StartDate   time.Time
	EndDate     time.Time
}

// Runner executes the clean and merge flows: check → load → transform → save.
// Nothing is written unless every step before saving succeeded.
type Runner struct {
	Config  *Config
	Log     *slog.Logger
	Saver   saver.SeriesSaver
	Load    LoaderFunc
	Confirm ConfirmFunc // nil: never ask
}

func (r *Runner) ask(interactive bool, q string, defaultYes bool) (bool, error) {
	if !interactive || r.Confirm == nil {
		return defaultYes, nil
	}
	return r.Confirm(q, defaultYes)
}

// proceed asks "Continue" and maps a negative answer to ErrAborted.
func (r *Runner) proceed(interactive bool) error {
	ok, err := r.ask(interactive, "Continue", true)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// Clean runs the cleaning pipeline on one source file.
func (r *Runner) Clean(opts CleanOptions) error {
	out, err := r.checkCleanArgs(&opts)
	if err != nil {
		return fmt.Errorf("check args: %w", err)
	}
	if err := r.proceed(opts.Interactive); err != nil {
		return err
	}

	tbl, err := r.Load(opts.Source).Load(opts.Source)
	if err != nil {
		return fmt.Errorf("load source: %w", err)
	}
	r.Log.Info("loaded source file", "path", opts.Source, "rows", len(tbl.Rows))

	win, err := r.Config.Window()
	if err != nil {
		return fmt.Errorf("check args: %w", err)
	}
	res, err := clean.New(clean.Options{
		KeepDateTime:  opts.KeepDateTime,
		ExtendedHours: opts.ExtendedHours,
		StartDate:     opts.StartDate,
		EndDate:       opts.EndDate,
		Window:        win,
	}, r.Log).Run(tbl)
	if err != nil {
		return fmt.Errorf("clean: %w", err)
	}

	if err := r.proceed(opts.Interactive); err != nil {
		return err
	}

	class := session.Futures
	if opts.Stock {
		class = session.Stock
	}
	var (
		rep *gaps.Report
		log = r.Log
	)
	if n, ok := gaps.ForSeries(res.Series); ok {
		if rep, err = gaps.Detect(res.Series, n, class, win); err != nil {
			return fmt.Errorf("check gaps: %w", err)
		}
		rep.RunID = uuid.NewString()
		log = r.Log.With("run_id", rep.RunID)
		rep.Log(log)
	} else {
		r.Log.Info("skipping intraday check", "period", res.Series.Period)
	}

	if opts.CheckOnly {
		return nil
	}
	if err := r.save(res.Series, out, opts.Dest); err != nil {
		return err
	}
	if rep != nil && r.Config.GapReport {
		path := gaps.ReportPath(opts.Dest)
		if err := gaps.WriteReport(path, rep); err != nil {
			return fmt.Errorf("save gap report: %w", err)
		}
		log.Info("wrote gap report", "path", path, "days", len(rep.Days))
	}
	return nil
}

func (r *Runner) checkCleanArgs(opts *CleanOptions) (saver.SeriesSaver, error) {
	if !isFile(opts.Source) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, opts.Source)
	}
	r.Log.Info("source file", "path", opts.Source)

	out := r.Saver
	if opts.Dest == "" {
		dir, base := filepath.Split(opts.Source)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		opts.Dest = filepath.Join(dir, stem+".clean."+out.Extension())
	} else {
		out = saver.ForPath(opts.Dest, r.Saver)
		if !isDir(filepath.Dir(opts.Dest)) {
			return nil, fmt.Errorf("%w: %s", ErrDestinationDir, opts.Dest)
		}
	}
	if opts.CheckOnly {
		r.Log.Info("check only, cleaned data will not be saved")
	} else {
		r.Log.Info("destination file", "path", opts.Dest, "format", out.Extension())
	}
	return out, nil
}

// Merge reconciles two cleaned files day by day.
func (r *Runner) Merge(opts MergeOptions) error {
	out, err := r.checkMergeArgs(opts)
	if err != nil {
		return fmt.Errorf("check args: %w", err)
	}
	if err := r.proceed(opts.Interactive); err != nil {
		return err
	}

	var (
		inputs [2]*model.Series
		g      errgroup.Group
	)
	for i, path := range []string{opts.File1, opts.File2} {
		g.Go(func() error {
			tbl, err := r.Load(path).Load(path)
			if err != nil {
				return fmt.Errorf("load source: %s: %w", merge.Source(i), err)
			}
			if inputs[i], err = model.SeriesFromTable(tbl); err != nil {
				return fmt.Errorf("load source: %s: %w", merge.Source(i), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	a, b := inputs[0], inputs[1]

	if err := merge.CheckSchemas(a, b); err != nil {
		return fmt.Errorf("check schemas: %w", err)
	}
	for i, s := range inputs {
		r.logSummary(merge.Source(i).String(), merge.Summarize(s))
	}

	res, err := merge.Resolve(a, b, merge.Options{StartDate: opts.StartDate, EndDate: opts.EndDate})
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	r.logSummary("merged", merge.Summarize(res.Series))

	show, err := r.ask(opts.Interactive, "Print tickers per day", false)
	if err != nil {
		return err
	}
	if show {
		for _, d := range res.Days {
			r.Log.Info(fmt.Sprintf("%s : %s", d.Date.Format(time.DateOnly), d.Ticker),
				"source", d.Source, "vol_1", d.VolumeA, "vol_2", d.VolumeB)
		}
	}

	if opts.CheckOnly {
		return nil
	}
	return r.save(res.Series, out, opts.Dest)
}

func (r *Runner) checkMergeArgs(opts MergeOptions) (saver.SeriesSaver, error) {
	for i, p := range []string{opts.File1, opts.File2} {
		if !isFile(p) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, p)
		}
		r.Log.Info("source file", "input", merge.Source(i), "path", p)
	}
	switch {
	case opts.CheckOnly:
		r.Log.Info("check only, merged data will not be saved")
		return nil, nil
	case opts.Dest == "":
		return nil, ErrNoDestination
	case !isDir(filepath.Dir(opts.Dest)):
		return nil, fmt.Errorf("%w: %s", ErrDestinationDir, opts.Dest)
	}
	out := saver.ForPath(opts.Dest, r.Saver)
	r.Log.Info("destination file", "path", opts.Dest, "format", out.Extension())
	return out, nil
}

func (r *Runner) save(s *model.Series, out saver.SeriesSaver, path string) error {
	if err := out.Save(s, path); err != nil {
		return fmt.Errorf("save destination: %w", err)
	}
	r.Log.Info("exported destination file", "path", path, "bars", len(s.Bars))
	return nil
}

func (r *Runner) logSummary(name string, s merge.Summary) {
	if s.Days == 0 {
		r.Log.Info(name, "tickers", s.Tickers, "days", 0)
		return
	}
	r.Log.Info(name, "tickers", s.Tickers, "days", s.Days,
		"from", s.From.Format(time.DateOnly), "till", s.Till.Format(time.DateOnly))
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
