package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"quik-bars/internal/app"
	"quik-bars/internal/model"
)

var errHelp = errors.New("help requested")

// command is one parsed subcommand.
type command interface {
	name() string
	interactive() bool
	run(r *app.Runner) error
}

type cleanCommand struct{ opts app.CleanOptions }

func (c cleanCommand) name() string { return "clean" }
func (c cleanCommand) interactive() bool { return c.opts.Interactive }
func (c cleanCommand) run(r *app.Runner) error { return r.Clean(c.opts) }

type mergeCommand struct{ opts app.MergeOptions }

func (c mergeCommand) name() string { return "merge" }
func (c mergeCommand) interactive() bool { return c.opts.Interactive }
func (c mergeCommand) run(r *app.Runner) error { return r.Merge(c.opts) }

func usage(w io.Writer) {
	fmt.Fprint(w, `quik-bars <command> [flags] FILE...

Commands:
  clean SOURCE        normalize a QUIK bar export and check it for gaps
  merge FILE1 FILE2   merge two cleaned files, one source per day

Run 'quik-bars <command> -h' for command flags.

Environment:
  QUIK_LOG_LEVEL      debug|info|warn|error (default info)
  QUIK_LOG_FORMAT     text|json (default text)
  QUIK_SAVE_FORMAT    csv|parquet|json (default csv)
  QUIK_GAP_REPORT     write <dest>.gaps.json next to the cleaned file
  QUIK_SESSION_OPEN   session open, HH:MM (default 10:00)
  QUIK_SESSION_CLOSE  session close, HH:MM (default 18:40)
`)
}

func parseArgs(args []string) (command, error) {
	if len(args) == 0 {
		usage(os.Stderr)
		return nil, errors.New("missing command")
	}
	switch args[0] {
	case "clean":
		return parseClean(args[1:])
	case "merge":
		return parseMerge(args[1:])
	case "help", "-h", "--help":
		usage(os.Stdout)
		return nil, errHelp
	default:
		usage(os.Stderr)
		return nil, fmt.Errorf("unknown command: %s", args[0])
	}
}

// dateFlag holds an optional ISO date.
type dateFlag struct{ t *time.Time }

func (d dateFlag) String() string {
	if d.t == nil || d.t.IsZero() {
		return ""
	}
	return d.t.Format(time.DateOnly)
}

func (d dateFlag) Set(s string) error {
	t, err := model.ParseDate(s)
	if err != nil {
		return err
	}
	*d.t = t
	return nil
}

// boolVar registers a flag under its short and long names.
func boolVar(fs *flag.FlagSet, p *bool, short, long, help string) {
	fs.BoolVar(p, short, false, help)
	fs.BoolVar(p, long, false, help)
}

func stringVar(fs *flag.FlagSet, p *string, short, long, help string) {
	fs.StringVar(p, short, "", help)
	fs.StringVar(p, long, "", help)
}

func dateVars(fs *flag.FlagSet, start, end *time.Time) {
	fs.Var(dateFlag{start}, "start-date", "first date to keep, YYYY-MM-DD")
	fs.Var(dateFlag{end}, "end-date", "last date to keep, YYYY-MM-DD")
}

// parseInterspersed parses fs allowing flags after positional arguments.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil, errHelp
			}
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}

func parseClean(args []string) (command, error) {
	var o app.CleanOptions
	fs := flag.NewFlagSet("clean", flag.ContinueOnError)
	stringVar(fs, &o.Dest, "d", "dest", "destination file (default <source>.clean.<format>)")
	boolVar(fs, &o.CheckOnly, "c", "check-only", "check the source without saving")
	boolVar(fs, &o.Stock, "s", "stock", "stock session grid, no clearing break")
	boolVar(fs, &o.ExtendedHours, "e", "extended-hours", "keep bars outside the session window")
	boolVar(fs, &o.KeepDateTime, "k", "keep-date-time", "keep the date and time columns")
	boolVar(fs, &o.Interactive, "i", "interactive", "ask before proceeding")
	dateVars(fs, &o.StartDate, &o.EndDate)

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, err
	}
	if len(pos) != 1 {
		return nil, fmt.Errorf("clean: expected one source file, got %d", len(pos))
	}
	o.Source = pos[0]
	return cleanCommand{o}, nil
}

func parseMerge(args []string) (command, error) {
	var o app.MergeOptions
	fs := flag.NewFlagSet("merge", flag.ContinueOnError)
	stringVar(fs, &o.Dest, "d", "dest", "destination file")
	boolVar(fs, &o.CheckOnly, "c", "check-only", "check the sources without saving")
	boolVar(fs, &o.Interactive, "i", "interactive", "ask before proceeding")
	dateVars(fs, &o.StartDate, &o.EndDate)

	pos, err := parseInterspersed(fs, args)
	if err != nil {
		return nil, err
	}
	if len(pos) != 2 {
		return nil, fmt.Errorf("merge: expected two files, got %d", len(pos))
	}
	switch {
	case o.Dest == "" && !o.CheckOnly:
		return nil, errors.New("merge: one of --dest or --check-only is required")
	case o.Dest != "" && o.CheckOnly:
		return nil, errors.New("merge: --dest and --check-only are mutually exclusive")
	}
	o.File1, o.File2 = pos[0], pos[1]
	return mergeCommand{o}, nil
}
