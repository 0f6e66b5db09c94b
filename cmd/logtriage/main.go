// Command logtriage classifies the events of logcat files and prints a summary per category.
//
// Usage:
//
//	logtriage [flags] [file ...]
//
// With no file, logcat output is read from stdin. The exit status is 2 if an event of one of the
// -fail-on categories is found.
package main

import (
	"cmp"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/tigerwill90/retrie/internal/config"
	"github.com/tigerwill90/retrie/internal/iterutil"
	"github.com/tigerwill90/retrie/internal/slogpretty"
	"github.com/tigerwill90/retrie/logcat"
)

const (
	exitOK = iota
	exitError
	exitFailOn
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	year       int
	failOn     string
	stack      int
	dump       bool
	verbose    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logtriage", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file")
	fs.IntVar(&opts.year, "year", 0, "Year of the logcat lines, overrides the configuration")
	fs.StringVar(&opts.failOn, "fail-on", "", "Comma separated categories making the command fail when found")
	fs.IntVar(&opts.stack, "stack", 0, "Number of stack lines printed for each event")
	fs.BoolVar(&opts.dump, "dump", false, "Print the pattern tree and exit")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "logtriage: %s\n", err)
		return exitError
	}
	if opts.year != 0 {
		cfg.Logcat.Year = opts.year
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "logtriage: invalid configuration: %s\n", err)
		return exitError
	}

	logger := newLogger(cfg.Log, stderr)

	parser, err := newParser(cfg.Logcat, logger)
	if err != nil {
		logger.Error("failed to create parser", slog.Any("error", err))
		return exitError
	}

	if opts.dump {
		fmt.Fprint(stdout, parser.String())
		for patterns := range iterutil.Left(parser.Patterns()) {
			fmt.Fprintf(stdout, "  %s\n", strings.Join(patterns, " | "))
		}
		fmt.Fprintf(stdout, "%d patterns\n", iterutil.Len2(parser.Patterns()))
		return exitOK
	}

	failOn := make(map[logcat.Category]struct{})
	if opts.failOn != "" {
		categories := iterutil.Map(iterutil.SplitStringSeq(opts.failOn, ","), func(s string) logcat.Category {
			return logcat.Category(strings.TrimSpace(s))
		})
		for c := range categories {
			if c != "" {
				failOn[c] = struct{}{}
			}
		}
	}

	inputs := fs.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	status := exitOK
	for _, name := range inputs {
		item, err := parseInput(parser, name, stdin)
		if err != nil {
			logger.Error("failed to parse logcat", slog.String("file", name), slog.Any("error", err))
			status = exitError
			continue
		}
		if item == nil {
			logger.Warn("no logcat line found", slog.String("file", name))
			continue
		}

		printSummary(stdout, name, item, opts.stack)
		for _, c := range item.Categories() {
			n := len(item.EventsOf(c))
			logger.Info("events found", slog.String("file", name), slog.String("category", string(c)), slog.Int("count", n))
		}

		failing := iterutil.Filter(iterutil.SeqOf(item.Categories()...), func(c logcat.Category) bool {
			_, ok := failOn[c]
			return ok
		})
		for c := range failing {
			logger.Warn("failing category found", slog.String("file", name), slog.String("category", string(c)))
			if status == exitOK {
				status = exitFailOn
			}
		}
	}

	return status
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	if cfg.Pretty {
		return slog.New(slogpretty.NewWithWriters(w, w, cfg.SlogLevel()))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

func newParser(cfg config.LogcatConfig, logger *slog.Logger) (*logcat.Parser, error) {
	opts := []logcat.ParserOption{
		logcat.WithLogger(logger),
		logcat.WithPreambleSize(cfg.PreambleSize),
	}
	if cfg.Year != 0 {
		opts = append(opts, logcat.WithYear(cfg.Year))
	}
	if cfg.DisableDefaults {
		opts = append(opts, logcat.WithoutDefaultPatterns())
	}

	parser, err := logcat.NewParser(opts...)
	if err != nil {
		return nil, err
	}

	for _, p := range cfg.Patterns {
		if err := parser.AddPattern(p.Message, p.Level, p.Tag, logcat.Category(p.Category)); err != nil {
			return nil, fmt.Errorf("pattern for tag %s: %w", p.Tag, err)
		}
	}
	for _, jc := range cfg.JavaCrashTags {
		category := logcat.Category(cmp.Or(jc.Category, string(logcat.JavaCrash)))
		if err := parser.AddJavaCrashTag(jc.Level, jc.Tag, category); err != nil {
			return nil, fmt.Errorf("java crash tag %s: %w", jc.Tag, err)
		}
	}

	return parser, nil
}

func parseInput(parser *logcat.Parser, name string, stdin io.Reader) (*logcat.Item, error) {
	parser.Clear()
	if name == "-" {
		return parser.Parse(stdin)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.Parse(f)
}

func printSummary(w io.Writer, name string, item *logcat.Item, stack int) {
	fmt.Fprintf(w, "%s: %s - %s, %d events\n", name, item.Start.Format("01-02 15:04:05.000"), item.Stop.Format("01-02 15:04:05.000"), len(item.Events))

	categories := item.Categories()
	slices.SortStableFunc(categories, func(a, b logcat.Category) int {
		return len(item.EventsOf(b)) - len(item.EventsOf(a))
	})

	for _, c := range categories {
		events := item.EventsOf(c)
		fmt.Fprintf(w, "  %-20s %d\n", c, len(events))
		for _, e := range events {
			fmt.Fprintf(w, "    %s pid=%d tid=%d", e.Time.Format("01-02 15:04:05.000"), e.PID, e.TID)
			if e.App != "" {
				fmt.Fprintf(w, " app=%s", e.App)
			}
			fmt.Fprintf(w, " %s\n", cmp.Or(e.Exception, e.Message()))
			for line := range iterutil.Take(iterutil.SeqOf(e.Stack...), stack) {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
}
