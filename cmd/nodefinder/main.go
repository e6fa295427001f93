// nodefinder runs the report parser over a log file and prints the
// devices that remain after removing the two root nodes.
//
//	nodefinder --mode snapshot --root1 aa:bb:cc:dd:ee:ff report.log
//	nodefinder --mode aggregate --sort signal --format json report.log.gz
//
// Gzip and zstd input is decompressed transparently. Use "-" to read
// from stdin.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/parent-node-finder/backend/internal/config"
	"github.com/parent-node-finder/backend/internal/logger"
	"github.com/parent-node-finder/backend/internal/models"
	"github.com/parent-node-finder/backend/internal/parser"
	"github.com/parent-node-finder/backend/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	mode     string
	root1    string
	root2    string
	sortKey  string
	format   string
	profiles string
	profile  string
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options

	flagSet := pflag.NewFlagSet("nodefinder", pflag.ContinueOnError)
	flagSet.StringVar(&opts.mode, "mode", "snapshot", "report mode: snapshot (latest table report) or aggregate (loose lines, averaged)")
	flagSet.StringVar(&opts.root1, "root1", "", "first root MAC to exclude")
	flagSet.StringVar(&opts.root2, "root2", "", "second root MAC to exclude")
	flagSet.StringVar(&opts.sortKey, "sort", "identifier", "sort key: identifier or signal")
	flagSet.StringVar(&opts.format, "format", "table", "output format: table or json")
	flagSet.StringVar(&opts.profiles, "profiles", "", "YAML root profiles file")
	flagSet.StringVar(&opts.profile, "profile", "", "root profile name (fills empty --root1/--root2)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log parse details to stderr")
	flagSet.SetOutput(io.Discard)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stdout, "Usage: nodefinder [flags] FILE\n\n%s", flagSet.FlagUsages())
			return nil
		}
		return err
	}
	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level}); err != nil {
		return err
	}
	logger.SetOutput(zerolog.ConsoleWriter{Out: stderr, NoColor: true, TimeFormat: time.Kitchen})

	if flagSet.NArg() != 1 {
		return fmt.Errorf("expected exactly one FILE argument, got %d", flagSet.NArg())
	}

	mode, err := parser.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	key, err := parser.ParseSortKey(opts.sortKey)
	if err != nil {
		return err
	}
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format: %s", opts.format)
	}

	if opts.profile != "" {
		profiles, err := config.LoadRootProfiles(opts.profiles)
		if err != nil {
			return err
		}
		prof, ok := profiles.Find(opts.profile)
		if !ok {
			return fmt.Errorf("root profile not found: %s", opts.profile)
		}
		if opts.root1 == "" {
			opts.root1 = prof.Root1
		}
		if opts.root2 == "" {
			opts.root2 = prof.Root2
		}
	}
	for _, root := range []string{opts.root1, opts.root2} {
		if root != "" && !parser.IsMAC(root) {
			return fmt.Errorf("invalid root MAC: %q", root)
		}
	}

	text, err := readInput(flagSet.Arg(0), stdin)
	if err != nil {
		return err
	}

	result, err := parser.Parse(text, opts.root1, opts.root2, mode)
	if err != nil {
		return err
	}

	logger.Debug().
		Str("file", flagSet.Arg(0)).
		Str("mode", string(mode)).
		Int("bytes", len(text)).
		Int("reports", result.Reports).
		Int("records", result.Count).
		Msg("parsed")
	if result.Note != "" {
		logger.Warn().Str("file", flagSet.Arg(0)).Msg(result.Note)
	}
	result.Records = parser.Resort(result.Records, key)

	if opts.format == "json" {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return writeTable(stdout, result)
}

func readInput(path string, stdin io.Reader) (string, error) {
	var src io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		src = f
	}

	content, _, closeFn, err := storage.Decompress(src)
	if err != nil {
		return "", err
	}
	defer closeFn()

	data, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func writeTable(w io.Writer, result models.Result) error {
	if result.Note == models.NoteNoReports {
		_, err := fmt.Fprintln(w, "No valid reports found in file.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if result.Mode == models.ModeAggregate {
		fmt.Fprintln(tw, "MAC\tRate\tRSSI (Avg)\tParent\tSamples")
		for _, r := range result.Records {
			fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\t%d\n", r.Identifier, r.Rate, r.Signal, r.Parent, r.Samples)
		}
	} else {
		fmt.Fprintln(tw, "MAC\tRate\tIP\tLayer\tParent\tFW\tRSSI\tHeap")
		for _, r := range result.Records {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				r.Identifier, strconv.FormatFloat(r.Rate, 'f', -1, 64), extra(r, 0), extra(r, 1), r.Parent, extra(r, 2),
				strconv.FormatFloat(r.Signal, 'f', -1, 64), extra(r, 3))
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nTotal MAC IDs: %d\n", result.Count)
	return err
}

func extra(r models.Record, i int) string {
	if i < len(r.Extras) {
		return r.Extras[i]
	}
	return ""
}
