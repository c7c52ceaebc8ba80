package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/scicalc"
	"github.com/zephyrtronium/scicalc/internal/config"
	"github.com/zephyrtronium/scicalc/session"
)

// evalRecord is one line of eval output.
type evalRecord struct {
	session.HistoryRecord `yaml:",inline"`
	Canonical             string `json:"canonical,omitempty" yaml:"canonical,omitempty"`
	Error                 string `json:"error,omitempty" yaml:"error,omitempty"`
	Kind                  string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

func newEvalCmd(opts *options) *cobra.Command {
	var (
		inname string
		output string
		echo   bool
	)
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions and print their results",
		Long: `Eval evaluates each argument as an expression. With no arguments, or with
--in, each non-empty input line is an expression. Failed calculations print
their error in place of a result, and eval exits with an error at the end.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			var exprs []string
			in, err := infile(cmd, inname, len(args) == 0)
			if err != nil {
				return err
			}
			if in != nil {
				defer in.Close()
				lines, err := readLines(in)
				if err != nil {
					return err
				}
				exprs = append(exprs, lines...)
			}
			exprs = append(exprs, args...)
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			recs := evaluate(exprs, cfg, log, time.Now)
			if err := writeRecords(cmd.OutOrStdout(), recs, output, echo); err != nil {
				return err
			}
			failed := 0
			for _, r := range recs {
				if r.Error != "" {
					failed++
				}
			}
			if failed != 0 {
				return fmt.Errorf("%d of %d calculations failed", failed, len(recs))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&inname, "in", "", `input file, one expression per line ("-" for stdin)`)
	f.StringVarP(&output, "output", "o", "text", "output format: text, json, or yaml")
	f.BoolVar(&echo, "echo", false, "print the canonical form of each expression")
	return cmd
}

// evaluate calculates each expression independently.
func evaluate(exprs []string, cfg config.Config, log *slog.Logger, now func() time.Time) []evalRecord {
	ctx := cfg.Context()
	display := cfg.Display()
	recs := make([]evalRecord, 0, len(exprs))
	for _, text := range exprs {
		rec := evalRecord{
			HistoryRecord: session.HistoryRecord{
				ID:          uuid.New(),
				Calculation: text,
				Timestamp:   now(),
			},
			Canonical: scicalc.Normalize(text, display.Separators, ctx),
		}
		r, err := scicalc.Calculate(text, display.Separators, ctx)
		if err != nil {
			var e *scicalc.Error
			if errors.As(err, &e) {
				rec.Error = e.Message()
				rec.Kind = e.Kind.String()
			} else {
				rec.Error = err.Error()
			}
			log.Info("calculation failed", slog.String("calculation", text), slog.Any("err", err))
		} else {
			rec.Result = scicalc.FormatResult(r, display)
			log.Debug("calculation committed", slog.String("calculation", text), slog.String("result", rec.Result))
		}
		recs = append(recs, rec)
	}
	return recs
}

func writeRecords(w io.Writer, recs []evalRecord, format string, echo bool) error {
	switch format {
	case "text":
		for _, r := range recs {
			if echo {
				fmt.Fprintf(w, "%s : ", r.Canonical)
			}
			if r.Error != "" {
				fmt.Fprintln(w, r.Error)
				continue
			}
			fmt.Fprintln(w, r.Result)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(recs); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// infile opens the expression input. Standard input is used when inname is
// "-", or when it is empty and std is set.
func infile(cmd *cobra.Command, inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		return f, nil
	case inname == "-", std:
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	return nil, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" {
			lines = append(lines, s)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading expressions: %w", err)
	}
	return lines, nil
}
