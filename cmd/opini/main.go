// Command opini scores school reviews from the command line.
//
// Usage:
//
//	opini score [text...]       Positivity and compound score per review
//	opini suggest [text...]     Softer rewrite of negative reviews
//	opini summary [text...]     Average score and band over all reviews
//	opini submit <school-id>    Score "submitter<TAB>opinion" lines as feedback
//
// Reviews come from the arguments or, when there are none, one per line on
// standard input. Results are printed as one JSON object per line.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/radarzonasi/opini"
	"github.com/radarzonasi/opini/internal/config"
)

const usage = `opini - sentiment scoring for school reviews

Usage:
  opini <command> [flags] [text...]

Commands:
  score       Positivity percentage and compound score per review
  suggest     Softer rewrite of negative reviews
  summary     Average scores and band over all reviews
  submit      Score "submitter<TAB>opinion" lines for a school id

Environment:
  OPINI_LEXICON_PATH       JSON lexicon merged over the built-in tables
  OPINI_POSITIVITY_POLICY  ratio (default) or snap
  OPINI_STOPWORD_LANG      Extra stopword list, e.g. id
  OPINI_COOLDOWN           Minimum time between submissions (default: 10s)
  LOG_LEVEL                debug, info, warn, error (default: info)
  LOG_FORMAT               text, json or logfmt (default: text)

Run 'opini <command> -h' for command-specific help.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(0)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		fmt.Print(usage)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "opini: %v\n", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger(os.Stderr)

	analyzer, err := newAnalyzer(cfg, logger)
	if err != nil {
		logger.Error("building analyzer", "err", err)
		os.Exit(1)
	}

	out := json.NewEncoder(os.Stdout)
	ctx := context.Background()

	switch cmd {
	case "score":
		err = runScore(ctx, analyzer, out, os.Stdin, args)
	case "suggest":
		err = runSuggest(ctx, analyzer, out, os.Stdin, args)
	case "summary":
		err = runSummary(ctx, analyzer, out, os.Stdin, args)
	case "submit":
		err = runSubmit(ctx, analyzer, cfg, logger, out, os.Stdin, args)
	default:
		fmt.Fprintf(os.Stderr, "opini: unknown command %q\n\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}

	if err != nil {
		logger.Error(cmd+" failed", "err", err)
		os.Exit(1)
	}
}

func newAnalyzer(cfg *config.Config, logger *log.Logger) (*opini.Analyzer, error) {
	tables, err := cfg.Tables()
	if err != nil {
		return nil, err
	}
	reg, err := opini.NewRegistry(tables)
	if err != nil {
		return nil, err
	}
	logger.Debug("lexicon loaded",
		"extended", reg.Extended().Len(), "local", reg.Local().Len(), "path", cfg.LexiconPath)

	return opini.NewAnalyzer(reg, opini.NewValenceBackend(reg),
		opini.WithPolicy(cfg.Policy()),
		opini.WithStopwordLanguage(cfg.StopwordLanguage),
		opini.WithLogger(logger),
	)
}

func runScore(ctx context.Context, a *opini.Analyzer, out *json.Encoder, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	detail := fs.Bool("detail", false, "Print matches, residual tokens and counts")
	_ = fs.Parse(args)

	return eachInput(fs.Args(), in, func(text string) error {
		analysis := a.AnalyzeContext(ctx, text)
		if *detail {
			return out.Encode(analysis)
		}
		return out.Encode(struct {
			Text string `json:"text"`
			opini.Result
		}{text, analysis.Result()})
	})
}

func runSuggest(ctx context.Context, a *opini.Analyzer, out *json.Encoder, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("suggest", flag.ExitOnError)
	_ = fs.Parse(args)

	return eachInput(fs.Args(), in, func(text string) error {
		found, suggestion := a.SuggestTextContext(ctx, text)
		return out.Encode(struct {
			Text       string `json:"text"`
			Found      bool   `json:"found"`
			Suggestion string `json:"suggestion"`
		}{text, found, suggestion})
	})
}

func runSummary(ctx context.Context, a *opini.Analyzer, out *json.Encoder, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	_ = fs.Parse(args)

	var results []opini.Result
	err := eachInput(fs.Args(), in, func(text string) error {
		results = append(results, a.AnalyzeContext(ctx, text).Result())
		return nil
	})
	if err != nil {
		return err
	}
	return out.Encode(opini.Summarize(results))
}

func runSubmit(ctx context.Context, a *opini.Analyzer, cfg *config.Config, logger *log.Logger, out *json.Encoder, in io.Reader, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: opini submit <school-id> < reviews.tsv")
	}
	schoolID, err := strconv.ParseInt(fs.Arg(0), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid school id %q: %w", fs.Arg(0), err)
	}

	sink := opini.FeedbackSinkFunc(func(_ context.Context, fb opini.Feedback) error {
		return out.Encode(fb)
	})
	intake := opini.NewIntake(a, sink, opini.UsingCooldown(cfg.Cooldown))

	return eachLine(in, func(line string) error {
		submitter, opinion, ok := strings.Cut(line, "\t")
		if !ok {
			submitter, opinion = "", line
		}

		_, err := intake.Submit(ctx, opini.Submission{
			SchoolID:  schoolID,
			Submitter: submitter,
			Opinion:   opinion,
		})
		switch {
		case errors.Is(err, opini.ErrCooldown), errors.Is(err, opini.ErrEmptyOpinion):
			logger.Warn("submission rejected", "submitter", submitter, "err", err)
			return nil
		default:
			return err
		}
	})
}

// eachInput calls fn for every argument, or for every non-blank line of in
// when there are no arguments.
func eachInput(args []string, in io.Reader, fn func(string) error) error {
	if len(args) > 0 {
		for _, text := range args {
			if err := fn(text); err != nil {
				return err
			}
		}
		return nil
	}
	return eachLine(in, fn)
}

func eachLine(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
