package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/japaniel/wordlookup/pkg/config"
	"github.com/japaniel/wordlookup/pkg/logging"
)

const usage = `usage: wordlookup [--config FILE] <command> [flags] [args]

commands:
  lookup WORD...      look up words with the configured providers
  freq WORD...        print frequency ranks from a local frequency list
  batch               look up words read from stdin, one per line
  sources             list or delete local store sources
  import FILE         import a dictionary or frequency list into the local store
  import-jmdict       download JMdict and import it as a Japanese dictionary
  import-lemma SOURCE install a lemma table or Russian profile from a file or URL
  languages           list supported languages
  stats               print how many lookups were made today
`

// errUsage reports bad command-line input; run exits with status 2 on it.
var errUsage = errors.New("usage error")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"lookup":        runLookup,
	"freq":          runFreq,
	"batch":         runBatch,
	"sources":       runSources,
	"import":        runImport,
	"import-jmdict": runImportJMdict,
	"import-lemma":  runImportLemma,
	"languages":     runLanguages,
	"stats":         runStats,
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("wordlookup", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "path to the YAML config file (default $"+config.PathEnv+" or ./config.yaml)")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	rest := global.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", rest[0], usage)
		return 2
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "wordlookup: %v\n", err)
		return 1
	}

	logger := logging.New(stderr, cfg.Log)
	a := newApp(cfg, logger, stdin, stdout, stderr)
	defer a.close()

	if err := cmd(ctx, a, rest[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "wordlookup %s: %v\n", rest[0], err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}
