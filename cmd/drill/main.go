// Command drill runs study sessions in the terminal over a JSON library file.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
	"github.com/aliskhannn/vocab-trainer-bot/internal/logger"
	"github.com/aliskhannn/vocab-trainer-bot/internal/repository"
	"github.com/aliskhannn/vocab-trainer-bot/internal/service"
	"github.com/aliskhannn/vocab-trainer-bot/internal/storage"
)

// drillUser is the user ID of the single terminal user.
const drillUser = 0

type options struct {
	library   string
	count     int
	modes     []string
	randomize bool
	seed      int64
	verbose   bool
}

func main() {
	var opts options

	flags := pflag.NewFlagSet("drill", pflag.ExitOnError)
	flags.StringVarP(&opts.library, "library", "l", "library.json", "path to the library file")
	flags.IntVarP(&opts.count, "count", "n", 10, "words per session, saved to the library when set")
	flags.StringSliceVarP(&opts.modes, "modes", "m", []string{"multiple_choice", "true_false", "typing"}, "study modes ("+modeNames()+"), saved to the library when set")
	flags.BoolVar(&opts.randomize, "randomize", false, "pick modes at random instead of in turn")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed, 0 for a time-based seed")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")
	_ = flags.Parse(os.Args[1:])

	if err := run(opts, flags, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "drill:", err)
		os.Exit(1)
	}
}

func run(opts options, flags *pflag.FlagSet, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lg := zap.NewNop()
	if opts.verbose {
		var err error
		if lg, err = logger.New("local"); err != nil {
			return err
		}
		defer func() { _ = lg.Sync() }()
	}

	modes, err := parseModeFlags(opts.modes)
	if err != nil {
		return err
	}

	lib, err := repository.OpenLibraryFile(opts.library)
	if err != nil {
		return fmt.Errorf("open library: %w", err)
	}

	rng := service.NewRandomSource()
	if opts.seed != 0 {
		rng = service.NewSeededRandomSource(opts.seed)
	}

	study := service.NewStudyService(
		lib,
		lib,
		lib,
		storage.NewSessionStorage(),
		service.NewSessionGenerator(service.NewPriorityScorer(nil), rng, lg.Named("generator")),
		service.StudyDefaults{WordCount: opts.count, Modes: modes, RandomRelation: true, RandomizeModes: opts.randomize},
		lg.Named("study"),
	)

	if flags.Changed("count") {
		if err := study.SetWordCount(ctx, drillUser, opts.count); err != nil {
			return err
		}
	}
	if flags.Changed("modes") || flags.Changed("randomize") {
		if err := study.SetModes(ctx, drillUser, modes, opts.randomize); err != nil {
			return err
		}
	}

	d := &drill{study: study, in: bufio.NewScanner(in), out: out}
	return d.session(ctx)
}

func parseModeFlags(names []string) ([]entities.Mode, error) {
	modes := make([]entities.Mode, 0, len(names))
	for _, name := range names {
		m, err := entities.ParseMode(name)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	if len(modes) == 0 {
		return nil, errors.New("no modes given")
	}
	return modes, nil
}

// modeNames lists every mode accepted by --modes.
func modeNames() string {
	names := make([]string, 0, len(entities.AllModes()))
	for _, m := range entities.AllModes() {
		names = append(names, m.String())
	}
	return strings.Join(names, ", ")
}
