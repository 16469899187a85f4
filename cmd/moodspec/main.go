package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"moodspec/internal/app"
	"moodspec/internal/domain"
	"moodspec/internal/infra"
	"moodspec/internal/infra/credentials"
)

const usage = `usage: moodspec <command> [flags]

commands:
  analyze   analyze moodboard images (files or URLs) into a style spec
  preview   render a preview image from an image-generation prompt
  handoff   print the downstream prompt for an analysis
  bundle    pack an analysis and its preview into a zip

run "moodspec <command> -h" for the flags of a command.
`

const (
	exitOK         = 0
	exitFailure    = 1
	exitUsage      = 2
	exitCredential = 3
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(exitFailure)
	}
	logger := infra.NewCLILogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := credentials.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("credential store unavailable; only -key and the environment are used")
	}
	defer closeStore()

	svc, err := app.New(cfg, &logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(exitFailure)
	}

	c := &cli{
		analyzer:  svc.Analyzer,
		previewer: svc.Previewer,
		builder:   svc.Handoff,
		keys:      credentials.NewResolver(store),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
	code := c.run(ctx, os.Args[1:])
	stop()
	closeStore()
	os.Exit(code)
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(c.stderr, usage)
		return exitUsage
	}
	var err error
	switch args[0] {
	case "analyze":
		err = c.analyze(ctx, args[1:])
	case "preview":
		err = c.preview(ctx, args[1:])
	case "handoff":
		err = c.handoff(args[1:])
	case "bundle":
		err = c.bundle(args[1:])
	case "-h", "--help", "help":
		fmt.Fprint(c.stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}
	return c.exitCode(err)
}

func (c *cli) exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ue usageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(c.stderr, err)
		return exitUsage
	case errors.Is(err, domain.ErrMissingCredential):
		fmt.Fprintln(c.stderr, "API key is missing. Pass -key, set GEMINI_API_KEY or store one with geminikey.")
		return exitCredential
	default:
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		var malformed *domain.MalformedResponseError
		if errors.As(err, &malformed) {
			fmt.Fprintf(c.stderr, "raw model output:\n%s\n", malformed.Raw)
		}
		return exitFailure
	}
}

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}
