// Package shell runs an interactive dockershit session: it reads commands
// from the keyboard and hands them to the docker session one at a time.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/jaspreet-dot-casa/dockershit/pkg/config"
	"github.com/jaspreet-dot-casa/dockershit/pkg/docker"
	"github.com/jaspreet-dot-casa/dockershit/pkg/dockerfile"
	"github.com/jaspreet-dot-casa/dockershit/pkg/keyboard"
	"github.com/jaspreet-dot-casa/dockershit/pkg/logging"
	"github.com/jaspreet-dot-casa/dockershit/pkg/ui"
)

// Options configures a session. Only Config is required.
type Options struct {
	Config *config.Config

	Stdout io.Writer
	Stderr io.Writer

	// NewReader builds the line reader once history is loaded. Defaults to
	// keyboard.NewReader on the process stdin/stdout.
	NewReader func(history *keyboard.History) keyboard.LineReader

	Executor docker.Executor
	Logger   *slog.Logger // defaults to the logger carried by ctx
	Progress docker.ProgressFunc

	// CommandContext derives the context of a single command. The default
	// cancels it on SIGINT so that Ctrl-C stops the command, not the session.
	CommandContext func(ctx context.Context) (context.Context, context.CancelFunc)
}

func (o *Options) setDefaults() {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.NewReader == nil {
		o.NewReader = func(history *keyboard.History) keyboard.LineReader {
			return keyboard.NewReader(os.Stdin, os.Stdout, history)
		}
	}
	if o.CommandContext == nil {
		o.CommandContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(ctx, os.Interrupt)
		}
	}
}

// Run starts a session and blocks until the user leaves it, input ends or ctx
// is cancelled. Leaving the session is not an error.
func Run(ctx context.Context, opts Options) error {
	if opts.Config == nil {
		return fmt.Errorf("shell: config is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.FromContext(ctx)
	}
	opts.setDefaults()
	cfg := opts.Config
	logger := opts.Logger

	df, err := dockerfile.New(cfg.File, cfg.Image)
	if err != nil {
		return err
	}

	d := docker.New(df, cfg.Shell, cfg.Tag, docker.Options{
		Debug:           cfg.Debug,
		ContextDir:      cfg.ContextOrDefault(),
		KeepEmptyLayers: cfg.KeepEmptyLayers,
		Executor:        opts.Executor,
		Stdout:          opts.Stdout,
		Stderr:          opts.Stderr,
		Logger:          logger,
		Progress:        opts.Progress,
	})

	history, err := keyboard.LoadHistory(cfg.HistoryPath(), cfg.HistorySize)
	if err != nil {
		return err
	}
	kb := keyboard.New(opts.NewReader(history), history)
	defer func() {
		if err := kb.Close(); err != nil {
			logger.Warn("failed to save history", "path", history.Path(), "error", err)
		}
	}()

	verb := "from"
	if !df.Existed() {
		verb = "created from"
	}
	fmt.Fprintf(opts.Stdout, "%s %s %s\n",
		ui.BoldStyle.Render(df.Path()),
		ui.DimStyle.Render(verb),
		ui.AccentStyle.Render(df.Image()))

	logger.Debug("session started",
		"file", df.Path(), "image", df.Image(), "tag", cfg.Tag, "history_entries", history.Len())

	if err := step(ctx, opts, func(cmdCtx context.Context) error {
		built, err := d.Build(cmdCtx)
		if err == nil && !built {
			fmt.Fprintln(opts.Stderr, ui.WarningStyle.Render("initial build failed"))
		}
		return err
	}); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := kb.Input(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Debug("session cancelled at the prompt")
				return nil
			}
			if errors.Is(err, keyboard.ErrInterrupt) || errors.Is(err, io.EOF) {
				logger.Debug("session ended", "reason", err)
				return nil
			}
			return err
		}

		if err := step(ctx, opts, func(cmdCtx context.Context) error {
			return d.Input(cmdCtx, line)
		}); err != nil {
			return err
		}
	}
}

// step runs fn under a per-command context. An error caused by interrupting
// the command is reported and swallowed; cancelling ctx itself is not.
func step(ctx context.Context, opts Options, fn func(context.Context) error) error {
	cmdCtx, cancel := opts.CommandContext(ctx)
	defer cancel()

	err := fn(cmdCtx)
	if err == nil {
		return nil
	}

	if ctx.Err() != nil {
		return nil
	}
	if cmdCtx.Err() != nil {
		opts.Logger.Debug("command interrupted", "error", err)
		fmt.Fprintln(opts.Stderr, ui.WarningStyle.Render("interrupted"))
		return nil
	}

	return err
}
