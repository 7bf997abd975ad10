// Package main provides the dockershit CLI: a shell whose commands run in a
// throw-away container and are recorded into a Dockerfile as you go.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/dockershit/pkg/config"
	"github.com/jaspreet-dot-casa/dockershit/pkg/docker"
	"github.com/jaspreet-dot-casa/dockershit/pkg/keyboard"
	"github.com/jaspreet-dot-casa/dockershit/pkg/logging"
	"github.com/jaspreet-dot-casa/dockershit/pkg/shell"
	"github.com/jaspreet-dot-casa/dockershit/pkg/ui"
)

// version is set via -ldflags during build
var version = "dev"

// startShell is overridable in tests.
var startShell = runShell

func main() {
	rootCmd := newRootCmd()

	// Cobra handles error printing
	rootCmd.SilenceUsage = true

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// rootFlags holds the command-line overrides of the session config.
type rootFlags struct {
	configPath      string
	shell           string
	file            string
	tag             string
	contextDir      string
	debug           bool
	keepEmptyLayers bool
}

// newRootCmd creates the root command for dockershit
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "dockershit [IMAGE]",
		Short: "Interactive shell that writes your Dockerfile",
		Long: `dockershit runs every command you type in a fresh container built from
the current Dockerfile. Commands that succeed are appended as RUN
instructions and the image is rebuilt, so the Dockerfile grows as you work.

Input handling:
  - Dockerfile instructions (ENV, COPY, WORKDIR, ...) are recorded verbatim
  - cd DIR changes the working directory and records a WORKDIR
  - # comments are copied into the Dockerfile
  - a command starting with a space runs without being recorded
  - exit, quit or Ctrl-D ends the session`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, flags)
			if err != nil {
				return err
			}
			return startShell(cmd.Context(), cfg)
		},
	}

	f := rootCmd.Flags()
	f.StringVar(&flags.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/dockershit/config.yaml)")
	f.StringVar(&flags.shell, "shell", config.DefaultShell, "Shell used to run commands inside the container")
	f.StringVarP(&flags.file, "file", "f", config.DefaultFile, "Dockerfile to write")
	f.StringVarP(&flags.tag, "tag", "t", config.DefaultTag, "Tag of the image being built")
	f.StringVar(&flags.contextDir, "context", config.DefaultContextDir, "Build context directory")
	f.BoolVarP(&flags.debug, "debug", "d", false, "Show docker build output and debug logs")
	f.BoolVar(&flags.keepEmptyLayers, "keep-empty-layers", false, "Record commands that leave the filesystem unchanged")

	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}

// resolveConfig layers the config file, DOCKERSHIT_* variables, explicitly
// set flags and the IMAGE argument, in that order.
func resolveConfig(cmd *cobra.Command, args []string, flags *rootFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, fmt.Errorf("failed to locate config file: %w", err)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("shell") {
		cfg.Shell = flags.shell
	}
	if changed("file") {
		cfg.File = flags.file
	}
	if changed("tag") {
		cfg.Tag = flags.tag
	}
	if changed("context") {
		cfg.ContextDir = flags.contextDir
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}
	if changed("keep-empty-layers") {
		cfg.KeepEmptyLayers = flags.keepEmptyLayers
	}
	if len(args) > 0 {
		cfg.Image = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runShell starts an interactive session. SIGTERM ends it; SIGINT is left to
// the session, where it interrupts the running command.
func runShell(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	logger := logging.WithSession(logging.Setup(os.Stderr, cfg.Debug), uuid.NewString())
	ctx = logging.WithLogger(ctx, logger)

	var progress docker.ProgressFunc
	if !cfg.Debug && keyboard.IsTerminal(os.Stdout) {
		progress = func(title string, fn func() error) error {
			return ui.RunWithSpinner(os.Stdout, title, fn)
		}
	}

	return shell.Run(ctx, shell.Options{
		Config:   cfg,
		Progress: progress,
	})
}
