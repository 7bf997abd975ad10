package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jaspreet-dot-casa/dockershit/pkg/doctor"
	"github.com/jaspreet-dot-casa/dockershit/pkg/keyboard"
	"github.com/jaspreet-dot-casa/dockershit/pkg/ui"
)

// errChecksFailed makes doctor exit non-zero.
var errChecksFailed = errors.New("some dependency checks failed")

// Overridable in tests.
var (
	newChecker      = doctor.NewChecker
	newFixer        = doctor.NewFixer
	stdinIsTerminal = func() bool { return keyboard.IsTerminal(os.Stdin) }
)

// newDoctorCmd creates the doctor subcommand
func newDoctorCmd() *cobra.Command {
	var fix, copyFix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that docker is installed and running",
		Long: `Check the tools dockershit needs: the docker CLI, a reachable daemon
and optionally the buildx plugin. Exits non-zero when a required check fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			checks := newChecker().CheckAll()

			if fix || copyFix {
				fixer := newFixer()
				for _, check := range checks {
					if check.Status == doctor.StatusOK || check.FixCommand == nil {
						continue
					}

					if copyFix {
						if err := fixer.CopyToClipboard(check.FixCommand); err != nil {
							return err
						}
						fmt.Fprintf(out, "%s copied fix for %s: %s\n",
							ui.SuccessStyle.Render(ui.IconOK), check.Name, check.FixCommand.Command)
						break
					}

					if check.FixCommand.Sudo && !stdinIsTerminal() {
						fmt.Fprintf(out, "%s %s needs sudo and no terminal is attached; run it yourself: %s\n",
							ui.WarningStyle.Render(ui.IconWarning), check.Name, check.FixCommand.Command)
						continue
					}

					fmt.Fprintf(out, "%s %s\n", ui.BoldStyle.Render("Running:"), check.FixCommand.Command)
					if err := fixer.RunFix(check.FixCommand); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), ui.ErrorStyle.Render(err.Error()))
					}
				}

				if fix {
					checks = newChecker().CheckAll()
				}
			}

			doctor.Render(out, checks)

			if doctor.HasIssues(checks) {
				return errChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Run the suggested fix for each failing check")
	cmd.Flags().BoolVar(&copyFix, "copy", false, "Copy the first suggested fix to the clipboard")
	cmd.MarkFlagsMutuallyExclusive("fix", "copy")

	return cmd
}
