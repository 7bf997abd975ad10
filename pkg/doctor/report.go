package doctor

import (
	"fmt"
	"io"
	"strings"

	"github.com/jaspreet-dot-casa/dockershit/pkg/ui"
)

// statusIcon renders the icon for a status.
func statusIcon(s CheckStatus) string {
	switch s {
	case StatusOK:
		return ui.SuccessStyle.Render(ui.IconOK)
	case StatusWarning:
		return ui.WarningStyle.Render(ui.IconWarning)
	default:
		return ui.ErrorStyle.Render(ui.IconMissing)
	}
}

// Render writes a human-readable report of checks to w.
func Render(w io.Writer, checks []Check) {
	var b strings.Builder

	for _, check := range checks {
		fmt.Fprintf(&b, "%s %-14s %s\n",
			statusIcon(check.Status),
			ui.BoldStyle.Render(check.Name),
			ui.DimStyle.Render(check.Message))

		if check.Status != StatusOK && check.FixCommand != nil {
			fmt.Fprintf(&b, "    %s: %s\n",
				check.FixCommand.Description,
				ui.AccentStyle.Render(check.FixCommand.Command))
		}
	}

	summary := GetSummary(checks)
	line := fmt.Sprintf("%d/%d checks passed", summary.OK, summary.Total)
	switch {
	case summary.Missing > 0 || summary.Errors > 0:
		line = ui.ErrorStyle.Render(line)
	case summary.Warnings > 0:
		line = ui.WarningStyle.Render(line + fmt.Sprintf(", %d warning(s)", summary.Warnings))
	default:
		line = ui.SuccessStyle.Render(line)
	}
	fmt.Fprintf(&b, "\n%s\n", line)

	fmt.Fprint(w, ui.BoxStyle.Render(strings.TrimRight(b.String(), "\n"))+"\n")
}
