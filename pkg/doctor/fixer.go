package doctor

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Platform constants.
const (
	PlatformDarwin = "darwin"
	PlatformLinux  = "linux"
)

// fixCommands defines platform-specific fix commands for each check.
var fixCommands = map[string]map[string]*FixCommand{
	IDDocker: {
		PlatformDarwin: {
			Description: "Install Docker Desktop via Homebrew",
			Command:     "brew install --cask docker",
		},
		PlatformLinux: {
			Description: "Install Docker Engine via the convenience script",
			Command:     "curl -fsSL https://get.docker.com | sudo sh",
			Sudo:        true,
		},
	},
	IDDaemon: {
		PlatformDarwin: {
			Description: "Start Docker Desktop",
			Command:     "open -a Docker",
		},
		PlatformLinux: {
			Description: "Start the docker service and allow your user to use it",
			Command:     "sudo systemctl enable --now docker && sudo usermod -aG docker $USER",
			Sudo:        true,
		},
	},
	IDBuildx: {
		PlatformDarwin: {
			Description: "Install the buildx plugin via Homebrew",
			Command:     "brew install docker-buildx",
		},
		PlatformLinux: {
			Description: "Install the buildx plugin via apt",
			Command:     "sudo apt install -y docker-buildx-plugin",
			Sudo:        true,
		},
	},
}

// GetFixCommand returns the fix command for a check on the given platform.
func GetFixCommand(checkID, platform string) *FixCommand {
	fixes, ok := fixCommands[checkID]
	if !ok {
		return nil
	}

	fix, ok := fixes[platform]
	if !ok {
		return nil
	}

	return fix
}

// Fixer runs or copies fix commands.
type Fixer struct {
	executor  CommandExecutor
	clipboard func(string) error
}

// NewFixer creates a new Fixer.
func NewFixer() *Fixer {
	return &Fixer{
		executor:  &RealExecutor{},
		clipboard: clipboard.WriteAll,
	}
}

// NewFixerWithExecutor creates a new Fixer with a custom executor.
func NewFixerWithExecutor(exec CommandExecutor) *Fixer {
	f := NewFixer()
	f.executor = exec
	return f
}

// RunFix executes a fix command through the shell.
func (f *Fixer) RunFix(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	output, err := f.executor.CombinedOutput("sh", "-c", fix.Command)
	if err != nil {
		return fmt.Errorf("fix failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// CopyToClipboard copies the fix command to the system clipboard.
func (f *Fixer) CopyToClipboard(fix *FixCommand) error {
	if fix == nil {
		return fmt.Errorf("no fix command available")
	}

	if err := f.clipboard(fix.Command); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
