// Package doctor checks that the tools dockershit drives are available.
package doctor

// CheckStatus is the outcome of a check.
type CheckStatus int

const (
	StatusOK      CheckStatus = iota // available and working
	StatusMissing                    // not installed
	StatusError                      // installed but unusable
	StatusWarning                    // usable with limitations
)

var statusNames = map[CheckStatus]string{
	StatusOK:      "ok",
	StatusMissing: "missing",
	StatusError:   "error",
	StatusWarning: "warning",
}

func (s CheckStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Check is the result of probing one prerequisite.
type Check struct {
	ID         string
	Name       string
	Status     CheckStatus
	Message    string      // version or reason
	FixCommand *FixCommand // nil when there is no known fix on this platform
}

// Blocking reports whether the check stops dockershit from working.
// Warnings are not blocking.
func (c Check) Blocking() bool {
	return c.Status == StatusMissing || c.Status == StatusError
}

// FixCommand is a shell command that resolves a failing check.
type FixCommand struct {
	Description string
	Command     string
	Sudo        bool // prompts for a password, so needs a terminal
}

// Check IDs, in display order.
const (
	IDDocker = "docker"
	IDDaemon = "daemon"
	IDBuildx = "buildx"
)

var CheckIDs = []string{IDDocker, IDDaemon, IDBuildx}
