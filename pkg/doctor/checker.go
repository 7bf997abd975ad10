package doctor

import "sync"

// Checker provides dependency checking functionality.
type Checker struct {
	executor CommandExecutor
}

// NewChecker creates a new Checker with the real command executor.
func NewChecker() *Checker {
	return &Checker{
		executor: &RealExecutor{},
	}
}

// NewCheckerWithExecutor creates a new Checker with a custom executor (for testing).
func NewCheckerWithExecutor(exec CommandExecutor) *Checker {
	return &Checker{
		executor: exec,
	}
}

// CheckAll runs every check concurrently and returns them in CheckIDs order.
func (c *Checker) CheckAll() []Check {
	result := make([]Check, len(CheckIDs))
	var wg sync.WaitGroup

	for i, id := range CheckIDs {
		wg.Add(1)
		go func(idx int, checkID string) {
			defer wg.Done()
			result[idx] = c.runCheck(checkID)
		}(i, id)
	}

	wg.Wait()
	return result
}

// runCheck runs a specific check by ID.
func (c *Checker) runCheck(checkID string) Check {
	switch checkID {
	case IDDocker:
		return CheckDocker(c.executor)
	case IDDaemon:
		return CheckDaemon(c.executor)
	case IDBuildx:
		return CheckBuildx(c.executor)
	default:
		return Check{
			ID:      checkID,
			Name:    checkID,
			Status:  StatusError,
			Message: "unknown check",
		}
	}
}

// Summary represents an overall health summary.
type Summary struct {
	Total    int
	OK       int
	Missing  int
	Warnings int
	Errors   int
}

// GetSummary returns a summary of check results.
func GetSummary(checks []Check) Summary {
	var summary Summary

	for _, check := range checks {
		summary.Total++
		switch check.Status {
		case StatusOK:
			summary.OK++
		case StatusMissing:
			summary.Missing++
		case StatusWarning:
			summary.Warnings++
		case StatusError:
			summary.Errors++
		}
	}

	return summary
}

// HasIssues reports whether any check is blocking.
func HasIssues(checks []Check) bool {
	for _, check := range checks {
		if check.Blocking() {
			return true
		}
	}
	return false
}
