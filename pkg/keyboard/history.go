package keyboard

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// DefaultHistorySize is the number of entries kept when no limit is given.
const DefaultHistorySize = 1000

// History is a bounded list of previously entered lines backed by a file.
type History struct {
	path    string
	limit   int
	entries []string
	mu      sync.RWMutex
}

// LoadHistory reads the history file at path. A missing file yields an empty
// history. limit <= 0 selects DefaultHistorySize.
func LoadHistory(path string, limit int) (*History, error) {
	if limit <= 0 {
		limit = DefaultHistorySize
	}

	h := &History{
		path:  path,
		limit: limit,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	for _, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			h.entries = append(h.entries, line)
		}
	}
	h.trim()

	return h, nil
}

// Path returns the history file path.
func (h *History) Path() string {
	return h.path
}

// Add appends line unless it repeats the previous entry.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	h.trim()
}

// trim drops the oldest entries beyond the limit (caller must hold lock).
func (h *History) trim() {
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Entries returns a copy of the history, oldest first.
func (h *History) Entries() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.entries)
}

// Save writes the history file atomically.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}

	h.mu.RLock()
	content := strings.Join(h.entries, "\n")
	h.mu.RUnlock()
	if content != "" {
		content += "\n"
	}

	if err := atomic.WriteFile(h.path, strings.NewReader(content)); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}
