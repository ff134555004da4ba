// Package process resolves process names from a procfs tree.
package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Table looks up process information under a procfs root.
type Table struct {
	root string
}

func NewTable() *Table {
	return &Table{root: "/proc"}
}

// NewTableAt reads from an alternate procfs root.
func NewTableAt(root string) *Table {
	return &Table{root: root}
}

// IsAvailable reports whether the procfs root exists.
func (t *Table) IsAvailable() bool {
	_, err := os.Stat(t.root)
	return err == nil
}

// NameByPID returns the short executable name for pid. It reads comm first
// and falls back to the parenthesised name in stat.
func (t *Table) NameByPID(pid int) (string, error) {
	if pid <= 0 {
		return "", errors.Errorf("invalid pid %d", pid)
	}
	dir := filepath.Join(t.root, strconv.Itoa(pid))

	if data, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name, nil
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "stat"))
	if err != nil {
		return "", errors.Wrapf(err, "read process %d", pid)
	}
	name := parseStatName(string(data))
	if name == "" {
		return "", errors.Errorf("process %d: malformed stat", pid)
	}
	return name, nil
}

func parseStatName(stat string) string {
	start := strings.Index(stat, "(")
	end := strings.LastIndex(stat, ")")
	if start == -1 || end <= start {
		return ""
	}
	return stat[start+1 : end]
}
