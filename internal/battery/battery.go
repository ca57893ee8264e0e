// Package battery reads the host battery charge, when there is one.
package battery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ErrNoBattery is returned when the host reports no battery.
var ErrNoBattery = errors.New("no battery found")

// DefaultRoot is where Linux exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

// SysfsSource reads capacity files under a power_supply directory.
type SysfsSource struct {
	path string
}

// Detect returns a source for the first battery under root, or ErrNoBattery.
func Detect(root string) (*SysfsSource, error) {
	matches, err := filepath.Glob(filepath.Join(root, "BAT*", "capacity"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if len(matches) == 0 {
		return nil, ErrNoBattery
	}
	sort.Strings(matches)
	return &SysfsSource{path: matches[0]}, nil
}

// Level returns the charge as a fraction in [0, 1].
func (s *SysfsSource) Level() (float64, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("reading battery capacity: %w", err)
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parsing battery capacity %q: %w", strings.TrimSpace(string(data)), err)
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return float64(pct) / 100, nil
}
