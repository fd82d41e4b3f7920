// Package featureflags evaluates runtime feature toggles from configuration.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// Marketplace gates the marketplace routes.
const Marketplace = "marketplace"

// rule is a parsed flag value. percent is 0 for off and 100 for on; anything
// between is a per-user rollout.
type rule struct {
	raw     string
	percent int
}

// Manager holds the flags parsed from FEATURE_FLAGS, e.g.
// "marketplace=on,new_feed=25%,legacy_ui=off". It is read-only after
// construction and safe for concurrent use.
type Manager struct {
	rules map[string]rule
}

func NewManager(raw string) *Manager {
	rules := make(map[string]rule)
	for _, entry := range strings.Split(raw, ",") {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		name, value = normalize(name), normalize(value)
		if name == "" || value == "" {
			continue
		}
		rules[name] = rule{raw: value, percent: parsePercent(value)}
	}
	return &Manager{rules: rules}
}

// parsePercent maps on/true/1 to 100, off/false/0 to 0 and "N%" to N
// clamped to [0,100]. Unrecognised values count as off.
func parsePercent(value string) int {
	switch value {
	case "on", "true", "1":
		return 100
	case "off", "false", "0":
		return 0
	}
	digits, ok := strings.CutSuffix(value, "%")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

// Enabled reports whether name is on for userID. Partial rollouts need a
// user and hash (flag, user) so the answer is stable across requests.
func (m *Manager) Enabled(name, userID string) bool {
	if m == nil {
		return false
	}
	r, ok := m.rules[normalize(name)]
	switch {
	case !ok || r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case userID == "":
		return false
	}
	return bucket(normalize(name), userID) < r.percent
}

// Raw returns the configured values as written.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for name, r := range m.rules {
		out[name] = r.raw
	}
	return out
}

// Snapshot evaluates every configured flag for userID.
func (m *Manager) Snapshot(userID string) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func bucket(name, userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte{':'})
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % 100)
}
