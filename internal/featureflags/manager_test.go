package featureflags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	for _, name := range []string{"a", "c", "e"} {
		assert.True(t, m.Enabled(name, "u1"), name)
	}
	for _, name := range []string{"b", "d", "f", "missing"} {
		assert.False(t, m.Enabled(name, "u1"), name)
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%,broken=abc%")

	assert.True(t, m.Enabled("always", "u1"))
	assert.False(t, m.Enabled("never", "u1"))
	assert.False(t, m.Enabled("broken", "u1"))
	assert.False(t, m.Enabled("canary", ""), "percentage rollout requires a user")

	first := m.Enabled("canary", "user-42")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, m.Enabled("canary", "user-42"), "rollout must be deterministic per user")
	}

	enabled := 0
	for i := 0; i < 1000; i++ {
		if m.Enabled("canary", fmt.Sprintf("user-%d", i)) {
			enabled++
		}
	}
	assert.InDelta(t, 250, enabled, 80)
}

func TestParseAndSnapshot(t *testing.T) {
	m := NewManager(" bad ,x=on, Y = 20% ,z=off,=on ")

	raw := m.Raw()
	assert.Equal(t, map[string]string{"x": "on", "y": "20%", "z": "off"}, raw)

	snap := m.Snapshot("123")
	assert.Len(t, snap, 3)
	assert.True(t, snap["x"])
	assert.False(t, snap["z"])
}

func TestNilManager(t *testing.T) {
	var m *Manager
	assert.False(t, m.Enabled(Marketplace, "u1"))
}

func TestParsePercent(t *testing.T) {
	cases := map[string]int{
		"on": 100, "true": 100, "off": 0, "0": 0,
		"40%": 40, "150%": 100, "-5%": 0, "maybe": 0, "%": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, parsePercent(in), in)
	}
}
