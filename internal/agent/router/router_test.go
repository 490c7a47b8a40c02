package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
)

func testConfig() model.RouterConfig {
	return model.RouterConfig{
		FlashModel:     "gemini-2.5-flash",
		ProModel:       "gemini-2.5-pro",
		FlashLiteModel: "gemini-2.5-flash-lite",
		Temperature:    0.7,
	}
}

func TestRouteRoleDefaults(t *testing.T) {
	r := New(testConfig())

	cases := map[Role]string{
		RoleExplore:     ProfileFlash,
		RoleItinerary:   ProfilePro,
		RolePacking:     ProfileFlash,
		RoleFormatter:   ProfileFlashLite,
		RolePDF:         ProfileFlashLite,
		RoleChat:        ProfileFlash,
		Role("mystery"): ProfileFlash,
	}
	for role, want := range cases {
		d := r.Route(role, Signals{})
		assert.Equal(t, want, d.Profile.Name, "role %s", role)
		assert.False(t, d.Escalated)
	}
}

func TestRouteThreeCitiesAlwaysEscalates(t *testing.T) {
	r := New(testConfig())
	for _, role := range []Role{RoleChat, RoleFormatter, RolePDF, RoleExplore, Role("unknown")} {
		d := r.Route(role, Signals{Cities: 3})
		require.True(t, d.Escalated, "role %s", role)
		assert.Equal(t, ProfilePro, d.Profile.Name)
		assert.Equal(t, "gemini-2.5-pro", d.Profile.Model)
		assert.Equal(t, 32768, d.Profile.MaxTokens)
	}
}

func TestShouldEscalate(t *testing.T) {
	p := DefaultPolicy()

	cases := []struct {
		name    string
		signals Signals
		want    bool
	}{
		{"quiet", Signals{Cities: 2, DateSpanDays: 5, ToolChain: 3}, false},
		{"long prompt", Signals{Prompt: strings.Repeat("a", 160004)}, true},
		{"prompt at limit", Signals{Prompt: strings.Repeat("a", 160000)}, false},
		{"cities", Signals{Cities: 3}, true},
		{"date span", Signals{DateSpanDays: 6}, true},
		{"tool chain", Signals{ToolChain: 4}, true},
		{"images", Signals{Multimodal: true}, true},
		{"context error", Signals{PreviousError: "upstream: Context Too Large"}, true},
		{"safety", Signals{PreviousError: "safety block triggered"}, true},
		{"schema", Signals{PreviousError: "tool schema too complex"}, true},
		{"other error", Signals{PreviousError: "timeout"}, false},
	}
	for _, tc := range cases {
		got, reason := p.ShouldEscalate(tc.signals)
		assert.Equal(t, tc.want, got, tc.name)
		if tc.want {
			assert.NotEmpty(t, reason, tc.name)
		}
	}
}

func TestPolicyFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.MaxCities = 4
	p := PolicyFromConfig(cfg)
	assert.Equal(t, 4, p.MaxCities)
	assert.Equal(t, 5, p.MaxDateSpan)

	r := New(cfg)
	assert.False(t, r.Route(RoleChat, Signals{Cities: 3}).Escalated)
	assert.True(t, r.Route(RoleChat, Signals{Cities: 5}).Escalated)
}

func TestProfilesOrdered(t *testing.T) {
	ps := New(testConfig()).Profiles()
	require.Len(t, ps, 3)
	assert.Equal(t, []string{ProfileFlashLite, ProfileFlash, ProfilePro}, []string{ps[0].Name, ps[1].Name, ps[2].Name})
	for _, p := range ps {
		assert.InDelta(t, 0.7, p.Temperature, 1e-6)
	}
}
