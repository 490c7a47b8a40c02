package router

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cantrip-core/server/internal/agent/model"
)

// Profile names.
const (
	ProfileFlashLite = "flash-lite"
	ProfileFlash     = "flash"
	ProfilePro       = "pro"
)

// Tier orders profiles by capability and cost.
type Tier int

const (
	TierLite Tier = iota + 1
	TierStandard
	TierPro
)

// Profile is the opaque model handle handed to generation code.
type Profile struct {
	Name        string
	Model       string
	Temperature float32
	MaxTokens   int
	Tier        Tier
}

// Role is the agent role asking for a model.
type Role string

const (
	RoleChat      Role = "chat"
	RoleExplore   Role = "explore"
	RoleItinerary Role = "itinerary"
	RolePacking   Role = "packing"
	RoleTips      Role = "tips"
	RoleEvents    Role = "events"
	RoleFormatter Role = "formatter"
	RolePDF       Role = "pdf"
)

var roleDefaults = map[Role]string{
	RoleChat:      ProfileFlash,
	RoleExplore:   ProfileFlash,
	RoleItinerary: ProfilePro,
	RolePacking:   ProfileFlash,
	RoleTips:      ProfileFlash,
	RoleEvents:    ProfileFlash,
	RoleFormatter: ProfileFlashLite,
	RolePDF:       ProfileFlashLite,
}

// Signals describe how demanding the current turn is.
type Signals struct {
	Prompt        string
	Cities        int
	DateSpanDays  int
	ToolChain     int
	Multimodal    bool
	PreviousError string
}

// Policy holds the escalation thresholds. A signal escalates when it exceeds its limit.
type Policy struct {
	MaxPromptTokens  int
	MaxCities        int
	MaxDateSpan      int
	MaxToolChain     int
	EscalationErrors []string
}

func DefaultPolicy() Policy {
	return Policy{
		MaxPromptTokens:  40000,
		MaxCities:        2,
		MaxDateSpan:      5,
		MaxToolChain:     3,
		EscalationErrors: []string{"context too large", "safety block", "tool schema too complex"},
	}
}

// PolicyFromConfig overlays configured thresholds on the defaults.
func PolicyFromConfig(cfg model.RouterConfig) Policy {
	p := DefaultPolicy()
	if cfg.MaxPromptTokens > 0 {
		p.MaxPromptTokens = cfg.MaxPromptTokens
	}
	if cfg.MaxCities > 0 {
		p.MaxCities = cfg.MaxCities
	}
	if cfg.MaxDateSpan > 0 {
		p.MaxDateSpan = cfg.MaxDateSpan
	}
	if cfg.MaxToolChain > 0 {
		p.MaxToolChain = cfg.MaxToolChain
	}
	return p
}

// EstimateTokens is a coarse characters/4 heuristic.
func EstimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}

// ShouldEscalate reports whether any signal crosses its threshold, and which one.
func (p Policy) ShouldEscalate(s Signals) (bool, string) {
	if tokens := EstimateTokens(s.Prompt); tokens > p.MaxPromptTokens {
		return true, fmt.Sprintf("prompt tokens %d > %d", tokens, p.MaxPromptTokens)
	}
	if s.Cities > p.MaxCities {
		return true, fmt.Sprintf("cities %d > %d", s.Cities, p.MaxCities)
	}
	if s.DateSpanDays > p.MaxDateSpan {
		return true, fmt.Sprintf("date span %d > %d", s.DateSpanDays, p.MaxDateSpan)
	}
	if s.ToolChain > p.MaxToolChain {
		return true, fmt.Sprintf("tool chain %d > %d", s.ToolChain, p.MaxToolChain)
	}
	if s.Multimodal {
		return true, "multimodal input"
	}
	if s.PreviousError != "" {
		prev := strings.ToLower(s.PreviousError)
		for _, e := range p.EscalationErrors {
			if strings.Contains(prev, e) {
				return true, "previous error: " + e
			}
		}
	}
	return false, ""
}

// Decision is the result of routing one role.
type Decision struct {
	Role      Role
	Profile   Profile
	Escalated bool
	Reason    string
}

// Router is a pure lookup from role and signals to a profile.
type Router struct {
	profiles map[string]Profile
	policy   Policy
}

// New builds the fixed flash-lite / flash / pro profile set from cfg.
func New(cfg model.RouterConfig) *Router {
	temp := cfg.Temperature
	if temp == 0 {
		temp = 0.7
	}
	return &Router{
		profiles: map[string]Profile{
			ProfileFlashLite: {Name: ProfileFlashLite, Model: cfg.FlashLiteModel, Temperature: temp, MaxTokens: 4096, Tier: TierLite},
			ProfileFlash:     {Name: ProfileFlash, Model: cfg.FlashModel, Temperature: temp, MaxTokens: 8192, Tier: TierStandard},
			ProfilePro:       {Name: ProfilePro, Model: cfg.ProModel, Temperature: temp, MaxTokens: 32768, Tier: TierPro},
		},
		policy: PolicyFromConfig(cfg),
	}
}

// Route picks the role default, or the highest tier when the signals escalate.
func (r *Router) Route(role Role, s Signals) Decision {
	if ok, reason := r.policy.ShouldEscalate(s); ok {
		return Decision{Role: role, Profile: r.highest(), Escalated: true, Reason: reason}
	}
	name, ok := roleDefaults[role]
	if !ok {
		name = ProfileFlash
	}
	return Decision{Role: role, Profile: r.profiles[name], Reason: "role default"}
}

// Profiles lists every profile, lowest tier first.
func (r *Router) Profiles() []Profile {
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tier < out[j].Tier })
	return out
}

func (r *Router) Policy() Policy {
	return r.policy
}

func (r *Router) highest() Profile {
	var best Profile
	for _, p := range r.profiles {
		if p.Tier > best.Tier {
			best = p
		}
	}
	return best
}
