package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000, TotalTokens: 1_500_000}

	in, out, total := ComputeCost(usage, ResolvePricing("gemini-2.5-flash"))
	assert.InDelta(t, 0.30, in, 1e-9)
	assert.InDelta(t, 1.25, out, 1e-9)
	assert.InDelta(t, 1.55, total, 1e-9)

	_, _, total = ComputeCost(usage, ResolvePricing("unknown-model"))
	assert.Zero(t, total)

	_, _, total = ComputeCost(nil, ResolvePricing("gemini-2.5-pro"))
	assert.Zero(t, total)
}
