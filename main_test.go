package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cantrip-core/server/internal/agent/model"
)

func TestBuildRegistryWithoutRedis(t *testing.T) {
	registry, closeFn, err := buildRegistry(context.Background(), AppConfig{})
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	defer closeFn()

	assert.ElementsMatch(t, []model.Collaborator{
		model.CollabWeather,
		model.CollabEvents,
		model.CollabAttractions,
		model.CollabRecommendations,
		model.CollabPlanning,
	}, registry.Names())
}
