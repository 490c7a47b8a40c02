package observers

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.DebugLevel)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestStageHandlerLogsLifecycle(t *testing.T) {
	buf := captureLogs(t)

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name:      "gather",
		Type:      "Lambda",
		Component: compose.ComponentOfLambda,
	}, newStageHandler())
	ctx = einocb.OnStart(ctx, "input")
	einocb.OnEnd(ctx, "output")
	einocb.OnError(ctx, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"message":"stage start"`)
	assert.Contains(t, out, `"message":"stage end"`)
	assert.Contains(t, out, `"message":"stage failed"`)
	assert.Equal(t, 3, strings.Count(out, `"stage":"gather"`))
}

func TestToolCallbacksLogArguments(t *testing.T) {
	buf := captureLogs(t)

	ctx := einocb.InitCallbacks(context.Background(), &einocb.RunInfo{
		Name:      "get_weather",
		Component: components.ComponentOfTool,
	}, NewToolCallbacks())
	ctx = einocb.OnStart(ctx, &tool.CallbackInput{ArgumentsInJSON: `{"city":"Toronto"}`})
	einocb.OnEnd(ctx, &tool.CallbackOutput{Response: `{"count":1}`})

	out := buf.String()
	assert.Contains(t, out, `"tool":"get_weather"`)
	assert.Contains(t, out, `Toronto`)
	assert.Contains(t, out, `"response_len":11`)
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short"))
	long := strings.Repeat("a", 2000)
	assert.Less(t, len(clip(long)), len(long))
}

func TestLastUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage("first"),
		schema.AssistantMessage("reply", nil),
		schema.UserMessage("second"),
	}
	assert.Equal(t, "second", lastUserContent(msgs))
	assert.Equal(t, "", lastUserContent(nil))
}
