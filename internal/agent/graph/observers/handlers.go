package observers

import (
	einocb "github.com/cloudwego/eino/callbacks"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"
)

// NewAllCallbacks aggregates all observer handlers (stage, model, prompt, tool) into one callbacks.Handler.
func NewAllCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Lambda(newStageHandler()).
		Graph(newStageHandler()).
		ChatModel(newModelHandler()).
		Prompt(newPromptHandler()).
		Tool(newToolHandler()).
		Handler()
}

// NewToolCallbacks logs tool lifecycle events only.
func NewToolCallbacks() einocb.Handler {
	return callbackHelper.NewHandlerHelper().
		Tool(newToolHandler()).
		Handler()
}
