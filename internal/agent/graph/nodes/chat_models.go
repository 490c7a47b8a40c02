package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	einomodel "github.com/cloudwego/eino/components/model"
	"google.golang.org/genai"

	"github.com/cantrip-core/server/internal/agent/router"
	logx "github.com/cantrip-core/server/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey   string
	BaseURL  string
	Profiles []router.Profile
}

// ChatModels holds one chat model per router profile, keyed by model name.
type ChatModels struct {
	byModel map[string]einomodel.BaseChatModel
}

// NewChatModels creates a Gemini chat model for every profile. Without an API
// key it returns an empty set and every generation falls back.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	cms := &ChatModels{byModel: map[string]einomodel.BaseChatModel{}}
	if config.APIKey == "" {
		logx.Warn().Msg("GEMINI_API_KEY not set, text generation will use fallbacks")
		return cms, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	for _, p := range config.Profiles {
		if _, ok := cms.byModel[p.Model]; ok {
			continue
		}
		temperature := p.Temperature
		maxTokens := p.MaxTokens
		cfg := &gemini.Config{
			Client:      client,
			Model:       p.Model,
			Temperature: &temperature,
			MaxTokens:   &maxTokens,
		}
		if p.Tier == router.TierPro {
			cfg.ThinkingConfig = &genai.ThinkingConfig{
				IncludeThoughts: false,
				ThinkingBudget:  genai.Ptr(int32(2000)),
			}
		}
		cm, err := gemini.NewChatModel(ctx, cfg)
		if err != nil {
			logx.Error().Err(err).Str("profile", p.Name).Msg("Error creating chat model")
			return nil, fmt.Errorf("error creating %s model: %w", p.Name, err)
		}
		cms.byModel[p.Model] = cm
		logx.Debug().Str("profile", p.Name).Str("model", p.Model).Msg("chat model ready")
	}
	return cms, nil
}

// NewStaticChatModels wraps prebuilt models, keyed by model name.
func NewStaticChatModels(models map[string]einomodel.BaseChatModel) *ChatModels {
	cms := &ChatModels{byModel: make(map[string]einomodel.BaseChatModel, len(models))}
	for k, v := range models {
		cms.byModel[k] = v
	}
	return cms
}

func (cm *ChatModels) Get(modelName string) (einomodel.BaseChatModel, bool) {
	if cm == nil {
		return nil, false
	}
	m, ok := cm.byModel[modelName]
	return m, ok
}
