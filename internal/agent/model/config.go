package model

import "time"

// ================ Config ================

// RouterConfig names the backing model of each profile and the escalation thresholds.
type RouterConfig struct {
	FlashModel     string  `envconfig:"ROUTER_FLASH_MODEL" default:"gemini-2.5-flash"`
	ProModel       string  `envconfig:"ROUTER_PRO_MODEL" default:"gemini-2.5-pro"`
	FlashLiteModel string  `envconfig:"ROUTER_FLASH_LITE_MODEL" default:"gemini-2.5-flash-lite"`
	Temperature    float32 `envconfig:"ROUTER_TEMPERATURE" default:"0.7"`

	MaxPromptTokens int `envconfig:"ROUTER_MAX_PROMPT_TOKENS" default:"40000"`
	MaxCities       int `envconfig:"ROUTER_MAX_CITIES" default:"2"`
	MaxDateSpan     int `envconfig:"ROUTER_MAX_DATE_SPAN_DAYS" default:"5"`
	MaxToolChain    int `envconfig:"ROUTER_MAX_TOOL_CHAIN" default:"3"`
}

// GatherConfig bounds the collaborator fan-out.
type GatherConfig struct {
	AdapterTimeout time.Duration `envconfig:"GATHER_ADAPTER_TIMEOUT" default:"8s"`
}

// SchedulerConfig holds itinerary defaults used when a request leaves them out.
type SchedulerConfig struct {
	DefaultDays      int     `envconfig:"SCHEDULER_DEFAULT_DAYS" default:"3"`
	DefaultBudget    float64 `envconfig:"SCHEDULER_DEFAULT_BUDGET" default:"1000"`
	DefaultGroupSize int     `envconfig:"SCHEDULER_DEFAULT_GROUP_SIZE" default:"1"`
}

// CollaboratorConfig carries provider credentials. Missing keys switch adapters to sample data.
type CollaboratorConfig struct {
	OpenWeatherAPIKey  string        `envconfig:"OPENWEATHER_API_KEY"`
	OpenWeatherBaseURL string        `envconfig:"OPENWEATHER_BASE_URL" default:"https://api.openweathermap.org"`
	EventsBaseURL      string        `envconfig:"EVENTS_BASE_URL"`
	HTTPTimeout        time.Duration `envconfig:"COLLABORATOR_HTTP_TIMEOUT" default:"5s"`
	ForecastDays       int           `envconfig:"WEATHER_FORECAST_DAYS" default:"5"`
	CacheTTL           time.Duration `envconfig:"COLLABORATOR_CACHE_TTL" default:"10m"`
}

// ConversationConfig limits how much prior history reaches the model.
type ConversationConfig struct {
	MaxTurns int `envconfig:"CONVERSATION_MAX_TURNS" default:"6"`
}

// TelemetryConfig toggles OTLP trace export.
type TelemetryConfig struct {
	Enabled      bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName  string `envconfig:"OTEL_SERVICE_NAME" default:"cantrip-agent"`
}

// EvalConfig points the evaluation recorder at a JSONL file. Empty disables it.
type EvalConfig struct {
	LogPath string `envconfig:"EVAL_LOG_PATH"`
}
