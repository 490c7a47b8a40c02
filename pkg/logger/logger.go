package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cantrip-core/server/internal/core"
)

var DefaultLoggerOpts = &LoggerOpts{
	Environment: core.Development,
}

type LoggerOpts struct {
	Environment core.Environment
	// Level overrides the environment default when it parses as a zerolog level.
	Level string
}

func safe(opts ...LoggerOpts) *LoggerOpts {
	if len(opts) == 0 {
		return DefaultLoggerOpts
	}
	return &opts[0]
}

func Init(opts ...LoggerOpts) {
	o := safe(opts...)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var level zerolog.Level
	if o.Environment == core.Production {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "cantrip-agent").Logger()
		level = zerolog.InfoLevel
	} else {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Caller().Logger()
		level = zerolog.DebugLevel
	}
	if o.Level != "" {
		if parsed, err := zerolog.ParseLevel(o.Level); err == nil {
			level = parsed
		}
	}
	log.Logger = log.Logger.Level(level)
}

// With returns a child context of the global logger for component loggers.
func With() zerolog.Context {
	return log.Logger.With()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}
