package logger

import (
	"io"
	"os"
	"strings"
	"time"

	glog "github.com/labstack/gommon/log"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// ParseLevel maps a config level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}

// Setup configures the global zerolog logger. A nil out writes a console
// log to stderr.
func Setup(level string, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	if out == nil {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}
	}

	lvl := ParseLevel(level)
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return log.Logger
}

// EchoLevel is the gommon level matching a zerolog level.
func EchoLevel(level zerolog.Level) glog.Lvl {
	switch level {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return glog.DEBUG
	case zerolog.InfoLevel:
		return glog.INFO
	case zerolog.WarnLevel:
		return glog.WARN
	case zerolog.Disabled:
		return glog.OFF
	default:
		return glog.ERROR
	}
}
