// Package logging sets up the runtime's structured logger: a
// zerolog.Logger with chained .Str()/.Err() fields, one contextual
// logger per Growth Plan call hierarchy frame.
package logging

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New builds the base logger from level/format settings.
func New(level, format string) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	var writer = os.Stderr
	logger := zerolog.New(writer).With().Timestamp().Logger()
	if format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: writer})
	}

	parsed, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return logger.Level(parsed)
}

// ForPlan returns a child logger annotated with a Growth Plan's id and
// current call hierarchy, used to trace dispatch across nested
// trees/subtrees/blossoms.
func ForPlan(base zerolog.Logger, planID string, hierarchy []string) zerolog.Logger {
	return base.With().
		Str("growth_plan_id", planID).
		Str("hierarchy", strings.Join(hierarchy, " > ")).
		Logger()
}
