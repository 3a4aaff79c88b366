package services

import (
	"github.com/rs/zerolog/log"
)

// Notifier receives user-visible sync status messages. The UI layer plugs in
// its own implementation; the default logs through zerolog.
type Notifier interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
}

type logNotifier struct{}

func (logNotifier) Info(msg string)    { log.Info().Msg(msg) }
func (logNotifier) Success(msg string) { log.Info().Msg(msg) }
func (logNotifier) Error(msg string)   { log.Error().Msg(msg) }
