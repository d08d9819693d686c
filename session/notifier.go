package session

import "github.com/rs/zerolog"

// LogNotifier renders notifications as log lines. It is the default notifier
// for headless consumers (CLI, tests) where there is no toast surface.
type LogNotifier struct {
	Log zerolog.Logger
}

func (n LogNotifier) Success(message string) {
	n.Log.Info().Msg(message)
}

func (n LogNotifier) Error(message string) {
	n.Log.Error().Msg(message)
}
