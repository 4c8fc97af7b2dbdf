package scraper

import "github.com/rs/zerolog"

type logProgress struct {
	log zerolog.Logger
}

// LogProgress returns a ProgressSink that writes each message as an info event.
func LogProgress(log zerolog.Logger) ProgressSink {
	return logProgress{log: log}
}

func (p logProgress) Progress(msg string) {
	p.log.Info().Msg(msg)
}
