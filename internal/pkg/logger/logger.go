package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger 統一輸出 JSON 格式到 stdout
func NewLogger(service string) zerolog.Logger {
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
