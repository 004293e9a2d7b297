package testutil

import (
	"io"

	"github.com/dtroode/gophkeeper-vault/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}
