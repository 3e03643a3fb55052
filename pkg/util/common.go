package util

import (
	"io"
	"log/slog"
)

// CloseFunc closes c and logs a failure; for use in defer. kv is extra
// context for the log line.
func CloseFunc(c io.Closer, kv ...any) {
	if err := c.Close(); err != nil {
		slog.Error("close", append(kv, "err", err)...)
	}
}
