package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const lineStampLayout = "02.01.2006 - 15:04:05"

// userLog is the per-user migration log, one file per record per run.
// Appends are best-effort: a log write failure is reported through the
// process logger but never interrupts the record's processing.
type userLog struct {
	path string
	log  zerolog.Logger
}

func newUserLog(path string, log zerolog.Logger) *userLog {
	return &userLog{path: path, log: log}
}

func (l *userLog) Append(msg string) {
	line := fmt.Sprintf("[%s]   %s\n", time.Now().Format(lineStampLayout), msg)
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		l.log.Warn().Err(err).Str("path", l.path).Msg("user log append failed")
		return
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		l.log.Warn().Err(err).Str("path", l.path).Msg("user log append failed")
	}
}
