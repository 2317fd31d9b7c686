package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
)

// Init routes the standard logger to stdout plus an optional log file,
// creating parent directories as needed. Calling Init again closes any
// previously opened file first.
func Init(logPath string) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	var writers []io.Writer
	writers = append(writers, os.Stdout)

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	log.SetOutput(io.MultiWriter(writers...))
	return nil
}

// Close detaches and closes the log file, if one was opened.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	log.SetOutput(os.Stderr)
	err := logFile.Close()
	logFile = nil
	return err
}

// LogEvent logs a formatted pipeline event.
func LogEvent(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Println(msg)
}

// LogPhase logs one pipeline phase transition for an experiment, with an
// optional table name and detail.
func LogPhase(phase, experiment, tableName string, detail any) {
	msg := buildPhaseMessage(phase, experiment, tableName, detail)
	log.Println(msg)
}

func buildPhaseMessage(phase, experiment, tableName string, detail any) string {
	p := strings.TrimSpace(phase)
	if p != "" {
		p = strings.ToUpper(p)
	}
	exp := strings.TrimSpace(experiment)
	if exp == "" {
		exp = "unknown"
	}
	parts := []string{fmt.Sprintf("[%s]", p)}
	parts = append(parts, fmt.Sprintf("experiment=%s", exp))
	if tableName = strings.TrimSpace(tableName); tableName != "" {
		parts = append(parts, fmt.Sprintf("table=%s", tableName))
	}
	if detail != nil {
		parts = append(parts, fmt.Sprintf("detail=%v", detail))
	}
	return strings.Join(parts, " ")
}
