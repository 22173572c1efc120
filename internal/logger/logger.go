package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

type Logger struct {
	logger *log.Logger
	prefix string
	mtx    sync.Mutex // SetPrefix and Print must happen together
}

func NewLoggerTo(w io.Writer, prefix string) *Logger {
	return &Logger{
		logger: log.New(w, "", log.Ldate|log.Ltime|log.Lmsgprefix),
		prefix: prefix,
	}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewLoggerTo(io.Discard, "")
}

// OpenFile appends to the log file at path, creating it if needed. The
// caller closes the returned file.
func OpenFile(path, prefix string) (*Logger, *os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	return NewLoggerTo(f, prefix), f, nil
}

func (l *Logger) Logf(format string, args ...interface{}) {
	l.logWithPrefix(fmt.Sprintf(format, args...))
}

func (l *Logger) Logln(args ...interface{}) {
	l.logWithPrefix(fmt.Sprintln(args...))
}

func (l *Logger) logWithPrefix(msg string) {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return
	}

	funcName := runtime.FuncForPC(pc).Name()
	lastSlash := strings.LastIndexByte(funcName, '/')
	funcName = funcName[lastSlash+1:]

	_, fileName := filepath.Split(file)

	l.mtx.Lock()
	defer l.mtx.Unlock()

	prefix := fmt.Sprintf("%s [%s:%d] %s(): ", l.prefix, fileName, line, funcName)
	l.logger.SetPrefix(prefix)
	l.logger.Print(msg)
}
