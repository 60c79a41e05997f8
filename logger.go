package transync

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

const (
	ColorReset  = "\033[0m"
	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorRed    = "\033[31m"
	ColorGray   = "\033[90m"
)

// QuietEnv suppresses console output when set. The log file still receives every line.
const QuietEnv = "TRANSYNC_QUIET"

// Logger writes leveled diagnostic lines to a console writer and,
// optionally, mirrors them to a log file without colors.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	color   bool
	verbose bool
	file    *os.File
}

// NewLogger returns a Logger writing to out. Colors are enabled only when
// out is a terminal.
func NewLogger(out io.Writer, verbose bool) *Logger {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Logger{out: out, color: color, verbose: verbose}
}

// OpenFile starts mirroring log lines to path, creating parent directories.
func (l *Logger) OpenFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

// Close stops mirroring to the log file. Safe to call repeatedly.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) line(prefix, color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	ts := time.Now().Format("15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()
	if os.Getenv(QuietEnv) == "" {
		if l.color {
			fmt.Fprintf(l.out, "[%s] %s%s%s %s\n", ts, color, prefix, ColorReset, msg)
		} else {
			fmt.Fprintf(l.out, "[%s] %s %s\n", ts, prefix, msg)
		}
	}
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %s %s\n", ts, prefix, msg)
	}
}

func (l *Logger) Info(format string, args ...any) {
	l.line("INFO", ColorCyan, format, args...)
}

func (l *Logger) OK(format string, args ...any) {
	l.line(" OK ", ColorGreen, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.line("WARN", ColorYellow, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.line(" ERR", ColorRed, format, args...)
}

// Debug is only emitted in verbose mode.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line(" DBG", ColorGray, format, args...)
}
