package takibi

import (
	"encoding/json"
	"log"
)

// Logger receives progress and diagnostic messages. Each method gets a
// structured context map, which may be nil.
type Logger interface {
	Debug(message string, ctx map[string]any)
	Info(message string, ctx map[string]any)
	Warn(message string, ctx map[string]any)
	Error(message string, ctx map[string]any)
}

// DefaultLogger writes info, warnings and errors to the standard library
// logger and drops debug lines.
func DefaultLogger() Logger { return defaultLogger{} }

// VerboseLogger writes every level to the standard library logger.
func VerboseLogger() Logger { return verboseLogger{} }

// NopLogger discards everything.
func NopLogger() Logger { return nopLogger{} }

type defaultLogger struct{}

func (defaultLogger) Debug(string, map[string]any) {}

func (defaultLogger) Info(msg string, ctx map[string]any)  { logLine("INFO", msg, ctx) }
func (defaultLogger) Warn(msg string, ctx map[string]any)  { logLine("WARN", msg, ctx) }
func (defaultLogger) Error(msg string, ctx map[string]any) { logLine("ERROR", msg, ctx) }

func logLine(level, msg string, ctx map[string]any) {
	if len(ctx) == 0 {
		log.Printf("[%s] %s", level, msg)
		return
	}
	b, err := json.Marshal(ctx)
	if err != nil {
		log.Printf("[%s] %s %v", level, msg, ctx)
		return
	}
	log.Printf("[%s] %s %s", level, msg, b)
}

type verboseLogger struct{}

func (verboseLogger) Debug(msg string, ctx map[string]any) { logLine("DEBUG", msg, ctx) }
func (verboseLogger) Info(msg string, ctx map[string]any)  { logLine("INFO", msg, ctx) }
func (verboseLogger) Warn(msg string, ctx map[string]any)  { logLine("WARN", msg, ctx) }
func (verboseLogger) Error(msg string, ctx map[string]any) { logLine("ERROR", msg, ctx) }

// FuncLogger wraps a plain function: func(level, message string, ctx map[string]any).
type FuncLogger struct {
	Fn func(level, message string, ctx map[string]any)
}

func (f FuncLogger) Debug(msg string, ctx map[string]any) { f.Fn("debug", msg, ctx) }
func (f FuncLogger) Info(msg string, ctx map[string]any)  { f.Fn("info", msg, ctx) }
func (f FuncLogger) Warn(msg string, ctx map[string]any)  { f.Fn("warn", msg, ctx) }
func (f FuncLogger) Error(msg string, ctx map[string]any) { f.Fn("error", msg, ctx) }

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
