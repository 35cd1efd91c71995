// Package logger is a small leveled wrapper around the standard log package,
// used throughout the batch engine instead of ad-hoc fmt.Println calls.
package logger

import (
	"fmt"
	"log"
	"strings"
)

// Level is a logging level. Smaller values are more verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var current = LevelInfo

// SetLevel sets the global log level from a case-insensitive string
// ("DEBUG", "INFO", "WARN", "ERROR", "FATAL"). Unrecognized values fall back
// to INFO.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		current = LevelDebug
	case "INFO":
		current = LevelInfo
	case "WARN":
		current = LevelWarn
	case "ERROR":
		current = LevelError
	case "FATAL":
		current = LevelFatal
	default:
		fmt.Printf("unknown log level %q, defaulting to INFO\n", level)
		current = LevelInfo
	}
}

func Debugf(format string, v ...interface{}) {
	if current <= LevelDebug {
		log.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...interface{}) {
	if current <= LevelInfo {
		log.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...interface{}) {
	if current <= LevelWarn {
		log.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...interface{}) {
	if current <= LevelError {
		log.Printf("[ERROR] "+format, v...)
	}
}

// Fatalf logs at FATAL and terminates the process, matching log.Fatalf.
func Fatalf(format string, v ...interface{}) {
	log.Fatalf("[FATAL] "+format, v...)
}
