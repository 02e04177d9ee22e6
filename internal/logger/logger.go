// Package logger provides structured logging for ShowSync.
// Messages are written through the standard library logger with an
// optional JSON output mode selected via the LOG_FORMAT environment
// variable. Fields are passed as alternating key/value pairs.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Info logs informational messages
func Info(msg string, kv ...interface{}) {
	write("INFO", msg, kv...)
}

// Warn logs warning messages
func Warn(msg string, kv ...interface{}) {
	write("WARN", msg, kv...)
}

// Error logs error messages
func Error(msg string, kv ...interface{}) {
	write("ERROR", msg, kv...)
}

// Debug logs debug messages when LOG_LEVEL=debug
func Debug(msg string, kv ...interface{}) {
	if os.Getenv("LOG_LEVEL") == "debug" {
		write("DEBUG", msg, kv...)
	}
}

func write(level, msg string, kv ...interface{}) {
	if os.Getenv("LOG_FORMAT") == "json" {
		entry := map[string]interface{}{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"level":     level,
			"message":   msg,
		}
		for i := 0; i+1 < len(kv); i += 2 {
			key, ok := kv[i].(string)
			if !ok {
				key = fmt.Sprintf("%v", kv[i])
			}
			entry[key] = normalize(kv[i+1])
		}
		data, _ := json.Marshal(entry)
		log.Println(string(data))
		return
	}

	var b strings.Builder
	for i := 0; i+1 < len(kv); i += 2 {
		fmt.Fprintf(&b, " %v=%v", kv[i], normalize(kv[i+1]))
	}
	log.Printf("%s: %s%s", level, msg, b.String())
}

// normalize converts values that don't format cleanly (errors mostly)
func normalize(v interface{}) interface{} {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	return v
}
