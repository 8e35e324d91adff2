package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Entry is one decoded zap JSON line.
type Entry struct {
	Time    time.Time
	Level   zapcore.Level
	Logger  string
	Message string
	Fields  map[string]any
	// Raw is the original line; it is all that is set when the line is not JSON.
	Raw string
}

var reservedKeys = map[string]bool{
	"ts": true, "level": true, "logger": true, "msg": true, "caller": true, "stacktrace": true,
}

// Parse decodes a line written by the console's zap logger. Lines that are not
// JSON objects come back with only Raw set and InfoLevel.
func Parse(line string) Entry {
	entry := Entry{Raw: line, Level: zapcore.InfoLevel}
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		entry.Message = trimmed
		return entry
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		entry.Message = trimmed
		return entry
	}

	if s, ok := raw["level"].(string); ok {
		if lvl, err := zapcore.ParseLevel(s); err == nil {
			entry.Level = lvl
		}
	}
	if s, ok := raw["ts"].(string); ok {
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z0700", s); err == nil {
			entry.Time = ts
		} else if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
			entry.Time = ts
		}
	}
	entry.Logger, _ = raw["logger"].(string)
	entry.Message, _ = raw["msg"].(string)

	for k, v := range raw {
		if reservedKeys[k] {
			continue
		}
		if entry.Fields == nil {
			entry.Fields = make(map[string]any)
		}
		entry.Fields[k] = v
	}
	return entry
}

// ParseLines decodes lines and keeps those at or above minLevel.
func ParseLines(lines []string, minLevel zapcore.Level) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e := Parse(line)
		if e.Level < minLevel {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Format renders e as "15:04:05 LEVEL logger: msg k=v ...", fields sorted.
func Format(e Entry) string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s ", e.Level.CapitalString())
	if e.Logger != "" {
		b.WriteString(e.Logger)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, e.Fields[k])
	}
	return b.String()
}
