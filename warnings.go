package pdfcore

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tsawler/pdfcore/logger"
)

// Warning is a non-fatal problem met while parsing or extracting. The
// affected object, stream or page was skipped and the rest of the
// result is still usable.
type Warning struct {
	Page    int // 1-based; 0 when not tied to a page
	Message string
	Details string
}

// String formats the warning on one line
func (w Warning) String() string {
	var sb strings.Builder
	if w.Page > 0 {
		fmt.Fprintf(&sb, "page %d: ", w.Page)
	}
	sb.WriteString(w.Message)
	if w.Details != "" {
		sb.WriteString(" (")
		sb.WriteString(w.Details)
		sb.WriteString(")")
	}
	return sb.String()
}

// FormatWarnings renders warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// warningSink turns warn and error log messages into Warnings while
// passing every message on to the caller's LogFunc.
type warningSink struct {
	mu       sync.Mutex
	next     logger.LogFunc
	warnings []Warning
}

func (s *warningSink) log(level logger.LogLevel, msg string, keyvals ...interface{}) {
	if s.next != nil {
		s.next(level, msg, keyvals...)
	}
	if level != logger.WarnLevel && level != logger.ErrorLevel {
		return
	}

	w := newWarning(msg, keyvals)
	s.mu.Lock()
	s.warnings = append(s.warnings, w)
	s.mu.Unlock()
}

// drain returns the collected warnings and starts a new batch
func (s *warningSink) drain() []Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.warnings
	s.warnings = nil
	return out
}

// newWarning builds a Warning from a log message. A "page" key sets
// Page; the other pairs become "key=value" details.
func newWarning(msg string, keyvals []interface{}) Warning {
	w := Warning{Message: msg}
	var details []string
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		if i+1 >= len(keyvals) {
			details = append(details, key)
			break
		}
		val := keyvals[i+1]
		if page, ok := val.(int); ok && key == "page" {
			w.Page = page
			continue
		}
		details = append(details, fmt.Sprintf("%s=%v", key, val))
	}
	w.Details = strings.Join(details, " ")
	return w
}
