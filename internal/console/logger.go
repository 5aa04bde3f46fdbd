// Package console renders biomectl's logs and download progress on a terminal.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Logger writes leveled key/value log lines. Debug lines are only written in
// verbose mode. It satisfies the Logger interfaces of the library packages.
type Logger struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool

	levels map[string]lipgloss.Style
	key    lipgloss.Style
}

// NewLogger creates a logger writing to w. Colors follow w's terminal
// capabilities, so redirected output stays plain.
func NewLogger(w io.Writer, verbose bool) *Logger {
	r := lipgloss.NewRenderer(w)
	return &Logger{
		w:       w,
		verbose: verbose,
		levels: map[string]lipgloss.Style{
			"DEBUG": r.NewStyle().Faint(true),
			"INFO":  r.NewStyle().Foreground(lipgloss.Color("4")),
			"WARN":  r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
			"ERROR": r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		},
		key: r.NewStyle().Faint(true),
	}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l.verbose {
		l.log("DEBUG", msg, keysAndValues)
	}
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.log("INFO", msg, keysAndValues)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.log("WARN", msg, keysAndValues)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.log("ERROR", msg, keysAndValues)
}

func (l *Logger) log(level, msg string, keysAndValues []interface{}) {
	var sb strings.Builder
	sb.WriteString(l.levels[level].Render(fmt.Sprintf("%-5s", level)))
	sb.WriteByte(' ')
	sb.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		key := fmt.Sprint(keysAndValues[i])
		var value interface{} = "(MISSING)"
		if i+1 < len(keysAndValues) {
			value = keysAndValues[i+1]
		}
		sb.WriteByte(' ')
		sb.WriteString(l.key.Render(key + "="))
		sb.WriteString(formatValue(value))
	}
	sb.WriteByte('\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, sb.String())
}

// formatValue quotes values containing spaces.
func formatValue(v interface{}) string {
	s := fmt.Sprint(v)
	if s == "" || strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
