// Package cli provides the terminal log handler for apex/log, colorized per
// level and safe on Windows consoles.
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
)

// Default handler writing to stderr.
var Default = New(os.Stderr)

var bold = color.New(color.Bold)

// Colors mapping per log level.
var Colors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// Strings mapping per log level.
var Strings = [...]string{
	log.DebugLevel: "DEBUG",
	log.InfoLevel:  " INFO",
	log.WarnLevel:  " WARN",
	log.ErrorLevel: "ERROR",
	log.FatalLevel: "FATAL",
}

// Handler implements log.Handler for terminal output.
type Handler struct {
	mu     sync.Mutex
	Writer io.Writer
}

// New returns a handler for the writer, wrapping stdout/stderr so ANSI color
// sequences render correctly on Windows.
func New(w io.Writer) *Handler {
	if f, ok := w.(*os.File); ok {
		return &Handler{Writer: colorable.NewColorable(f)}
	}
	return &Handler{Writer: w}
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	c := Colors[e.Level]
	level := Strings[e.Level]

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		if name == "source" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	h.mu.Lock()
	defer h.mu.Unlock()

	c.Fprintf(h.Writer, "%s: [%s] %-25s", bold.Sprintf("%*s", 5, level), time.Now().Format(time.Stamp), e.Message)
	for _, name := range names {
		c.Fprintf(h.Writer, " %s=%v", name, e.Fields.Get(name))
	}
	fmt.Fprintln(h.Writer)

	return nil
}
