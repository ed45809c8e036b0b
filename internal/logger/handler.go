package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	white  = "\033[97m"
)

// PrettyHandler writes one human readable line per record:
// time, level, message, then key=value attributes.
type PrettyHandler struct {
	level slog.Leveler
	color bool
	w     io.Writer
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

type Options struct {
	Level slog.Leveler
	Color bool
}

func NewPrettyHandler(w io.Writer, opts Options) *PrettyHandler {
	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}

	return &PrettyHandler{
		level: level,
		color: opts.Color,
		w:     w,
		mu:    &sync.Mutex{},
	}
}

// New builds a logger around a PrettyHandler.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(NewPrettyHandler(w, Options{Level: level, Color: color}))
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.w, "%s ", h.paint(gray, r.Time.Format("15:04:05.000")))
	fmt.Fprintf(h.w, "%s ", h.paint(levelColor(r.Level), fmt.Sprintf("%-5s", r.Level.String())))
	fmt.Fprint(h.w, h.paint(white, r.Message))

	for _, a := range h.attrs {
		h.printAttr(a.Key, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.printAttr(h.qualify(a.Key), a)
		return true
	})

	_, err := fmt.Fprintln(h.w)
	return err
}

func (h *PrettyHandler) printAttr(key string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	val := a.Value.Resolve().Any()
	if t, ok := val.(time.Time); ok {
		val = t.Format(time.RFC3339)
	}

	fmt.Fprintf(h.w, " %s=%v", h.paint(cyan, key), val)
}

func (h *PrettyHandler) qualify(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *PrettyHandler) paint(color string, s string) string {
	if !h.color {
		return s
	}
	return color + s + reset
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return red
	case level >= slog.LevelWarn:
		return yellow
	case level >= slog.LevelInfo:
		return green
	default:
		return purple
	}
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	for _, a := range attrs {
		newAttrs = append(newAttrs, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}

	clone := *h
	clone.attrs = newAttrs
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	if h.group != "" {
		clone.group = h.group + "." + name
	} else {
		clone.group = name
	}
	return &clone
}
