// Package logging configures klog output for the binaries.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// JSONHandler is a slog.Handler writing one JSON object per record. With
// Indent set each object is pretty printed over several lines.
//
// Note: this handler is not optimized for throughput.
type JSONHandler struct {
	w         io.Writer
	mu        *sync.Mutex
	level     slog.Leveler
	addSource bool
	indent    bool

	attrs  []boundAttr
	groups []string
}

// boundAttr remembers how many groups were open when an attribute was added.
type boundAttr struct {
	depth int
	attr  slog.Attr
}

func NewJSONHandler(w io.Writer, indent bool, opts *slog.HandlerOptions) *JSONHandler {
	h := &JSONHandler{w: w, mu: &sync.Mutex{}, level: slog.LevelInfo, indent: indent}
	if opts != nil {
		if opts.Level != nil {
			h.level = opts.Level
		}
		h.addSource = opts.AddSource
	}
	return h
}

func (h *JSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *JSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	payload := map[string]any{
		"time":  when.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	if h.addSource && r.PC != 0 {
		payload["source"] = source(r.PC)
	}

	levels := make([]map[string]any, 0, len(h.groups)+1)
	levels = append(levels, payload)
	for _, g := range h.groups {
		child := map[string]any{}
		levels[len(levels)-1][g] = child
		levels = append(levels, child)
	}
	for _, b := range h.attrs {
		put(levels[b.depth], b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		put(levels[len(levels)-1], a)
		return true
	})

	var b []byte
	var err error
	if h.indent {
		b, err = json.MarshalIndent(payload, "", "  ")
	} else {
		b, err = json.Marshal(payload)
	}
	if err != nil {
		b = []byte(`{"msg":` + strconv.Quote(r.Message) + `,"error":` + strconv.Quote(err.Error()) + `}`)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *JSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]boundAttr(nil), h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, boundAttr{depth: len(h.groups), attr: a})
	}
	return &clone
}

func (h *JSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func put(dst map[string]any, a slog.Attr) {
	v := a.Value.Resolve()
	if a.Key == "" && v.Kind() != slog.KindGroup {
		return
	}
	switch v.Kind() {
	case slog.KindGroup:
		target := dst
		if a.Key != "" {
			target = map[string]any{}
			dst[a.Key] = target
		}
		for _, ga := range v.Group() {
			put(target, ga)
		}
	case slog.KindDuration:
		dst[a.Key] = v.Duration().String()
	case slog.KindTime:
		dst[a.Key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[a.Key] = err.Error()
			return
		}
		dst[a.Key] = v.Any()
	default:
		dst[a.Key] = v.Any()
	}
}

func source(pc uintptr) string {
	f, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if f.File == "" {
		return ""
	}
	file := f.File
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return file + ":" + strconv.Itoa(f.Line)
}
