package logging

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Formats accepted by Setup.
const (
	FormatText   = "text"
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Setup picks the klog output. "text" keeps klog's own format; "json" and
// "pretty" send every klog call through a JSONHandler writing to w.
func Setup(format string, w io.Writer) error {
	switch format {
	case "", FormatText:
		return nil
	case FormatJSON, FormatPretty:
		h := NewJSONHandler(w, format == FormatPretty, &slog.HandlerOptions{Level: slog.LevelDebug})
		klog.SetSlogLogger(slog.New(h))
		return nil
	}
	return errors.Errorf("unknown log format %q, want one of %s, %s, %s", format, FormatText, FormatJSON, FormatPretty)
}
