// The code in this package is derivative of https://gitlab.com/greyxor/slogor.
// Mount of this source code is governed by a MIT license that can be found
// at https://gitlab.com/greyxor/slogor/-/blob/main/LICENSE?ref_type=heads.

package slogpretty

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/tigerwill90/retrie/internal/ansi"
)

const (
	maxBufferSize     = 16 << 10 // 16384
	initialBufferSize = 1024
)

var _ slog.Handler = (*Handler)(nil)

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, initialBufferSize)
		return &b
	},
}

func freeBuf(b *[]byte) {
	if cap(*b) <= maxBufferSize {
		*b = (*b)[:0]
		bufPool.Put(b)
	}
}

// Handler writes human-readable, colored records prefixed with [RETRIE]. Records at error level
// or above go to a dedicated writer, so that failures stand out when the regular output is
// redirected.
type Handler struct {
	out    io.Writer
	errOut io.Writer
	level  slog.Leveler
	// Dotted prefix of the open groups, applied to record attributes.
	prefix string
	// Attributes added with WithAttrs, already formatted.
	attrs []byte
}

// NewWithWriters returns a Handler writing regular records to out and errors to errOut, enabled
// from level. Both may be the same writer.
func NewWithWriters(out, errOut io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	lo := &lockedWriter{w: out}
	le := lo
	if errOut != out {
		le = &lockedWriter{w: errOut}
	}
	return &Handler{
		out:    lo,
		errOut: le,
		level:  level,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	bufp := bufPool.Get().(*[]byte)
	buf := *bufp
	defer func() {
		*bufp = buf
		freeBuf(bufp)
	}()

	buf = append(buf, "[RETRIE] "...)
	if !record.Time.IsZero() {
		buf = append(buf, ansi.Faint...)
		buf = record.Time.AppendFormat(buf, time.DateTime)
		buf = append(buf, ansi.NormalIntensity...)
		buf = append(buf, ' ')
	}

	buf = append(buf, "| "...)
	buf = appendLevel(buf, record.Level)
	buf = append(buf, " | "...)
	buf = append(buf, record.Message...)
	buf = append(buf, " | "...)

	buf = append(buf, h.attrs...)
	record.Attrs(func(attr slog.Attr) bool {
		buf = appendAttr(buf, h.prefix, attr)
		return true
	})

	// The last attribute, or the separator, always ends with a space.
	buf[len(buf)-1] = '\n'

	w := h.out
	if record.Level >= slog.LevelError {
		w = h.errOut
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = h.attrs[:len(h.attrs):len(h.attrs)]
	for _, attr := range attrs {
		h2.attrs = appendAttr(h2.attrs, h.prefix, attr)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

// appendLevel appends the level name, colored and padded to the width of the longest one.
func appendLevel(buf []byte, level slog.Level) []byte {
	var color string
	switch {
	case level >= slog.LevelError:
		color = ansi.FgRed
	case level >= slog.LevelWarn:
		color = ansi.FgYellow
	case level >= slog.LevelInfo:
		color = ansi.FgGreen
	default:
		color = ansi.FgMagenta
	}

	name := level.String()
	buf = append(buf, color...)
	buf = append(buf, name...)
	buf = append(buf, ansi.Reset...)
	for i := len(name); i < len("DEBUG"); i++ {
		buf = append(buf, ' ')
	}
	return buf
}

// appendAttr appends attr followed by a space. Group values are flattened into dotted keys.
func appendAttr(buf []byte, prefix string, attr slog.Attr) []byte {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return buf
	}

	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range attr.Value.Group() {
			buf = appendAttr(buf, prefix, a)
		}
		return buf
	}

	buf = append(buf, ansi.Faint...)
	buf = append(buf, ansi.Bold...)
	buf = append(buf, prefix...)
	buf = append(buf, attr.Key...)
	buf = append(buf, '=')
	buf = append(buf, ansi.NormalIntensity...)

	// Event categories and counts are highlighted so that a summary can be read at a glance.
	switch attr.Key {
	case "category":
		buf = append(buf, ansi.BgBlue...)
		buf = append(buf, ' ')
		buf = append(buf, attr.Value.String()...)
		buf = append(buf, ' ')
	case "count":
		buf = append(buf, ansi.BgMagenta...)
		buf = append(buf, ' ')
		buf = append(buf, attr.Value.String()...)
		buf = append(buf, ' ')
	case "tag":
		buf = append(buf, ansi.FgYellow...)
		buf = append(buf, attr.Value.String()...)
	case "pid", "tid":
		buf = append(buf, ansi.FgBlue...)
		buf = append(buf, attr.Value.String()...)
	case "error":
		buf = append(buf, ansi.FgRed...)
		buf = append(buf, attr.Value.String()...)
	default:
		buf = append(buf, ansi.FgCyan...)
		buf = append(buf, attr.Value.String()...)
	}
	buf = append(buf, ansi.Reset...)
	return append(buf, ' ')
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
