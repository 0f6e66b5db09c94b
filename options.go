// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/retrie/blob/master/LICENSE.txt.

package retrie

import (
	"context"
	"fmt"
	"log/slog"
)

// Option configures a [Trie].
type Option interface {
	apply(*config) error
}

type config struct {
	handler slog.Handler
}

type optionFunc func(*config) error

func (o optionFunc) apply(c *config) error {
	return o(c)
}

// WithLogHandler sets the [slog.Handler] used to report pattern registrations. Registrations are
// logged at debug level. By default, nothing is logged.
func WithLogHandler(handler slog.Handler) Option {
	return optionFunc(func(c *config) error {
		if handler == nil {
			return fmt.Errorf("%w: log handler cannot be nil", ErrInvalidConfig)
		}
		c.handler = handler
		return nil
	})
}

// discardHandler drops every record.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
