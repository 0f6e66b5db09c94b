package logcat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/tigerwill90/retrie"
)

// DefaultPreambleSize is the number of lines kept before each event when no size is configured.
const DefaultPreambleSize = 15

// ParserOption configures a [Parser].
type ParserOption interface {
	apply(*parserConfig) error
}

type parserConfig struct {
	year         int
	logger       *slog.Logger
	handler      EventHandler
	preambleSize int
	noDefaults   bool
}

func defaultParserConfig() *parserConfig {
	return &parserConfig{
		year:         time.Now().Year(),
		preambleSize: DefaultPreambleSize,
	}
}

type parserOptionFunc func(*parserConfig) error

func (o parserOptionFunc) apply(c *parserConfig) error {
	return o(c)
}

// WithYear sets the year used to timestamp lines, as logcat does not print it. Default to the current year.
func WithYear(year int) ParserOption {
	return parserOptionFunc(func(c *parserConfig) error {
		if year < 1 || year > 9999 {
			return fmt.Errorf("%w: year %d out of range", retrie.ErrInvalidConfig, year)
		}
		c.year = year
		return nil
	})
}

// WithLogger sets the logger used to report parsing progress. Records are discarded by default.
func WithLogger(logger *slog.Logger) ParserOption {
	return parserOptionFunc(func(c *parserConfig) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", retrie.ErrInvalidConfig)
		}
		c.logger = logger
		return nil
	})
}

// WithEventHandler registers a handler notified every time an event is complete.
func WithEventHandler(handler EventHandler) ParserOption {
	return parserOptionFunc(func(c *parserConfig) error {
		if handler == nil {
			return fmt.Errorf("%w: event handler cannot be nil", retrie.ErrInvalidConfig)
		}
		c.handler = handler
		return nil
	})
}

// WithPreambleSize sets how many lines preceding an event are kept. A size of 0 disables preambles.
func WithPreambleSize(size int) ParserOption {
	return parserOptionFunc(func(c *parserConfig) error {
		if size < 0 {
			return fmt.Errorf("%w: preamble size cannot be negative", retrie.ErrInvalidConfig)
		}
		c.preambleSize = size
		return nil
	})
}

// WithoutDefaultPatterns starts the parser with no pattern at all. Only patterns added with
// [Parser.AddPattern] and [Parser.AddJavaCrashTag] are classified.
func WithoutDefaultPatterns() ParserOption {
	return parserOptionFunc(func(c *parserConfig) error {
		c.noDefaults = true
		return nil
	})
}
