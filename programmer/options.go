package programmer

import "github.com/flashworks/go-nandprog/protocol"

// DefaultWriteTimeoutPolls is the default number of busy polls before an
// in-flight page write is declared dead.
const DefaultWriteTimeoutPolls = 0x1000000

// Config holds the programmer configuration.
type Config struct {
	// Logger is used for logging operations (optional)
	Logger Logger

	// Indicators drives the activity lights (optional)
	Indicators Indicators

	// WriteTimeoutPolls is the busy-poll ceiling for an in-flight page
	// write, counted across pipeline waits and poller ticks
	WriteTimeoutPolls uint32

	// MaxPageSize is the page-assembly buffer capacity. Selecting a chip
	// with a larger page size fails.
	MaxPageSize uint32
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Indicators:        nopIndicators{},
		WriteTimeoutPolls: DefaultWriteTimeoutPolls,
		MaxPageSize:       protocol.MaxPageSize,
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithLogger sets a logger for programmer operations.
//
// Example:
//
//	prog := programmer.New(t, d, chips, programmer.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithIndicators sets the activity indicators.
func WithIndicators(ind Indicators) Option {
	return func(c *Config) {
		if ind != nil {
			c.Indicators = ind
		}
	}
}

// WithWriteTimeout sets the busy-poll ceiling for in-flight page writes.
//
// Example:
//
//	prog := programmer.New(t, d, chips, programmer.WithWriteTimeout(1000))
func WithWriteTimeout(polls uint32) Option {
	return func(c *Config) {
		if polls > 0 {
			c.WriteTimeoutPolls = polls
		}
	}
}

// WithMaxPageSize sets the page-assembly buffer capacity in bytes.
func WithMaxPageSize(size uint32) Option {
	return func(c *Config) {
		if size > 0 {
			c.MaxPageSize = size
		}
	}
}
