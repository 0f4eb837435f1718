package tui

import (
	"io"
	"time"

	"github.com/Veraticus/the-budget-must-balance/internal/model"
	"github.com/Veraticus/the-budget-must-balance/internal/service"
)

// Config holds TUI configuration.
type Config struct {
	Ledger service.Ledger
	Now    func() time.Time
	Input  io.Reader
	Output io.Writer
	Theme  model.Theme
	Year   int
	Month  time.Month
	Width  int
	Height int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Now:    time.Now,
		Theme:  model.ThemeLight,
		Width:  100,
		Height: 40,
	}
}

// WithLedger sets the record store the dashboard reads.
func WithLedger(l service.Ledger) Option {
	return func(c *Config) {
		c.Ledger = l
	}
}

// WithClock overrides the clock used for the current month and day arithmetic.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

// WithMonth opens the dashboard on a specific month instead of the current one.
func WithMonth(year int, month time.Month) Option {
	return func(c *Config) {
		c.Year = year
		c.Month = month
	}
}

// WithTheme sets the theme shown until the stored preference has loaded.
func WithTheme(theme model.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithIO redirects the program's input and output.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
	}
}
