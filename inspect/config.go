package inspect

import (
	"os"

	"github.com/npillmayer/uax/uax11"
	"golang.org/x/term"
)

// DefaultWidth is the line width used if the output is not a terminal.
const DefaultWidth = 80

// Config holds parameters for rendering trees.
type Config struct {
	Width   int            // maximum line width, in fixed-width character positions
	Color   bool           // use colors for console output
	Context *uax11.Context // context for measuring character widths; may be nil
}

// DefaultConfig is used if a renderer is called without a configuration.
func DefaultConfig() *Config {
	return &Config{
		Width:   DefaultWidth,
		Context: uax11.LatinContext,
	}
}

// ConfigFromTerminal is a simple helper for creating a Config.
// It checks whether stdout is a terminal, and if so it reads the terminal's width
// and switches on colored output. The character width context is derived from
// the user environment.
func ConfigFromTerminal() *Config {
	config := DefaultConfig()
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		config.Color = true
		if w, _, err := term.GetSize(fd); err == nil {
			if w > 30 {
				config.Width = w - 2
			} else if w > 10 {
				config.Width = w
			} else {
				config.Width = 10
			}
		}
	}
	config.Context = uax11.ContextFromEnvironment()
	tracer().P("inspect", "console").Infof("setting line width to %d", config.Width)
	return config
}

func (c *Config) context() *uax11.Context {
	if c.Context == nil {
		return uax11.LatinContext
	}
	return c.Context
}
