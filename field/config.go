package field

import (
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/dedupe"
	"github.com/iw2rmb/textfield/internal/clock"
	"github.com/iw2rmb/textfield/markup"
	"github.com/iw2rmb/textfield/token"
)

// Config configures a Field. Zero values select defaults.
type Config struct {
	// Throttle is the minimum spacing of OnChange calls.
	Throttle time.Duration
	// Watchdog bounds a composition session whose end never arrives.
	Watchdog time.Duration
	// Settle delays the change flush after a composition ends.
	Settle time.Duration
	// DedupeWindow is the duplicate-input window.
	DedupeWindow time.Duration

	Syntax     token.Syntax
	Classifier dedupe.Classifier

	// Parser and Serializer default to markup.Codec.
	Parser     Parser
	Serializer Serializer

	// OnChange receives the serialized document. It may run on a timer
	// goroutine and must not call Submit, Cancel or Destroy synchronously.
	OnChange func(text string)
	OnSubmit func()
	OnCancel func()

	Clock  clock.Clock
	Logger *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Parser == nil {
		c.Parser = markup.Codec{}
	}
	if c.Serializer == nil {
		c.Serializer = markup.Codec{}
	}
	if c.Clock == nil {
		c.Clock = clock.Real()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}
