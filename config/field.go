package config

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/dedupe"
	"github.com/iw2rmb/textfield/field"
	"github.com/iw2rmb/textfield/markup"
)

// FieldConfig converts the settings to a field.Config. Callbacks, clock
// and logger are left for the caller.
func (c Config) FieldConfig(log *zap.Logger) (field.Config, error) {
	if err := c.Validate(); err != nil {
		return field.Config{}, err
	}
	fc := field.Config{
		Throttle:     c.Notify.Throttle.Std(),
		Watchdog:     c.Composition.Watchdog.Std(),
		Settle:       c.Composition.Settle.Std(),
		DedupeWindow: c.Dedupe.Window.Std(),
		Syntax:       c.Syntax(),
		Logger:       log,
	}

	switch c.Dedupe.Classifier {
	case "wide":
		fc.Classifier = dedupe.WideClassifier
	default:
		ranges := dedupe.DefaultRanges
		if len(c.Dedupe.Ranges) > 0 {
			parsed, err := dedupe.ParseRanges(c.Dedupe.Ranges)
			if err != nil {
				return field.Config{}, invalidf("dedupe.ranges: %v", err)
			}
			ranges = parsed
		}
		fc.Classifier = dedupe.RangeClassifier(ranges)
	}

	if c.Markup.Format == "plain" {
		fc.Parser, fc.Serializer = markup.Plain{}, markup.Plain{}
	} else {
		fc.Parser, fc.Serializer = markup.Codec{}, markup.Codec{}
	}
	return fc, nil
}
