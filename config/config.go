// Package config loads text field settings from a TOML file.
//
// A missing file yields defaults. Durations are written as strings such as
// "250ms" or "10s".
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/iw2rmb/textfield"
	"github.com/iw2rmb/textfield/compose"
	"github.com/iw2rmb/textfield/dedupe"
	"github.com/iw2rmb/textfield/notify"
	"github.com/iw2rmb/textfield/token"
)

// Duration is a time.Duration read from a string.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	Notify      NotifyConfig      `toml:"notify"`
	Composition CompositionConfig `toml:"composition"`
	Dedupe      DedupeConfig      `toml:"dedupe"`
	Tokens      TokensConfig      `toml:"tokens"`
	Markup      MarkupConfig      `toml:"markup"`
	Log         LogConfig         `toml:"log"`
	Plugins     []PluginConfig    `toml:"plugins"`
}

type NotifyConfig struct {
	Throttle Duration `toml:"throttle"`
}

type CompositionConfig struct {
	Watchdog Duration `toml:"watchdog"`
	Settle   Duration `toml:"settle"`
}

type DedupeConfig struct {
	Window Duration `toml:"window"`
	// Classifier is "ranges" (default) or "wide".
	Classifier string `toml:"classifier"`
	// Ranges are hex code point ranges like "3000-303F".
	Ranges []string `toml:"ranges"`
}

type TokensConfig struct {
	Single string `toml:"single"`
	Pair   string `toml:"pair"`
}

type MarkupConfig struct {
	// Format is "markdown" (default) or "plain".
	Format string `toml:"format"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// PluginConfig binds a Lua script to a key. Exactly one of Script and File
// is set. Requires, when set, is the minimum library version the script
// was written against.
type PluginConfig struct {
	Name     string `toml:"name"`
	Key      string `toml:"key"`
	Script   string `toml:"script"`
	File     string `toml:"file"`
	Requires string `toml:"requires"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Notify:      NotifyConfig{Throttle: Duration(notify.DefaultWindow)},
		Composition: CompositionConfig{Watchdog: Duration(compose.DefaultWatchdog), Settle: Duration(compose.DefaultSettle)},
		Dedupe:      DedupeConfig{Window: Duration(dedupe.DefaultWindow), Classifier: "ranges"},
		Tokens:      TokensConfig{Single: token.DefaultSingle, Pair: token.DefaultPair},
		Markup:      MarkupConfig{Format: "markdown"},
		Log:         LogConfig{Level: "info"},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// Relative plugin files are resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	cfg, err := parse(path, data)
	if err != nil {
		return Config{}, err
	}
	dir := filepath.Dir(path)
	for i, p := range cfg.Plugins {
		if p.File != "" && !filepath.IsAbs(p.File) {
			cfg.Plugins[i].File = filepath.Join(dir, p.File)
		}
	}
	return cfg, nil
}

// Parse reads TOML data on top of the defaults.
func Parse(data []byte) (Config, error) {
	return parse("<input>", data)
}

func parse(source string, data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return Config{}, perr
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", source, err)
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	durations := []struct {
		name string
		d    Duration
	}{
		{"notify.throttle", c.Notify.Throttle},
		{"composition.watchdog", c.Composition.Watchdog},
		{"composition.settle", c.Composition.Settle},
		{"dedupe.window", c.Dedupe.Window},
	}
	for _, d := range durations {
		if d.d < 0 {
			return invalidf("%s must not be negative", d.name)
		}
	}

	switch c.Dedupe.Classifier {
	case "", "ranges", "wide":
	default:
		return invalidf("dedupe.classifier %q", c.Dedupe.Classifier)
	}
	if _, err := dedupe.ParseRanges(c.Dedupe.Ranges); err != nil {
		return invalidf("dedupe.ranges: %v", err)
	}

	if err := c.Syntax().Validate(); err != nil {
		return invalidf("tokens: %v", err)
	}

	switch c.Markup.Format {
	case "", "markdown", "plain":
	default:
		return invalidf("markup.format %q", c.Markup.Format)
	}

	if c.Log.Level != "" {
		if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
			return invalidf("log.level: %v", err)
		}
	}

	seen := make(map[string]bool, len(c.Plugins))
	for i, p := range c.Plugins {
		if p.Name == "" {
			return invalidf("plugins[%d]: missing name", i)
		}
		if seen[p.Name] {
			return invalidf("plugins[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = true
		if (p.Script == "") == (p.File == "") {
			return invalidf("plugin %q: set exactly one of script and file", p.Name)
		}
		if p.Requires != "" && !textfield.IsSemver(p.Requires) {
			return invalidf("plugin %q: requires %q is not a semver version", p.Name, p.Requires)
		}
	}
	return nil
}

// Syntax returns the configured token syntax.
func (c Config) Syntax() token.Syntax {
	return token.Syntax{Single: c.Tokens.Single, Pair: c.Tokens.Pair}
}

// LogLevel returns the configured level, or info.
func (c Config) LogLevel() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
