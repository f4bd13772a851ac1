package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/iw2rmb/textfield/markup"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notify.Throttle.Std() != 250*time.Millisecond {
		t.Fatalf("throttle: got %v", cfg.Notify.Throttle.Std())
	}
	if cfg.Composition.Watchdog.Std() != 10*time.Second || cfg.Composition.Settle.Std() != 30*time.Millisecond {
		t.Fatalf("composition: got %+v", cfg.Composition)
	}
	if cfg.Dedupe.Window.Std() != 120*time.Millisecond {
		t.Fatalf("dedupe window: got %v", cfg.Dedupe.Window.Std())
	}
	if cfg.Tokens.Single != "lb-i" || cfg.Tokens.Pair != "lb-blank" {
		t.Fatalf("tokens: got %+v", cfg.Tokens)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "textfield.toml")
	data := `
[notify]
throttle = "100ms"

[composition]
watchdog = "5s"

[dedupe]
classifier = "ranges"
ranges = ["FF00-FFEF"]

[tokens]
pair = "blank"

[markup]
format = "plain"

[log]
level = "debug"

[[plugins]]
name = "stamp"
key = "ctrl+t"
file = "stamp.lua"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Notify.Throttle.Std() != 100*time.Millisecond {
		t.Fatalf("throttle: got %v", cfg.Notify.Throttle.Std())
	}
	if cfg.Composition.Watchdog.Std() != 5*time.Second || cfg.Composition.Settle.Std() != 30*time.Millisecond {
		t.Fatalf("composition: got %+v", cfg.Composition)
	}
	if cfg.Tokens.Single != "lb-i" || cfg.Tokens.Pair != "blank" {
		t.Fatalf("tokens: got %+v", cfg.Tokens)
	}
	if cfg.LogLevel() != zapcore.DebugLevel {
		t.Fatalf("log level: got %v", cfg.LogLevel())
	}
	if len(cfg.Plugins) != 1 || cfg.Plugins[0].File != filepath.Join(dir, "stamp.lua") {
		t.Fatalf("plugins: got %+v", cfg.Plugins)
	}

	fc, err := cfg.FieldConfig(nil)
	if err != nil {
		t.Fatalf("FieldConfig: %v", err)
	}
	if fc.Throttle != 100*time.Millisecond || fc.Watchdog != 5*time.Second {
		t.Fatalf("field config: got %+v", fc)
	}
	if fc.Classifier('，') != true || fc.Classifier('。') != false {
		t.Fatalf("classifier does not follow configured ranges")
	}
	if _, ok := fc.Serializer.(markup.Plain); !ok {
		t.Fatalf("serializer: got %T, want markup.Plain", fc.Serializer)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		invalid bool
	}{
		{name: "syntax", data: "[notify\nthrottle = 1"},
		{name: "unknown key", data: "[notify]\nspeed = \"1s\""},
		{name: "bad duration", data: "[notify]\nthrottle = \"soon\""},
		{name: "negative duration", data: "[dedupe]\nwindow = \"-1s\"", invalid: true},
		{name: "bad classifier", data: "[dedupe]\nclassifier = \"tall\"", invalid: true},
		{name: "bad range", data: "[dedupe]\nranges = [\"zz\"]", invalid: true},
		{name: "token collision", data: "[tokens]\nsingle = \"x\"\npair = \"X\"", invalid: true},
		{name: "bad level", data: "[log]\nlevel = \"loud\"", invalid: true},
		{name: "plugin without source", data: "[[plugins]]\nname = \"p\"", invalid: true},
		{name: "plugin with both sources", data: "[[plugins]]\nname = \"p\"\nscript = \"x\"\nfile = \"y\"", invalid: true},
		{name: "plugin bad requires", data: "[[plugins]]\nname = \"p\"\nscript = \"x\"\nrequires = \"v1\"", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if tt.invalid {
				if !errors.Is(err, ErrInvalid) {
					t.Fatalf("got %v, want ErrInvalid", err)
				}
				return
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("got %T (%v), want *ParseError", err, err)
			}
		})
	}
}

func TestParseError_Position(t *testing.T) {
	_, err := Parse([]byte("a = 1\nb = = 2\n"))
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if perr.Line != 2 {
		t.Fatalf("line: got %d, want 2", perr.Line)
	}
}
