// Package plugin runs Lua scripts against a text field.
//
// Scripts see a global "field" table whose functions mirror the field's
// string-indexed API (offsets are 0-based characters):
//
//	field.value() -> string
//	field.set_value(text)
//	field.len() -> number
//	field.selection() -> start, end
//	field.set_selection(start, end)
//	field.set_range_text(text [, start, end])
//	field.insert_at_cursor(text)
//	field.insert_markup(text [, start, end])
//	field.last_chars(n) -> string
//	field.focus()
//
// Each call is one edit on the field. Scripts run sandboxed: no io, os,
// debug or module loading.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/iw2rmb/textfield"
	"github.com/iw2rmb/textfield/config"
)

const DefaultTimeout = 2 * time.Second

var (
	ErrClosed       = errors.New("plugin: runtime closed")
	ErrNotFound     = errors.New("plugin: not found")
	ErrIncompatible = errors.New("plugin: requires a newer version")
)

// Field is the part of *field.Field scripts can reach.
type Field interface {
	Value() string
	SetValue(text string)
	Len() int
	SelectionRange() (start, end int)
	SetSelectionRange(start, end int)
	SetRangeText(text string)
	SetRangeTextAt(text string, start, end int)
	InsertAtCursor(text string)
	InsertMarkupBetween(start, end int, text string)
	LastNChars(n int) string
	Focus()
}

type Options struct {
	Timeout time.Duration // default: DefaultTimeout
	Logger  *zap.Logger
}

type script struct {
	name string
	key  string
	fn   *lua.LFunction
}

// Runtime owns one Lua state. gopher-lua states are not goroutine-safe;
// the mutex serializes every entry into Lua.
type Runtime struct {
	mu      sync.Mutex
	L       *lua.LState
	target  Field
	timeout time.Duration
	log     *zap.Logger

	scripts map[string]*script
	keys    map[string]string
	closed  bool
}

func New(target Field, opt Options) *Runtime {
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	r := &Runtime{
		target:  target,
		timeout: opt.Timeout,
		log:     opt.Logger.Named("plugin"),
		scripts: make(map[string]*script),
		keys:    make(map[string]string),
	}
	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.L.SetGlobal("print", r.L.NewFunction(r.print))
	r.registerField()
	return r
}

func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Load compiles source as plugin name, optionally bound to key. Loading a
// name again replaces it.
func (r *Runtime) Load(name, key, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	fn, err := r.L.LoadString(source)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	if old, ok := r.scripts[name]; ok && old.key != "" {
		delete(r.keys, old.key)
	}
	r.scripts[name] = &script{name: name, key: key, fn: fn}
	if key != "" {
		r.keys[key] = name
	}
	r.log.Debug("plugin loaded", zap.String("name", name), zap.String("key", key))
	return nil
}

// LoadFile loads the script at path.
func (r *Runtime) LoadFile(name, key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	return r.Load(name, key, string(data))
}

// LoadConfig loads every configured plugin.
func (r *Runtime) LoadConfig(plugins []config.PluginConfig) error {
	for _, p := range plugins {
		if !textfield.Satisfies(p.Requires) {
			return fmt.Errorf("plugin %s: %w: %s > %s", p.Name, ErrIncompatible, p.Requires, textfield.Version())
		}
		var err error
		if p.File != "" {
			err = r.LoadFile(p.Name, p.Key, p.File)
		} else {
			err = r.Load(p.Name, p.Key, p.Script)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Run executes plugin name. The call is cancelled when ctx ends or the
// runtime timeout passes, whichever is first.
func (r *Runtime) Run(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	s, ok := r.scripts[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	r.L.SetContext(ctx)
	defer r.L.RemoveContext()

	start := time.Now()
	top := r.L.GetTop()
	r.L.Push(s.fn)
	err := r.L.PCall(0, 0, nil)
	r.L.SetTop(top)
	if err != nil {
		r.log.Warn("plugin failed", zap.String("name", name), zap.Error(err))
		return fmt.Errorf("plugin %s: %w", name, err)
	}
	r.log.Debug("plugin ran", zap.String("name", name), zap.Duration("took", time.Since(start)))
	return nil
}

// RunKey runs the plugin bound to key. It reports false when no plugin is
// bound.
func (r *Runtime) RunKey(ctx context.Context, key string) (bool, error) {
	r.mu.Lock()
	name, ok := r.keys[key]
	r.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, r.Run(ctx, name)
}

// Keys returns the bound keys in sorted order.
func (r *Runtime) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.keys))
	for k := range r.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Names returns the loaded plugin names in sorted order.
func (r *Runtime) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.scripts))
	for n := range r.scripts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Runtime) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

func (r *Runtime) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	r.log.Info("plugin output", zap.Strings("args", parts))
	return 0
}
