package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/iw2rmb/textfield"
	"github.com/iw2rmb/textfield/config"
	"github.com/iw2rmb/textfield/editor"
	"github.com/iw2rmb/textfield/plugin"
)

const sample = `# Lesson

Fill in the [lb-blank]blank[/lb-blank] and press Tab for an indent marker.

- ctrl+b wraps the selection
- ctrl+o toggles a simulated composition
- ctrl+s submits, esc cancels, ctrl+c quits`

type model struct {
	editor  editor.Model
	plugins *plugin.Runtime
	log     *zap.Logger

	lastChange string
	changes    int
	status     string
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.editor = m.editor.SetSize(msg.Width, editorHeight(msg.Height))
		return m, nil
	case editor.ChangeMsg:
		m.changes++
		m.lastChange = msg.Text
		return m, nil
	case submitMsg:
		m.status = "submitted"
		return m, nil
	case cancelMsg:
		m.status = "cancelled"
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.editor.Destroy()
			m.plugins.Close()
			return m, tea.Quit
		case "ctrl+o":
			if m.editor.Field().Composing() {
				return m.forward(editor.CompositionEndMsg{})
			}
			return m.forward(editor.CompositionStartMsg{})
		}
		handled, err := m.plugins.RunKey(context.Background(), msg.String())
		if err != nil {
			m.log.Warn("plugin failed", zap.String("key", msg.String()), zap.Error(err))
			m.status = err.Error()
		}
		if handled {
			// Redraw whatever the script changed.
			return m.forward(nil)
		}
	}
	return m.forward(msg)
}

func (m model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m model) View() string {
	composing := "no"
	if m.editor.Field().Composing() {
		composing = "yes"
	}
	status := strings.Join([]string{
		"",
		fmt.Sprintf("changes: %d  bytes: %d  composing: %s  %s",
			m.changes, len(m.lastChange), composing, m.status),
	}, "\n")
	return m.editor.View() + status
}

type (
	submitMsg struct{}
	cancelMsg struct{}
)

func editorHeight(total int) int {
	h := total - 2
	if h < 0 {
		return 0
	}
	return h
}

func newLogger(path string, level zapcore.Level) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func run() error {
	var (
		configPath = flag.String("config", "textfield.toml", "path to the TOML configuration")
		logPath    = flag.String("log", "", "log file (overrides the configuration)")
		textPath   = flag.String("text", "", "Markdown file to edit")
		version    = flag.Bool("version", false, "print the version and exit")
	)
	flag.Parse()

	if *version {
		fmt.Println(textfield.VersionTag())
		return nil
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logPath != "" {
		cfg.Log.File = *logPath
	}
	log, err := newLogger(cfg.Log.File, cfg.LogLevel())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	text := sample
	if *textPath != "" {
		data, err := os.ReadFile(*textPath)
		if err != nil {
			return err
		}
		text = string(data)
	}

	fc, err := cfg.FieldConfig(log)
	if err != nil {
		return err
	}

	// Field callbacks may fire on timer goroutines; they reach the
	// program through Send once it exists.
	var prog atomic.Pointer[tea.Program]
	send := func(msg tea.Msg) {
		if p := prog.Load(); p != nil {
			p.Send(msg)
		}
	}
	fc.OnChange = editor.Notify(send)
	fc.OnSubmit = func() { send(submitMsg{}) }
	fc.OnCancel = func() { send(cancelMsg{}) }

	ed := editor.New(editor.Config{
		Text:         text,
		Field:        fc,
		ShowLineNums: true,
		Style:        editor.DefaultStyle(),
	})

	rt := plugin.New(ed.Field(), plugin.Options{Logger: log})
	if err := rt.LoadConfig(cfg.Plugins); err != nil {
		return err
	}
	log.Info("starting", zap.String("version", textfield.Version()), zap.Strings("plugins", rt.Names()))

	p := tea.NewProgram(model{editor: ed, plugins: rt, log: log}, tea.WithAltScreen(), tea.WithMouseCellMotion())
	prog.Store(p)
	_, err = p.Run()
	return err
}

func main() {
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
