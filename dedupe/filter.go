// Package dedupe drops spurious repeated wide-character insertions.
//
// Some input pipelines deliver a full-width punctuation key twice in quick
// succession. The filter suppresses the second copy when it repeats the
// character just inserted, at the same or an adjacent index, within a short
// window. It is a heuristic: a user genuinely typing "，，" fast enough is
// filtered too.
package dedupe

import (
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/internal/clock"
)

const DefaultWindow = 120 * time.Millisecond

type Config struct {
	Window     time.Duration // default: DefaultWindow
	Classifier Classifier    // default: RangeClassifier(DefaultRanges)
	Clock      clock.Clock
	Logger     *zap.Logger
}

type Filter struct {
	mu       sync.Mutex
	window   time.Duration
	classify Classifier
	clock    clock.Clock
	log      *zap.Logger

	has      bool
	lastRune rune
	lastIdx  int
	lastAt   time.Time
}

func New(cfg Config) *Filter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Classifier == nil {
		cfg.Classifier = RangeClassifier(DefaultRanges)
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Filter{
		window:   cfg.Window,
		classify: cfg.Classifier,
		clock:    cfg.Clock,
		log:      cfg.Logger.Named("dedupe"),
	}
}

// Allow decides whether inserting text at char index idx should proceed.
// prev is the character immediately before idx in the document, or 0 at
// the start. An allowed insertion is remembered for the next call.
func (f *Filter) Allow(text string, idx int, prev rune) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return true
	}

	if n == 1 {
		r, _ := utf8.DecodeRuneInString(text)
		if f.duplicateLocked(r, idx, prev, now) {
			f.log.Debug("dropped duplicate input",
				zap.String("text", text),
				zap.Int("index", idx),
				zap.Duration("since", now.Sub(f.lastAt)))
			return false
		}
	}

	last, _ := utf8.DecodeLastRuneInString(text)
	f.has = true
	f.lastRune = last
	f.lastIdx = idx + n - 1
	f.lastAt = now
	return true
}

// Reset forgets the remembered insertion.
func (f *Filter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.has = false
	f.lastRune = 0
	f.lastIdx = 0
	f.lastAt = time.Time{}
}

func (f *Filter) duplicateLocked(r rune, idx int, prev rune, now time.Time) bool {
	if !f.has || !f.classify(r) {
		return false
	}
	if r != prev || r != f.lastRune {
		return false
	}
	if d := idx - f.lastIdx; d < -1 || d > 1 {
		return false
	}
	return now.Sub(f.lastAt) <= f.window
}
