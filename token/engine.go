package token

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/posmap"
)

// Snapshot is a versioned document snapshot. Version must change whenever
// content changes and only then.
type Snapshot interface {
	posmap.Snapshot
	ID() string
	Version() uint64
}

type resultKey struct {
	id      string
	version uint64
}

// Engine keeps the Result of the latest snapshot. A snapshot whose content
// did not change since the last analysis (same ID and content version)
// reuses the previous Result unmodified.
type Engine struct {
	syntax Syntax
	log    *zap.Logger

	key    resultKey
	valid  bool
	result Result

	analyses uint64
}

func NewEngine(syntax Syntax, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{syntax: normalizeSyntax(syntax), log: log.Named("token")}
}

func (e *Engine) Syntax() Syntax { return e.syntax }

// Result returns the analysis of snap, recomputing only when its content
// differs from the last analyzed snapshot.
func (e *Engine) Result(snap Snapshot) Result {
	key := resultKey{id: snap.ID(), version: snap.Version()}
	if e.valid && e.key == key {
		return e.result
	}
	e.result = Analyze(snap, e.syntax)
	e.key = key
	e.valid = true
	e.analyses++
	e.log.Debug("tokens analyzed",
		zap.String("doc", key.id),
		zap.Uint64("version", key.version),
		zap.Int("singles", len(e.result.Singles)),
		zap.Int("pairs", len(e.result.Pairs)))
	return e.result
}

// Invalidate drops the cached result.
func (e *Engine) Invalidate() { e.valid = false }

// Analyses returns how many times the engine scanned a snapshot.
func (e *Engine) Analyses() uint64 { return e.analyses }
