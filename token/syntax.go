package token

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	DefaultSingle = "lb-i"
	DefaultPair   = "lb-blank"
)

// Syntax names the bracket-delimited tokens: Single is written "[name]",
// Pair is written "[name]...[/name]". Matching is case-insensitive.
type Syntax struct {
	Single string
	Pair   string
}

func DefaultSyntax() Syntax {
	return Syntax{Single: DefaultSingle, Pair: DefaultPair}
}

func normalizeSyntax(s Syntax) Syntax {
	if strings.TrimSpace(s.Single) == "" {
		s.Single = DefaultSingle
	}
	if strings.TrimSpace(s.Pair) == "" {
		s.Pair = DefaultPair
	}
	return s
}

// Validate reports names that cannot form a token.
func (s Syntax) Validate() error {
	for _, name := range []string{s.Single, s.Pair} {
		if strings.ContainsAny(name, "[]/\n") {
			return fmt.Errorf("token: invalid name %q", name)
		}
	}
	if s.Single != "" && strings.EqualFold(s.Single, s.Pair) {
		return fmt.Errorf("token: single and pair names collide: %q", s.Single)
	}
	return nil
}

// SingleToken returns the literal text of a single token.
func (s Syntax) SingleToken() string { return "[" + normalizeSyntax(s).Single + "]" }

// OpenToken returns the literal opening delimiter of a paired token.
func (s Syntax) OpenToken() string { return "[" + normalizeSyntax(s).Pair + "]" }

// CloseToken returns the literal closing delimiter of a paired token.
func (s Syntax) CloseToken() string { return "[/" + normalizeSyntax(s).Pair + "]" }

type matchers struct {
	single *regexp.Regexp
	pair   *regexp.Regexp
}

func (s Syntax) compile() matchers {
	s = normalizeSyntax(s)
	single := regexp.QuoteMeta(s.Single)
	pair := regexp.QuoteMeta(s.Pair)
	return matchers{
		single: regexp.MustCompile(`(?i)\[` + single + `\]`),
		pair:   regexp.MustCompile(`(?i)\[` + pair + `\]|\[/` + pair + `\]`),
	}
}
