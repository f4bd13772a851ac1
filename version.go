// Package textfield bridges a structured rich-text document to the
// string-indexed API of a plain text field. See the field package.
package textfield

import (
	_ "embed"
	"strings"

	"golang.org/x/mod/semver"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the library version in SemVer form, without the leading v.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns Version as a git tag.
func VersionTag() string {
	return "v" + Version()
}

// IsSemver reports whether v is a full SemVer 2.0.0 version without a
// leading v. Shorthands such as "1.2" are rejected.
func IsSemver(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || v[0] == 'v' {
		return false
	}
	tag := "v" + v
	if !semver.IsValid(tag) {
		return false
	}
	core := strings.TrimSuffix(strings.TrimSuffix(tag, semver.Build(tag)), semver.Prerelease(tag))
	return strings.Count(core, ".") == 2
}

// Satisfies reports whether this library is at least version required. An
// empty requirement is always satisfied; an invalid one never is.
func Satisfies(required string) bool {
	required = strings.TrimSpace(required)
	if required == "" {
		return true
	}
	if !IsSemver(required) {
		return false
	}
	return semver.Compare(VersionTag(), "v"+required) >= 0
}
