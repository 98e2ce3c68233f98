// Package glob matches storage paths against shell-like patterns.
package glob

import (
	"strings"

	"github.com/gobwas/glob"
)

type Glob interface {
	Match(name string) bool
}

type globber struct {
	glob glob.Glob
}

func MustCompile(pattern string, separators ...rune) Glob {
	return &globber{glob: glob.MustCompile(pattern, separators...)}
}

func Compile(pattern string, separators ...rune) (Glob, error) {
	g, err := glob.Compile(pattern, separators...)
	if err != nil {
		return nil, err
	}

	return &globber{glob: g}, nil
}

func (g *globber) Match(name string) bool {
	return g.glob.Match(name)
}

// Prefix returns the literal part of the pattern in front of the first
// meta character.
func Prefix(pattern string) string {
	index := strings.IndexAny(pattern, "*?[{")
	if index == -1 {
		return pattern
	}

	return strings.Clone(pattern[:index])
}

func IsPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Set matches a name against any of several patterns.
type Set []Glob

// CompileSet compiles all patterns with '/' as separator.
func CompileSet(patterns ...string) (Set, error) {
	set := make(Set, 0, len(patterns))

	for _, p := range patterns {
		g, err := Compile(p, '/')
		if err != nil {
			return nil, err
		}

		set = append(set, g)
	}

	return set, nil
}

// Match returns true if any pattern matches. An empty set matches nothing.
func (s Set) Match(name string) bool {
	for _, g := range s {
		if g.Match(name) {
			return true
		}
	}

	return false
}
