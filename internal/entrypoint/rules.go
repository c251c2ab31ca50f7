package entrypoint

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// RuleSet is a compiled pair of include and exclude glob lists.
type RuleSet struct {
	include []string
	exclude []string
}

// Compile validates every pattern once. Patterns use doublestar syntax and
// are matched against slash separated relative paths.
func Compile(include, exclude []string) (*RuleSet, error) {
	for _, group := range [][]string{include, exclude} {
		for _, pat := range group {
			if _, err := doublestar.Match(pat, ""); err != nil {
				return nil, fmt.Errorf("invalid glob pattern %q: %w", pat, err)
			}
		}
	}
	return &RuleSet{
		include: append([]string(nil), include...),
		exclude: append([]string(nil), exclude...),
	}, nil
}

// Matches reports whether rel is selected: at least one include pattern
// matches and no exclude pattern does. An empty include list matches nothing.
func (r *RuleSet) Matches(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range r.exclude {
		if matched, _ := doublestar.Match(pat, normalized); matched {
			return false
		}
	}
	for _, pat := range r.include {
		if matched, _ := doublestar.Match(pat, normalized); matched {
			return true
		}
	}
	return false
}

// ExcludesDir reports whether every path below dir is excluded, which holds
// when an exclude pattern of the form "prefix/**" has a prefix matching dir.
func (r *RuleSet) ExcludesDir(dir string) bool {
	normalized := filepath.ToSlash(dir)
	for _, pat := range r.exclude {
		prefix, ok := strings.CutSuffix(pat, "/**")
		if !ok || prefix == "" {
			continue
		}
		if matched, _ := doublestar.Match(prefix, normalized); matched {
			return true
		}
	}
	return false
}
