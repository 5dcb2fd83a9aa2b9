// Package ignore implements gitignore-style path filtering for project file
// enumeration: the driver's file walk consults a Matcher before handing a
// path to the frontend so that vendor trees, build output and the engine's
// own working directory never become translation units.
package ignore

import (
	"path/filepath"
	"regexp"
	"strings"
)

type rule struct {
	re       *regexp.Regexp
	pattern  string
	negated  bool
	dirOnly  bool
	anchored bool
}

// Matcher applies gitignore-like rules with "last matching rule wins"
// semantics.
type Matcher struct {
	rules []rule
}

// defaultExcludes are paths no Go project run should ever descend into:
// version control metadata, vendored dependencies and the engine's own
// scratch directory.
var defaultExcludes = []string{
	".git/",
	".cpgo/",
	"vendor/",
	"node_modules/",
}

// NewMatcher builds a matcher from user-supplied ignore lines, layered on
// top of defaultExcludes. User rules are applied after the defaults, so a
// leading "!" can resurrect a default-excluded path.
func NewMatcher(userRules []string) *Matcher {
	lines := make([]string, 0, len(defaultExcludes)+len(userRules))
	lines = append(lines, defaultExcludes...)
	lines = append(lines, userRules...)

	m := &Matcher{rules: make([]rule, 0, len(lines))}
	for _, line := range lines {
		if r, ok := parseRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// ShouldIgnore reports whether relPath should be excluded from the project
// walk.
func (m *Matcher) ShouldIgnore(relPath string, isDir bool) bool {
	relPath = normalizePath(relPath)
	ignored := false
	for _, r := range m.rules {
		if r.matches(relPath, isDir) {
			ignored = !r.negated
		}
	}
	return ignored
}

func parseRule(line string) (rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return rule{}, false
	}

	r := rule{}
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = strings.TrimPrefix(line, "!")
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = strings.TrimPrefix(line, "/")
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	line = normalizePath(line)
	if line == "" {
		return rule{}, false
	}
	r.pattern = line
	r.re = regexp.MustCompile("^" + globToRegex(line) + "$")
	return r, true
}

func (r rule) matches(relPath string, isDir bool) bool {
	if r.dirOnly {
		if r.matchesDirectory(relPath) {
			return true
		}
		return isDir && r.re.MatchString(filepath.Base(relPath))
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}

	if strings.Contains(r.pattern, "/") {
		if r.re.MatchString(relPath) {
			return true
		}
		parts := strings.Split(relPath, "/")
		for i := 1; i < len(parts); i++ {
			if r.re.MatchString(strings.Join(parts[i:], "/")) {
				return true
			}
		}
		return false
	}

	if r.re.MatchString(filepath.Base(relPath)) {
		return true
	}
	for _, segment := range strings.Split(relPath, "/") {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

func (r rule) matchesDirectory(relPath string) bool {
	prefix := r.pattern
	if !r.anchored {
		parts := strings.Split(relPath, "/")
		for i := range parts {
			if strings.Join(parts[:i+1], "/") == prefix {
				return true
			}
		}
		return false
	}
	return relPath == prefix || strings.HasPrefix(relPath, prefix+"/")
}

func globToRegex(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case ch == '?':
			b.WriteString("[^/]")
		case strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)):
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func normalizePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimPrefix(p, "/")
	return p
}
