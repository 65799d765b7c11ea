package scanner

import "path"

// defaultExcludes are directory names never traversed: version-control
// metadata and OS/system trees that cannot hold user projects.
var defaultExcludes = map[string]bool{
	".git":     true,
	".svn":     true,
	".hg":      true,
	"Library":  true,
	"Windows":  true,
	"System32": true,
	"AppData":  true,
}

// ShouldExclude reports whether the entry called name must be skipped during
// traversal. The built-in list always applies; each pattern is a glob matched
// case-sensitively against the bare name, and a leading '.' needs no special
// treatment (so "*" also matches ".cache"). Malformed patterns match nothing.
func ShouldExclude(name string, patterns []string) bool {
	if defaultExcludes[name] {
		return true
	}

	for _, pattern := range patterns {
		if matched, err := path.Match(pattern, name); err == nil && matched {
			return true
		}
	}

	return false
}

// DefaultExcludes returns the built-in excluded names.
func DefaultExcludes() []string {
	names := make([]string, 0, len(defaultExcludes))
	for name := range defaultExcludes {
		names = append(names, name)
	}
	return names
}
