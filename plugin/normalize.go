package plugin

import "regexp"

// scopedName matches scoped package style references like @scope/plugin-foo.
// The capture group is the canonical short name.
var scopedName = regexp.MustCompile(`^@[^/]+/plugin-(.+)$`)

// Normalize maps a plugin reference to its canonical short name: the scoped
// form @<scope>/plugin-<short> collapses to <short>, every other string is
// returned unchanged. Two references are equivalent when their normalized
// forms match.
func Normalize(name string) string {
	if m := scopedName.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	return name
}
