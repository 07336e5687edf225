package common

import "regexp"

var usernamePattern = regexp.MustCompile(`^[a-z1-9_.\-]+$`)

// ValidUsername reports whether name is made only of lower-case latin letters,
// the digits 1-9, '_', '.' and '-'.
func ValidUsername(name string) bool {
	return usernamePattern.MatchString(name)
}
