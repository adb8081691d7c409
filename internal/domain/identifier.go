package domain

// ValidID reports whether s is a well-formed opaque identifier: 1-64
// characters of [A-Za-z0-9_-]. Covers both hex object ids and the
// engine's synthetic ids. The scoring engine may hand back ids that fail
// this check; callers drop those silently rather than erroring.
func ValidID(s string) bool {
	if len(s) == 0 || len(s) > 64 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
