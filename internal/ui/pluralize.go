package ui

// Pluralize selects plural when count > 1, singular when count == 1, and zero otherwise.
func Pluralize(count int, plural, singular, zero string) string {
	switch {
	case count > 1:
		return plural
	case count == 1:
		return singular
	default:
		return zero
	}
}
