package core

import "strings"

// DefaultCategories are always available and cannot be removed.
var DefaultCategories = []string{"Food", "Transport", "Bills", "Shopping", "Other"}

// Categories returns the combined list: defaults first, then custom entries in
// insertion order.
func Categories(custom []string) []string {
	out := make([]string, 0, len(DefaultCategories)+len(custom))
	out = append(out, DefaultCategories...)
	return append(out, custom...)
}

// ContainsFold reports whether list holds name, ignoring case.
func ContainsFold(list []string, name string) bool {
	for _, c := range list {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}

// NormalizeCategories trims custom names and drops blanks and entries that
// collide case-insensitively with a default or an earlier custom name.
func NormalizeCategories(custom []string) []string {
	out := make([]string, 0, len(custom))
	for _, c := range custom {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if ContainsFold(DefaultCategories, c) || ContainsFold(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}
