// Package palette assigns display colors to categories. The mapping is pure:
// default categories have fixed colors and any other name is hashed into a
// secondary palette, so the same name always gets the same color.
package palette

import "hash/fnv"

// Color is a CSS hex color token.
type Color string

var defaults = map[string]Color{
	"Food":      "#f97316",
	"Transport": "#3b82f6",
	"Bills":     "#ef4444",
	"Shopping":  "#a855f7",
	"Other":     "#6b7280",
}

// Custom is the palette used for categories outside the default table.
var Custom = []Color{
	"#10b981", // emerald
	"#06b6d4", // cyan
	"#ec4899", // pink
	"#eab308", // yellow
	"#6366f1", // indigo
	"#f43f5e", // rose
	"#14b8a6", // teal
	"#f59e0b", // amber
}

// ColorFor returns the color token of category. The default lookup is
// case-sensitive, matching how categories are grouped.
func ColorFor(category string) Color {
	if c, ok := defaults[category]; ok {
		return c
	}
	return Custom[Index(category)]
}

// Index is the position of category in the Custom palette.
func Index(category string) int {
	h := fnv.New32a()
	h.Write([]byte(category))
	return int(h.Sum32() % uint32(len(Custom)))
}
