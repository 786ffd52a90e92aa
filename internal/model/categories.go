package model

import "sort"

// Categories maps csTimer scramble type codes to display names.
type Categories map[string]string

var defaultCategories = map[string]string{
	"333":    "3x3x3 Rubik's Cube",
	"3x3":    "3x3x3 Rubik's Cube",
	"222so":  "2x2x2 Single Official",
	"333oh":  "3x3x3 One-Handed",
	"333ni":  "3x3x3 No Inspection",
	"skbso":  "Skewb Single Official",
	"sqrs":   "Square-1",
	"pyrso":  "Pyraminx Single Official",
	"444wca": "4x4x4 WCA Official",
	"333fm":  "3x3x3 Fewest Moves",
	"555wca": "5x5x5 WCA Official",
	"mgmp":   "Megaminx Practice",
	"2gen":   "2-Generator Scramble",
	"r3ni":   "Roux 3x3x3 No Inspection",
	"ll":     "Last Layer Practice",
	"easyxc": "Easy Cross Practice",
	"r3":     "Roux 3x3x3 Practice",
}

// DefaultCategories returns a fresh copy of the built-in csTimer mapping.
func DefaultCategories() Categories {
	out := make(Categories, len(defaultCategories))
	for code, name := range defaultCategories {
		out[code] = name
	}
	return out
}

// WithOverrides returns a copy of c with the given entries added or replaced.
// Empty names are ignored.
func (c Categories) WithOverrides(overrides map[string]string) Categories {
	out := make(Categories, len(c)+len(overrides))
	for code, name := range c {
		out[code] = name
	}
	for code, name := range overrides {
		if name == "" {
			continue
		}
		out[code] = name
	}
	return out
}

// Name returns the display name for code. Unknown codes map to themselves.
func (c Categories) Name(code string) string {
	if name, ok := c[code]; ok {
		return name
	}
	return code
}

// Codes returns the known codes in sorted order.
func (c Categories) Codes() []string {
	codes := make([]string, 0, len(c))
	for code := range c {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
