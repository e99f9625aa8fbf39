package logline

import (
	"regexp"
	"strconv"
	"strings"
)

// Category is the 1..7 classification bucket of an automation log line.
type Category int

const (
	CategorySequence Category = iota + 1
	CategoryIndependent
	CategorySwipe
	CategorySolo
	CategoryDirectionModule
	CategoryColorModule
	CategoryImageModule
)

// MinCategory and MaxCategory bound the valid category range.
const (
	MinCategory = CategorySequence
	MaxCategory = CategoryImageModule
)

var categoryColors = [...]string{
	CategorySequence:        "#ef4444", // red
	CategoryIndependent:     "#f59e0b", // amber
	CategorySwipe:           "#06b6d4", // cyan
	CategorySolo:            "#22c55e", // green
	CategoryDirectionModule: "#3b82f6", // blue
	CategoryColorModule:     "#f97316", // orange
	CategoryImageModule:     "#a855f7", // purple
}

var categoryNames = [...]string{
	CategorySequence:        "sequence",
	CategoryIndependent:     "independent",
	CategorySwipe:           "swipe",
	CategorySolo:            "solo",
	CategoryDirectionModule: "direction-module",
	CategoryColorModule:     "color-module",
	CategoryImageModule:     "image-module",
}

// Valid reports whether c is within 1..7.
func (c Category) Valid() bool {
	return c >= MinCategory && c <= MaxCategory
}

// Color returns the fixed display color. Out-of-range values use the
// sequence color.
func (c Category) Color() string {
	if !c.Valid() {
		return categoryColors[CategorySequence]
	}
	return categoryColors[c]
}

// Name returns the short legend name, e.g. "swipe".
func (c Category) Name() string {
	if !c.Valid() {
		return strconv.Itoa(int(c))
	}
	return categoryNames[c]
}

// Label returns the numbered legend label, e.g. "3.swipe".
func (c Category) Label() string {
	return strconv.Itoa(int(c)) + "." + c.Name()
}

// Categories lists every valid category in order.
func Categories() []Category {
	out := make([]Category, 0, int(MaxCategory))
	for c := MinCategory; c <= MaxCategory; c++ {
		out = append(out, c)
	}
	return out
}

var (
	reExplicitCategory = regexp.MustCompile(`\bcat=(\d)\b`)
	reModuleWord       = regexp.MustCompile(`\bmodule\b`)
)

type categoryRule struct {
	category Category
	match    func(line string) bool
}

func containsAny(keywords ...string) func(string) bool {
	return func(line string) bool {
		for _, kw := range keywords {
			if strings.Contains(line, kw) {
				return true
			}
		}
		return false
	}
}

// categoryRules are tried in order after the explicit cat=N token; the first
// match wins.
var categoryRules = []categoryRule{
	{CategoryImageModule, containsAny("image_module")},
	{CategoryColorModule, containsAny("color_module")},
	{CategoryDirectionModule, func(line string) bool {
		return reModuleWord.MatchString(line) &&
			!strings.Contains(line, "color_module") &&
			!strings.Contains(line, "image_module")
	}},
	{CategorySolo, containsAny("soloVerify", "solo_verify", "solo_main", "solo_item")},
	{CategorySwipe, containsAny("swipe")},
	{CategoryIndependent, containsAny("independent", "독립")},
}

// Classify maps a raw line to its category. An in-range cat=N token wins
// outright; otherwise keyword rules apply and the default is sequence.
func Classify(line string) Category {
	if m := reExplicitCategory.FindStringSubmatch(line); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil && Category(v).Valid() {
			return Category(v)
		}
	}
	for _, rule := range categoryRules {
		if rule.match(line) {
			return rule.category
		}
	}
	return CategorySequence
}
