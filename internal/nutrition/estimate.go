// ABOUTME: Keyword-based nutrient estimator for free-text meal descriptions.
// ABOUTME: Every matching rule adds its nutrients; nothing is deduplicated.
package nutrition

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/harperreed/nourish/internal/models"
)

// Rule adds Nutrients when any of its keywords appears in the text.
type Rule struct {
	Name      string
	Keywords  []string
	Nutrients models.Nutrients
}

// Matches reports whether any keyword is a substring of lower-cased text.
func (r Rule) Matches(lower string) bool {
	for _, k := range r.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Rules is the fixed keyword table.
var Rules = []Rule{
	{
		Name:      "chicken",
		Keywords:  []string{"chicken", "breast"},
		Nutrients: models.Nutrients{Calories: 165, Protein: 31, Fat: 3.6},
	},
	{
		Name:      "salad",
		Keywords:  []string{"salad", "lettuce"},
		Nutrients: models.Nutrients{Calories: 20, Fiber: 2, VitaminC: 15},
	},
	{
		Name:      "rice",
		Keywords:  []string{"rice", "brown rice"},
		Nutrients: models.Nutrients{Calories: 220, Carbs: 45, Protein: 5, Fiber: 3.5},
	},
	{
		Name:      "avocado",
		Keywords:  []string{"avocado"},
		Nutrients: models.Nutrients{Calories: 160, Fat: 15, Fiber: 7, Potassium: 485},
	},
}

const waterKeyword = "water"

var digits = regexp.MustCompile(`\d+`)

// Estimate returns the nutrients described by text.
// When the text mentions water, the first run of digits is added as ml of water.
func Estimate(text string) models.Nutrients {
	lower := strings.ToLower(text)

	var n models.Nutrients
	for _, r := range Rules {
		if r.Matches(lower) {
			n = n.Add(r.Nutrients)
		}
	}

	if strings.Contains(lower, waterKeyword) {
		if m := digits.FindString(lower); m != "" {
			if ml, err := strconv.ParseFloat(m, 64); err == nil {
				n.Water += ml
			}
		}
	}

	return n
}

// Matched returns the names of the rules that fire for text.
func Matched(text string) []string {
	lower := strings.ToLower(text)
	var names []string
	for _, r := range Rules {
		if r.Matches(lower) {
			names = append(names, r.Name)
		}
	}
	return names
}
