package grocery

import (
	"strings"

	"go.uber.org/zap"

	"menu-bot/internal/recipe"
)

// nameModifiers are descriptive prefix words stripped before aggregation
// ("fresh tomatoes" and "chopped tomatoes" are the same line item).
var nameModifiers = []string{
	"fresh", "dried", "ground", "chopped", "diced",
	"minced", "sliced", "shredded", "grated", "crushed",
	"large", "medium", "small", "ripe", "raw", "cooked",
}

// protectedNames are compound nouns whose leading word looks like a
// modifier but is part of the product name itself.
var protectedNames = map[string]bool{
	"ground beef":    true,
	"ground turkey":  true,
	"ground pork":    true,
	"ground chicken": true,
	"ground lamb":    true,
}

// nameSubstitution is a singular/plural and synonym rewrite, applied by
// substring match in declaration order after modifier stripping.
type nameSubstitution struct {
	old string
	new string
}

var nameSubstitutions = []nameSubstitution{
	{"garlic cloves", "garlic"},
	{"cloves garlic", "garlic"},
	{"clove garlic", "garlic"},
	{"onions", "onion"},
	{"tomatoes", "tomato"},
	{"potatoes", "potato"},
	{"carrots", "carrot"},
	{"peppers", "pepper"},
	{"eggs", "egg"},
	{"lemons", "lemon"},
	{"limes", "lime"},
}

// unitTable maps unit spellings onto canonical aggregation units.
// Unknown units pass through unchanged.
var unitTable = map[string]string{
	"tablespoon":  "tbsp",
	"tablespoons": "tbsp",
	"tbsps":       "tbsp",
	"teaspoon":    "tsp",
	"teaspoons":   "tsp",
	"tsps":        "tsp",
	"cups":        "cup",
	"ounce":       "oz",
	"ounces":      "oz",
	"pound":       "lb",
	"pounds":      "lb",
	"lbs":         "lb",
	"clove":       "cloves",
	"piece":       "each",
	"pieces":      "each",
	"":            "each",
}

// Normalizer canonicalizes ingredient names and units into aggregation
// keys. It is a best-effort heuristic, not a lemmatizer: false merges
// are accepted, and every rewrite is logged so they stay auditable.
type Normalizer struct {
	categories map[string]CategoryRule
	log        *zap.Logger
}

// NewNormalizer creates a Normalizer using the routing table's category
// keyword lists for inference.
func NewNormalizer(cfg *Config, log *zap.Logger) *Normalizer {
	return &Normalizer{categories: cfg.Categories, log: log}
}

// NormalizeName canonicalizes an ingredient name: lowercase, trim, strip
// leading modifier words, then apply the synonym table.
func (n *Normalizer) NormalizeName(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return name
	}

	stripped := stripModifierPrefix(name)
	for _, sub := range nameSubstitutions {
		if strings.Contains(stripped, sub.old) {
			stripped = strings.ReplaceAll(stripped, sub.old, sub.new)
		}
	}
	stripped = strings.TrimSpace(stripped)

	if stripped != name {
		n.log.Debug("normalized ingredient name",
			zap.String("raw", raw),
			zap.String("normalized", stripped),
		)
	}
	return stripped
}

func stripModifierPrefix(name string) string {
	for {
		if protectedNames[name] {
			return name
		}
		rest, found := trimOneModifier(name)
		if !found || rest == "" {
			return name
		}
		name = rest
	}
}

func trimOneModifier(name string) (string, bool) {
	for _, mod := range nameModifiers {
		if strings.HasPrefix(name, mod+" ") {
			return strings.TrimSpace(strings.TrimPrefix(name, mod+" ")), true
		}
	}
	return name, false
}

// NormalizeUnit canonicalizes a unit string for aggregation.
func (n *Normalizer) NormalizeUnit(raw string) string {
	unit := strings.ToLower(strings.TrimSpace(raw))
	if mapped, ok := unitTable[unit]; ok {
		return mapped
	}
	return unit
}

// InferCategory scans the category keyword lists and returns the first
// category whose keyword contains (or is contained by) the name.
// Pantry is the default when nothing matches.
func (n *Normalizer) InferCategory(normalizedName string) recipe.Category {
	name := strings.ToLower(normalizedName)
	for _, cat := range categoryOrder {
		rule, ok := n.categories[string(cat)]
		if !ok {
			continue
		}
		for _, item := range rule.Items {
			keyword := strings.ToLower(item)
			if strings.Contains(name, keyword) || strings.Contains(keyword, name) {
				return cat
			}
		}
	}
	return recipe.CategoryPantry
}
