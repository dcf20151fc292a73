package seasonal

import (
	"fmt"
	"strings"
	"time"
)

// produceKeywords marks ingredients that count as produce when scoring
// seasonal alignment. Non-produce ingredients are ignored by the score.
var produceKeywords = []string{
	"vegetable", "fruit", "tomato", "pepper", "onion", "garlic",
	"lettuce", "spinach", "kale", "carrot", "potato", "squash",
	"apple", "berry", "melon", "corn", "bean", "pea", "herb",
	"basil", "cilantro", "cucumber", "zucchini", "broccoli",
}

// IsInSeason reports whether an ingredient matches any current peak
// produce item, case-insensitive, by substring in either direction.
func (p *Provider) IsInSeason(ingredient string, date time.Time) bool {
	lower := strings.ToLower(ingredient)
	for _, name := range p.PeakProduceNames(date) {
		produce := strings.ToLower(name)
		if strings.Contains(lower, produce) || strings.Contains(produce, lower) {
			return true
		}
	}
	return false
}

// SeasonalScore is the share of produce-like ingredients currently in
// season, in [0, 1]. Lists with no produce score a neutral 0.5.
func (p *Provider) SeasonalScore(ingredients []string, date time.Time) float64 {
	if len(ingredients) == 0 {
		return 0.5
	}

	var produce []string
	for _, ing := range ingredients {
		lower := strings.ToLower(ing)
		for _, kw := range produceKeywords {
			if strings.Contains(lower, kw) {
				produce = append(produce, ing)
				break
			}
		}
	}
	if len(produce) == 0 {
		return 0.5
	}

	inSeason := 0
	for _, ing := range produce {
		if p.IsInSeason(ing, date) {
			inSeason++
		}
	}
	return float64(inSeason) / float64(len(produce))
}

// Swap suggests in-season stand-ins for an out-of-season ingredient.
type Swap struct {
	Original    string
	Suggestions []string
	Reason      string
}

// swapTable maps an out-of-season ingredient keyword to per-season
// alternatives.
var swapTable = map[string]map[string][]string{
	"tomatoes":  {"winter": {"canned tomatoes", "sun-dried tomatoes"}},
	"corn":      {"winter": {"frozen corn"}, "spring": {"peas"}},
	"zucchini":  {"winter": {"butternut squash"}, "fall": {"winter squash"}},
	"berries":   {"winter": {"frozen berries", "apples"}},
	"peaches":   {"winter": {"canned peaches", "apples"}, "spring": {"strawberries"}},
	"asparagus": {"winter": {"broccoli"}, "fall": {"brussels sprouts"}},
}

// SuggestSwaps proposes seasonal alternatives for out-of-season
// ingredients that have a known substitution.
func (p *Provider) SuggestSwaps(ingredients []string, date time.Time) []Swap {
	season := p.CurrentSeason(date)
	var swaps []Swap

	for _, ing := range ingredients {
		if p.IsInSeason(ing, date) {
			continue
		}
		lower := strings.ToLower(ing)
		for key, seasons := range swapTable {
			alternatives, ok := seasons[season]
			if !ok || !strings.Contains(lower, key) {
				continue
			}
			swaps = append(swaps, Swap{
				Original:    ing,
				Suggestions: alternatives,
				Reason:      fmt.Sprintf("%s is not in season in %s", ing, season),
			})
			break
		}
	}
	return swaps
}
