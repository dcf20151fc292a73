package seasonal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `
region: ann_arbor_mi
timezone: America/Detroit
seasons:
  spring:
    months: [3, 4, 5]
    peak_produce:
      - name: asparagus
        months: [4, 5]
      - name: peas
        months: [5]
  summer:
    months: [6, 7, 8]
    peak_produce:
      - name: tomato
        months: [7, 8]
      - name: zucchini
        months: [6, 7, 8]
      - name: sweet corn
        months: [7, 8]
  fall:
    months: [9, 10, 11]
    peak_produce:
      - name: apple
        months: [9, 10, 11]
      - name: squash
        months: [9, 10, 11]
  winter:
    months: [12, 1, 2]
    peak_produce:
      - name: potato
        months: [12, 1, 2]
seasonal_meal_suggestions:
  summer:
    - corn and tomato salad night
  winter:
    - root vegetable pot roast
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seasonal.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(writeTestConfig(t, testYAML))
	if err != nil {
		t.Fatalf("NewProvider failed: %v", err)
	}
	return p
}

func date(month time.Month) time.Time {
	return time.Date(2026, month, 15, 12, 0, 0, 0, time.UTC)
}

func TestCurrentSeason(t *testing.T) {
	p := newTestProvider(t)

	cases := []struct {
		month time.Month
		want  string
	}{
		{time.January, "winter"},
		{time.April, "spring"},
		{time.July, "summer"},
		{time.October, "fall"},
		{time.December, "winter"},
	}
	for _, c := range cases {
		if got := p.CurrentSeason(date(c.month)); got != c.want {
			t.Errorf("CurrentSeason(%s) = %q, want %q", c.month, got, c.want)
		}
	}
}

func TestPeakProduceFiltersByMonth(t *testing.T) {
	p := newTestProvider(t)

	// June is summer but tomatoes do not peak until July.
	june := p.PeakProduceNames(date(time.June))
	for _, name := range june {
		if name == "tomato" {
			t.Error("tomato listed as peak in June")
		}
	}

	july := p.PeakProduceNames(date(time.July))
	found := false
	for _, name := range july {
		if name == "tomato" {
			found = true
		}
	}
	if !found {
		t.Errorf("tomato missing from July peak produce: %v", july)
	}
}

func TestIsInSeason(t *testing.T) {
	p := newTestProvider(t)

	july := date(time.July)
	if !p.IsInSeason("cherry tomatoes", july) {
		t.Error("cherry tomatoes should match peak tomato in July")
	}
	if !p.IsInSeason("corn", july) {
		t.Error("corn should match peak sweet corn in July")
	}
	if p.IsInSeason("tomato", date(time.January)) {
		t.Error("tomato should be out of season in January")
	}
}

func TestSeasonalScore(t *testing.T) {
	p := newTestProvider(t)
	july := date(time.July)

	// Non-produce lists score neutral.
	if got := p.SeasonalScore([]string{"flour", "salt", "olive oil"}, july); got != 0.5 {
		t.Errorf("non-produce score = %v, want 0.5", got)
	}
	if got := p.SeasonalScore(nil, july); got != 0.5 {
		t.Errorf("empty score = %v, want 0.5", got)
	}

	// One of two produce items in season.
	got := p.SeasonalScore([]string{"tomato", "apple", "salt"}, july)
	if got != 0.5 {
		t.Errorf("score = %v, want 0.5 (1 of 2 produce in season)", got)
	}

	if got := p.SeasonalScore([]string{"tomato", "zucchini"}, july); got != 1.0 {
		t.Errorf("all-in-season score = %v, want 1.0", got)
	}
}

func TestSuggestSwaps(t *testing.T) {
	p := newTestProvider(t)

	swaps := p.SuggestSwaps([]string{"tomatoes", "potato"}, date(time.January))
	if len(swaps) != 1 {
		t.Fatalf("got %d swaps, want 1: %v", len(swaps), swaps)
	}
	if swaps[0].Original != "tomatoes" {
		t.Errorf("swap original = %q, want tomatoes", swaps[0].Original)
	}
	if len(swaps[0].Suggestions) == 0 {
		t.Error("swap has no suggestions")
	}
}

func TestMealSuggestions(t *testing.T) {
	p := newTestProvider(t)

	summer := p.MealSuggestions(date(time.July))
	if len(summer) != 1 || summer[0] != "corn and tomato salad night" {
		t.Errorf("summer suggestions = %v", summer)
	}
	if got := p.MealSuggestions(date(time.April)); len(got) != 0 {
		t.Errorf("spring suggestions = %v, want none configured", got)
	}
}

func TestSeasonalContext(t *testing.T) {
	p := newTestProvider(t)

	sctx := p.SeasonalContext(date(time.October))
	if sctx.Season != "fall" {
		t.Errorf("season = %q, want fall", sctx.Season)
	}
	if sctx.Month != "October" {
		t.Errorf("month = %q, want October", sctx.Month)
	}
	if len(sctx.PeakProduceNames) != 2 {
		t.Errorf("peak produce = %v, want apple and squash", sctx.PeakProduceNames)
	}
}

func TestValidationRejectsUncoveredMonths(t *testing.T) {
	bad := `
seasons:
  summer:
    months: [6, 7, 8]
    peak_produce:
      - name: tomato
        months: [7]
`
	if _, err := NewProvider(writeTestConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for uncovered months")
	}
}

func TestValidationRejectsBadMonth(t *testing.T) {
	bad := `
seasons:
  all:
    months: [1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 13]
`
	if _, err := NewProvider(writeTestConfig(t, bad)); err == nil {
		t.Fatal("expected validation error for month 13")
	}
}
