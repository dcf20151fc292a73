package rating

import (
	"testing"

	"menu-bot/internal/family"
)

func TestWeightedScoreKidWeighting(t *testing.T) {
	ratings := []Rating{
		{UserClass: family.ClassAdult, Score: 2},
		{UserClass: family.ClassKid, Score: 5},
	}

	// (2*1.0 + 5*1.5) / (1.0 + 1.5) = 9.5 / 2.5 = 3.8
	got := WeightedScore(ratings, 0)
	if got.Weighted != 3.8 {
		t.Errorf("weighted = %v, want 3.8", got.Weighted)
	}
	if got.TotalRatings != 2 {
		t.Errorf("total = %d, want 2", got.TotalRatings)
	}
}

func TestWeightedScoreNoRatings(t *testing.T) {
	// An unrated recipe extrapolates from its kid-friendly score.
	got := WeightedScore(nil, 0.5)
	if got.Weighted != 1.5 {
		t.Errorf("weighted = %v, want 1.5 (0.5 * 3)", got.Weighted)
	}
	if got.TotalRatings != 0 {
		t.Errorf("total = %d, want 0", got.TotalRatings)
	}
}

func TestWeightedScoreAdultsOnly(t *testing.T) {
	ratings := []Rating{
		{UserClass: family.ClassAdult, Score: 4},
		{UserClass: family.ClassAdult, Score: 2},
	}
	got := WeightedScore(ratings, 1.0)
	if got.Weighted != 3.0 {
		t.Errorf("weighted = %v, want 3.0", got.Weighted)
	}
}

func TestAverage(t *testing.T) {
	yes, no := true, false
	ratings := []Rating{
		{UserClass: family.ClassAdult, Score: 4, WouldRepeat: &yes},
		{UserClass: family.ClassAdult, Score: 2, WouldRepeat: &no},
		{UserClass: family.ClassKid, Score: 5, WouldRepeat: &yes},
		{UserClass: family.ClassKid, Score: 3},
	}

	avg := Average(ratings)
	if avg.AdultAvg != 3.0 || avg.AdultCount != 2 {
		t.Errorf("adult avg = %v (%d), want 3.0 (2)", avg.AdultAvg, avg.AdultCount)
	}
	if avg.KidAvg != 4.0 || avg.KidCount != 2 {
		t.Errorf("kid avg = %v (%d), want 4.0 (2)", avg.KidAvg, avg.KidCount)
	}
	if avg.WouldRepeatPct != 0.5 {
		t.Errorf("would repeat = %v, want 0.5", avg.WouldRepeatPct)
	}
}

func TestAverageEmpty(t *testing.T) {
	avg := Average(nil)
	if avg != (Averages{}) {
		t.Errorf("empty average = %+v, want zero value", avg)
	}
}
