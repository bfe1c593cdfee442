package models

import "testing"

func TestGoalProgressPercentage(t *testing.T) {
	testCases := []struct {
		target  float64
		current float64
		want    float64
	}{
		{1000, 0, 0},
		{1000, 250, 25},
		{1000, 1000, 100},
		{1000, 1500, 100}, // capped
		{0, 500, 0},       // meaningless target reads as 0
		{-10, 500, 0},
	}

	for _, tc := range testCases {
		g := Goal{TargetAmount: tc.target, CurrentAmount: tc.current}
		if got := g.ProgressPercentage(); got != tc.want {
			t.Errorf("ProgressPercentage(target=%v, current=%v) = %v, want %v",
				tc.target, tc.current, got, tc.want)
		}
	}
}

func TestGoalRemainingAmount(t *testing.T) {
	g := Goal{TargetAmount: 1000, CurrentAmount: 300}
	if got := g.RemainingAmount(); got != 700 {
		t.Errorf("RemainingAmount() = %v, want 700", got)
	}

	g.CurrentAmount = 1200
	if got := g.RemainingAmount(); got != 0 {
		t.Errorf("RemainingAmount() overfunded = %v, want 0", got)
	}
}

func TestTransactionTagList(t *testing.T) {
	tx := Transaction{}
	tx.SetTagList([]string{"food", "weekly"})
	if tx.Tags != "food,weekly" {
		t.Errorf("Tags = %q, want food,weekly", tx.Tags)
	}

	got := tx.TagList()
	if len(got) != 2 || got[0] != "food" || got[1] != "weekly" {
		t.Errorf("TagList() = %v, want [food weekly]", got)
	}

	tx.Tags = " food , , weekly "
	got = tx.TagList()
	if len(got) != 2 || got[0] != "food" || got[1] != "weekly" {
		t.Errorf("TagList() with blanks = %v, want [food weekly]", got)
	}

	tx.Tags = ""
	if got := tx.TagList(); got != nil {
		t.Errorf("TagList() empty = %v, want nil", got)
	}
}
