package models

import "testing"

func TestInsightStatusTransitions(t *testing.T) {
	cases := []struct {
		from    InsightStatus
		to      InsightStatus
		allowed bool
	}{
		{InsightNew, InsightViewed, true},
		{InsightNew, InsightDismissed, true},
		{InsightNew, InsightActedOn, false},
		{InsightNew, InsightNew, false},
		{InsightViewed, InsightActedOn, true},
		{InsightViewed, InsightDismissed, true},
		{InsightViewed, InsightNew, false},
		{InsightViewed, InsightViewed, false},
		{InsightActedOn, InsightNew, false},
		{InsightActedOn, InsightViewed, false},
		{InsightActedOn, InsightDismissed, false},
		{InsightDismissed, InsightNew, false},
		{InsightDismissed, InsightViewed, false},
		{InsightDismissed, InsightActedOn, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestInsightStatusValid(t *testing.T) {
	for _, s := range []InsightStatus{InsightNew, InsightViewed, InsightActedOn, InsightDismissed} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if InsightStatus("archived").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}

func TestProcessingStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ProcessingStatus
		to      ProcessingStatus
		allowed bool
	}{
		{StatementPending, StatementProcessing, true},
		{StatementPending, StatementCompleted, false},
		{StatementProcessing, StatementCompleted, true},
		{StatementProcessing, StatementRateLimited, true},
		{StatementProcessing, StatementFailed, true},
		{StatementProcessing, StatementPending, false},
		{StatementCompleted, StatementProcessing, false},
		{StatementCompleted, StatementFailed, false},
		{StatementRateLimited, StatementProcessing, false},
		{StatementFailed, StatementProcessing, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("food"); got != CategoryFood {
		t.Errorf("NormalizeCategory(food) = %s", got)
	}
	if got := NormalizeCategory("crypto"); got != CategoryOther {
		t.Errorf("NormalizeCategory(crypto) = %s, want other", got)
	}
	if got := NormalizeCategory(""); got != CategoryOther {
		t.Errorf("NormalizeCategory(empty) = %s, want other", got)
	}
}
