package service

import (
	"reflect"
	"testing"

	"github.com/volunteer-hub/internal/models"
)

func TestCalculateMatchScoreCauseOverlap(t *testing.T) {
	profile := &models.Profile{CausesInterested: []string{"Education", "hunger"}}
	opp := &models.Opportunity{
		IsActive:   true,
		CauseAreas: []string{"education", "Hunger", "environment"},
	}

	result := CalculateMatchScore(profile, opp)
	if result.Score != 40 {
		t.Errorf("Expected 40 for two cause matches, got %d", result.Score)
	}
	if len(result.Reasons) != 1 || result.Reasons[0] != "Matches your interests: education, hunger" {
		t.Errorf("Unexpected reasons: %v", result.Reasons)
	}
}

func TestCalculateMatchScoreAllSignals(t *testing.T) {
	profile := &models.Profile{
		CausesInterested:      []string{"education"},
		Skills:                []string{"Teaching"},
		PrefersVirtual:        true,
		AvailabilityHoursWeek: 10,
	}
	opp := &models.Opportunity{
		IsActive:        true,
		CauseAreas:      []string{"education"},
		SkillsNeeded:    []string{"teaching"},
		IsVirtual:       true,
		HoursPerWeekMax: 4,
	}

	result := CalculateMatchScore(profile, opp)
	// 20 cause + 15 skill + 10 virtual + 10 availability
	if result.Score != 55 {
		t.Errorf("Expected 55, got %d", result.Score)
	}
	wantReasons := []string{
		"Matches your interests: education",
		"Uses your skills: teaching",
		"Remote opportunity",
		"Fits your 10hrs/week availability",
	}
	if !reflect.DeepEqual(result.Reasons, wantReasons) {
		t.Errorf("Unexpected reasons: %v", result.Reasons)
	}
}

func TestCalculateMatchScoreCap(t *testing.T) {
	profile := &models.Profile{
		CausesInterested: []string{"a", "b", "c", "d", "e", "f"},
	}
	opp := &models.Opportunity{
		IsActive:   true,
		CauseAreas: []string{"a", "b", "c", "d", "e", "f"},
	}

	result := CalculateMatchScore(profile, opp)
	if result.Score != 100 {
		t.Errorf("Expected capped score of 100, got %d", result.Score)
	}
}

func TestCalculateMatchScoreNoSignals(t *testing.T) {
	profile := &models.Profile{
		CausesInterested:      []string{"environment"},
		AvailabilityHoursWeek: 2,
	}
	opp := &models.Opportunity{
		IsActive:        true,
		CauseAreas:      []string{"education"},
		HoursPerWeekMax: 10,
	}

	result := CalculateMatchScore(profile, opp)
	if result.Score != 0 {
		t.Errorf("Expected 0, got %d", result.Score)
	}
	if result.Reasons != nil {
		t.Errorf("Expected no reasons, got %v", result.Reasons)
	}
}

func TestCalculateMatchScoreAvailabilityRequiresKnownMax(t *testing.T) {
	profile := &models.Profile{AvailabilityHoursWeek: 40}
	opp := &models.Opportunity{IsActive: true, HoursPerWeekMax: 0}

	if result := CalculateMatchScore(profile, opp); result.Score != 0 {
		t.Errorf("Expected no availability bonus for unknown commitment, got %d", result.Score)
	}
}

func TestLowerIntersect(t *testing.T) {
	got := lowerIntersect(
		[]string{"Teaching", "COOKING", "teaching", "driving"},
		[]string{"teaching", "Cooking"},
	)
	want := []string{"teaching", "cooking"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	if out := lowerIntersect(nil, []string{"a"}); out != nil {
		t.Errorf("Expected nil for empty input, got %v", out)
	}
}
