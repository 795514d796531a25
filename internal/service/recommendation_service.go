package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/volunteer-hub/internal/models"
	"github.com/volunteer-hub/internal/storage"
)

const (
	// minMatchScore is the lowest score worth persisting.
	minMatchScore = 20
	// maxRecommendationsPerUser caps each regeneration run.
	maxRecommendationsPerUser = 10
	scoreCap                  = 100
)

// MatchScore is the scored outcome of comparing one profile against one
// opportunity.
type MatchScore struct {
	Score   int
	Reasons []string
}

// RecommendationService scores opportunities against profiles and manages
// the per-user recommendation lists.
type RecommendationService struct {
	recs *storage.RecommendationRepository
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(recs *storage.RecommendationRepository) *RecommendationService {
	return &RecommendationService{recs: recs}
}

// CalculateMatchScore scores a profile against an opportunity. Cause
// overlap weighs heaviest, then skills, then virtual and availability fit.
// The score is capped at 100.
func CalculateMatchScore(profile *models.Profile, opp *models.Opportunity) MatchScore {
	score := 0
	var reasons []string

	causeMatches := lowerIntersect(profile.CausesInterested, opp.CauseAreas)
	if len(causeMatches) > 0 {
		score += len(causeMatches) * 20
		reasons = append(reasons, "Matches your interests: "+strings.Join(causeMatches, ", "))
	}

	skillMatches := lowerIntersect(profile.Skills, opp.SkillsNeeded)
	if len(skillMatches) > 0 {
		score += len(skillMatches) * 15
		reasons = append(reasons, "Uses your skills: "+strings.Join(skillMatches, ", "))
	}

	if profile.PrefersVirtual && opp.IsVirtual {
		score += 10
		reasons = append(reasons, "Remote opportunity")
	}

	if opp.HoursPerWeekMax > 0 && profile.AvailabilityHoursWeek >= opp.HoursPerWeekMax {
		score += 10
		reasons = append(reasons, fmt.Sprintf("Fits your %dhrs/week availability", profile.AvailabilityHoursWeek))
	}

	if score > scoreCap {
		score = scoreCap
	}
	return MatchScore{Score: score, Reasons: reasons}
}

// GenerateForProfile scores every opportunity for one profile and upserts
// the top matches above the threshold. Returns how many were written.
func (s *RecommendationService) GenerateForProfile(ctx context.Context, profile *models.Profile, opps []*models.Opportunity) (int, error) {
	var matches []*models.Recommendation
	for _, opp := range opps {
		result := CalculateMatchScore(profile, opp)
		if result.Score < minMatchScore {
			continue
		}
		matches = append(matches, &models.Recommendation{
			UserID:        profile.ID,
			OpportunityID: opp.ID,
			Score:         result.Score,
			MatchReasons:  result.Reasons,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxRecommendationsPerUser {
		matches = matches[:maxRecommendationsPerUser]
	}

	for _, rec := range matches {
		if _, err := s.recs.Upsert(ctx, rec); err != nil {
			return 0, err
		}
	}
	return len(matches), nil
}

// ListForUser returns the user's current recommendations, best first.
func (s *RecommendationService) ListForUser(ctx context.Context, userID string) ([]*models.Recommendation, error) {
	return s.recs.ListForUser(ctx, userID, false)
}

// Dismiss hides a recommendation from the user's list.
func (s *RecommendationService) Dismiss(ctx context.Context, userID, id string) error {
	return s.recs.SetDismissed(ctx, userID, id, true)
}

// Save bookmarks a recommendation.
func (s *RecommendationService) Save(ctx context.Context, userID, id string) error {
	return s.recs.SetSaved(ctx, userID, id, true)
}

// Unsave removes the bookmark.
func (s *RecommendationService) Unsave(ctx context.Context, userID, id string) error {
	return s.recs.SetSaved(ctx, userID, id, false)
}

// lowerIntersect returns the case-insensitive intersection of two string
// slices, lowercased, in the first slice's order.
func lowerIntersect(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[strings.ToLower(v)] = true
	}
	var out []string
	seen := make(map[string]bool)
	for _, v := range a {
		lower := strings.ToLower(v)
		if set[lower] && !seen[lower] {
			out = append(out, lower)
			seen[lower] = true
		}
	}
	return out
}
