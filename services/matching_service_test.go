package services

import (
	"testing"

	"meetup-matching-system/models"

	"github.com/stretchr/testify/assert"
)

func uintPtr(v uint) *uint    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestWeightForRank(t *testing.T) {
	tests := []struct {
		rank int
		want int
	}{
		{1, 100},
		{2, 80},
		{3, 60},
		{4, 40},
		{5, 20},
		{0, 0},
		{6, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WeightForRank(tt.rank), "rank %d", tt.rank)
	}
}

func sameGroupParticipants() []models.Participant {
	return []models.Participant{
		{ID: 1, EventID: 1, Name: "김철수", Company: "알파", GroupType: "A"},
		{ID: 2, EventID: 1, Name: "이영희", Company: "베타", GroupType: "A"},
		{ID: 3, EventID: 1, Name: "박민준", Company: "감마", GroupType: "A"},
		{ID: 4, EventID: 1, Name: "최지우", Company: "델타", GroupType: "B"},
	}
}

func TestComputeMatchScores_MutualPair(t *testing.T) {
	prefs := []models.Preference{
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(2), Rank: intPtr(1)},
		{EventID: 1, ParticipantID: 2, TargetID: uintPtr(1), Rank: intPtr(3)},
	}

	scores := ComputeMatchScores(sameGroupParticipants(), prefs)

	assert.Len(t, scores, 2) // both directions of the same pair
	assert.Equal(t, 160, scores[0].Score)
	assert.Equal(t, 160, scores[1].Score)
	assert.Equal(t, uint(1), scores[0].ParticipantID, "id tiebreak puts 1->2 first")
	assert.Equal(t, uint(2), scores[0].TargetID)
}

func TestComputeMatchScores_OneSided(t *testing.T) {
	prefs := []models.Preference{
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(3), Rank: intPtr(2)},
	}

	scores := ComputeMatchScores(sameGroupParticipants(), prefs)

	// both directions of the pair, same total either way
	assert.Len(t, scores, 2)
	assert.Equal(t, uint(1), scores[0].ParticipantID)
	assert.Equal(t, uint(3), scores[0].TargetID)
	assert.Equal(t, 80, scores[0].Score)
	assert.Nil(t, scores[0].TargetRank)
	if assert.NotNil(t, scores[0].ParticipantRank) {
		assert.Equal(t, 2, *scores[0].ParticipantRank)
	}

	assert.Equal(t, uint(3), scores[1].ParticipantID)
	assert.Equal(t, uint(1), scores[1].TargetID)
	assert.Equal(t, 80, scores[1].Score)
	assert.Nil(t, scores[1].ParticipantRank)
	if assert.NotNil(t, scores[1].TargetRank) {
		assert.Equal(t, 2, *scores[1].TargetRank)
	}
}

func TestComputeMatchScores_SkipsCrossGroupAndSelf(t *testing.T) {
	prefs := []models.Preference{
		// cross-group choice never scores
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(4), Rank: intPtr(1)},
		// self choice never scores
		{EventID: 1, ParticipantID: 2, TargetID: uintPtr(2), Rank: intPtr(1)},
	}

	scores := ComputeMatchScores(sameGroupParticipants(), prefs)
	assert.Empty(t, scores)
}

func TestComputeMatchScores_NoneFlagExcludesBothDirections(t *testing.T) {
	prefs := []models.Preference{
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(2), Rank: intPtr(1)},
		{EventID: 1, ParticipantID: 2, SpecialFlag: strPtr(models.SpecialFlagNone)},
		{EventID: 1, ParticipantID: 3, TargetID: uintPtr(2), Rank: intPtr(1)},
	}

	scores := ComputeMatchScores(sameGroupParticipants(), prefs)
	assert.Empty(t, scores, "a NONE participant appears in no pair")
}

func TestComputeMatchScores_SortedByScoreThenIDs(t *testing.T) {
	prefs := []models.Preference{
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(2), Rank: intPtr(5)}, // 20
		{EventID: 1, ParticipantID: 1, TargetID: uintPtr(3), Rank: intPtr(1)}, // 100
		{EventID: 1, ParticipantID: 2, TargetID: uintPtr(3), Rank: intPtr(1)}, // 100
	}

	scores := ComputeMatchScores(sameGroupParticipants(), prefs)

	assert.Len(t, scores, 6)
	// equal scores ordered by (participant id, target id)
	wantOrder := []struct {
		participantID, targetID uint
		score                   int
	}{
		{1, 3, 100},
		{2, 3, 100},
		{3, 1, 100},
		{3, 2, 100},
		{1, 2, 20},
		{2, 1, 20},
	}
	for i, want := range wantOrder {
		assert.Equal(t, want.participantID, scores[i].ParticipantID, "row %d", i)
		assert.Equal(t, want.targetID, scores[i].TargetID, "row %d", i)
		assert.Equal(t, want.score, scores[i].Score, "row %d", i)
	}
}
