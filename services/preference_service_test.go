package services

import (
	"fmt"
	"testing"

	"meetup-matching-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRankings(t *testing.T) {
	tests := []struct {
		name     string
		rankings map[string]uint
		wantErr  string
		want     []RankedChoice
	}{
		{
			name:     "full five ranks",
			rankings: map[string]uint{"3": 30, "1": 10, "5": 50, "2": 20, "4": 40},
			want: []RankedChoice{
				{Rank: 1, TargetID: 10},
				{Rank: 2, TargetID: 20},
				{Rank: 3, TargetID: 30},
				{Rank: 4, TargetID: 40},
				{Rank: 5, TargetID: 50},
			},
		},
		{
			name:     "rank 1 alone is enough",
			rankings: map[string]uint{"1": 7},
			want:     []RankedChoice{{Rank: 1, TargetID: 7}},
		},
		{
			name:     "missing rank 1",
			rankings: map[string]uint{"2": 20},
			wantErr:  "rank 1 is required",
		},
		{
			name:     "empty submission",
			rankings: map[string]uint{},
			wantErr:  "rank 1 is required",
		},
		{
			name:     "rank out of range",
			rankings: map[string]uint{"1": 10, "6": 60},
			wantErr:  "between 1 and 5",
		},
		{
			name:     "non-numeric rank",
			rankings: map[string]uint{"1": 10, "first": 11},
			wantErr:  "between 1 and 5",
		},
		{
			name:     "duplicate rank via alternate spelling",
			rankings: map[string]uint{"1": 10, "01": 11},
			wantErr:  "duplicate rank 1",
		},
		{
			name:     "zero target id",
			rankings: map[string]uint{"1": 0},
			wantErr:  "invalid target",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRankings(tt.rankings)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubmitPreferences_RankedAndNoneExclusive(t *testing.T) {
	db := newTestDB(t)
	participants := NewParticipantService(db)
	svc := NewPreferenceService(db, participants)

	app := fiber.New()
	app.Post("/api/events/:id/preferences", svc.SubmitPreferences)

	event := models.Event{Name: "데모데이"}
	require.NoError(t, db.Create(&event).Error)

	submitter := models.Participant{EventID: event.ID, Name: "김철수", Company: "알파테크", GroupType: "A", AccessToken: "tok-submitter"}
	target := models.Participant{EventID: event.ID, Name: "이영희", Company: "베타소프트", GroupType: "A", AccessToken: "tok-target"}
	require.NoError(t, db.Create(&submitter).Error)
	require.NoError(t, db.Create(&target).Error)

	url := fmt.Sprintf("/api/events/%d/preferences?token=tok-submitter", event.ID)

	// ranked submission
	status, _ := doJSON(t, app, "POST", url, map[string]any{
		"rankings": map[string]uint{"1": uint(target.ID)},
	})
	require.Equal(t, 200, status)

	prefs, err := svc.listAll(event.ID)
	require.NoError(t, err)
	if assert.Len(t, prefs, 1) {
		assert.False(t, prefs[0].IsNone())
		assert.EqualValues(t, target.ID, *prefs[0].TargetID)
	}

	// switching to NONE replaces the ranked rows
	status, _ = doJSON(t, app, "POST", url, map[string]any{"special_flag": models.SpecialFlagNone})
	require.Equal(t, 200, status)

	prefs, err = svc.listAll(event.ID)
	require.NoError(t, err)
	if assert.Len(t, prefs, 1) {
		assert.True(t, prefs[0].IsNone())
		assert.Nil(t, prefs[0].TargetID)
	}

	// and switching back replaces the NONE marker
	status, _ = doJSON(t, app, "POST", url, map[string]any{
		"rankings": map[string]uint{"1": uint(target.ID)},
	})
	require.Equal(t, 200, status)

	prefs, err = svc.listAll(event.ID)
	require.NoError(t, err)
	if assert.Len(t, prefs, 1) {
		assert.False(t, prefs[0].IsNone())
	}
}
