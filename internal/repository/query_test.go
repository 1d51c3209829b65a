package repository

import (
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2024, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestQueryMatches(t *testing.T) {
	owner := uuid.New()
	s := &models.Story{
		OwnerID:     owner,
		Title:       "Sunrise over Kyoto",
		Body:        "Temples and tea.",
		Locations:   []string{"Japan", "Fushimi Inari"},
		VisitedDate: day(10),
	}

	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{name: "owner only", q: Query{OwnerID: owner}, want: true},
		{name: "other owner", q: Query{OwnerID: uuid.New()}, want: false},
		{name: "title substring any case", q: Query{OwnerID: owner, Text: "KYOTO"}, want: true},
		{name: "body substring", q: Query{OwnerID: owner, Text: "tea"}, want: true},
		{name: "location substring", q: Query{OwnerID: owner, Text: "inari"}, want: true},
		{name: "no text match", q: Query{OwnerID: owner, Text: "paris"}, want: false},
		{name: "text spanning two locations does not match", q: Query{OwnerID: owner, Text: "japanfushimi"}, want: false},
		{name: "range inclusive start", q: Query{OwnerID: owner, Visited: &DateRange{From: day(10), To: day(12)}}, want: true},
		{name: "range inclusive end", q: Query{OwnerID: owner, Visited: &DateRange{From: day(1), To: day(10)}}, want: true},
		{name: "range excludes", q: Query{OwnerID: owner, Visited: &DateRange{From: day(11), To: day(20)}}, want: false},
		{name: "swapped range is empty", q: Query{OwnerID: owner, Visited: &DateRange{From: day(20), To: day(1)}}, want: false},
		{name: "text and range", q: Query{OwnerID: owner, Text: "japan", Visited: &DateRange{From: day(1), To: day(30)}}, want: true},
		{name: "text ok range not", q: Query{OwnerID: owner, Text: "japan", Visited: &DateRange{From: day(11), To: day(30)}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.q.Matches(s))
		})
	}
}

func TestQueryMatches_UnicodeFolding(t *testing.T) {
	owner := uuid.New()
	s := &models.Story{OwnerID: owner, Title: "Café in Évora", Locations: []string{"ÇEŞME"}}

	assert.True(t, Query{OwnerID: owner, Text: "CAFÉ IN éVORA"}.Matches(s))
	assert.True(t, Query{OwnerID: owner, Text: "çeşme"}.Matches(s))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%abc%`, likePattern("abc"))
	assert.Equal(t, `%100\%\_off\\%`, likePattern(`100%_off\`))
}
