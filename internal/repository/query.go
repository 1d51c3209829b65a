package repository

import (
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// DateRange is an inclusive interval over visited dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// Query selects an owner's stories. The owner term is mandatory; Text and
// Visited narrow the result further and are ANDed together. Text matches
// when it is a case-insensitive substring of the title, the body or any
// single location.
type Query struct {
	OwnerID uuid.UUID
	Text    string
	Visited *DateRange
}

func (q Query) Matches(s *models.Story) bool {
	if s.OwnerID != q.OwnerID {
		return false
	}
	if q.Visited != nil && !q.Visited.Contains(s.VisitedDate) {
		return false
	}
	if q.Text == "" {
		return true
	}

	fold := cases.Fold()
	needle := fold.String(q.Text)
	if strings.Contains(fold.String(s.Title), needle) || strings.Contains(fold.String(s.Body), needle) {
		return true
	}
	for _, loc := range s.Locations {
		if strings.Contains(fold.String(loc), needle) {
			return true
		}
	}
	return false
}

// likePattern turns text into a substring pattern for LIKE/ILIKE with the
// wildcard characters escaped.
func likePattern(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(text) + "%"
}
