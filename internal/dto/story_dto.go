package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/travel-story-backend/internal/models"
)

// EpochMillis is a point in time sent by clients as milliseconds since the
// Unix epoch, either as a JSON number or a numeric string.
type EpochMillis struct {
	time.Time
	Set bool
}

func (e *EpochMillis) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*e = EpochMillis{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*e = EpochMillis{}
			return nil
		}
		b = []byte(s)
	}
	ms, err := ParseEpochMillis(string(b))
	if err != nil {
		return err
	}
	*e = EpochMillis{Time: ms, Set: true}
	return nil
}

func (e EpochMillis) MarshalJSON() ([]byte, error) {
	if !e.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(e.UnixMilli(), 10)), nil
}

// maxEpochMillis bounds visited dates to the range a JavaScript Date can hold.
const maxEpochMillis = 8_640_000_000_000_000

// ParseEpochMillis accepts base-10 integer milliseconds within ±maxEpochMillis.
func ParseEpochMillis(s string) (time.Time, error) {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms > maxEpochMillis || ms < -maxEpochMillis {
		return time.Time{}, fmt.Errorf("invalid epoch milliseconds %q", s)
	}
	return time.UnixMilli(ms).UTC(), nil
}

type StoryRequest struct {
	Title           string      `json:"title"`
	Story           string      `json:"story"`
	VisitedLocation []string    `json:"visitedLocation"`
	ImageURL        string      `json:"imageUrl"`
	VisitedDate     EpochMillis `json:"visitedDate"`
}

type FavouriteRequest struct {
	IsFavourite bool `json:"isFavourite"`
}

type StoryResponse struct {
	Error   bool         `json:"error"`
	Story   models.Story `json:"story"`
	Message string       `json:"message"`
}

type StoriesResponse struct {
	Stories []models.Story `json:"stories"`
}
