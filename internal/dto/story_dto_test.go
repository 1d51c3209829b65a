package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochMillis_Unmarshal(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	ms := want.UnixMilli()

	tests := []struct {
		name    string
		in      string
		set     bool
		wantErr bool
	}{
		{name: "number", in: `{"visitedDate": 1710460800000}`, set: true},
		{name: "numeric string", in: `{"visitedDate": "1710460800000"}`, set: true},
		{name: "fraction", in: `{"visitedDate": 1710460800000.5}`, wantErr: true},
		{name: "exponent", in: `{"visitedDate": 1e300}`, wantErr: true},
		{name: "null", in: `{"visitedDate": null}`},
		{name: "missing", in: `{}`},
		{name: "empty string", in: `{"visitedDate": ""}`},
		{name: "garbage", in: `{"visitedDate": "yesterday"}`, wantErr: true},
		{name: "nan", in: `{"visitedDate": "NaN"}`, wantErr: true},
	}

	require.Equal(t, int64(1710460800000), ms)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req StoryRequest
			err := json.Unmarshal([]byte(tt.in), &req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.set, req.VisitedDate.Set)
			if tt.set {
				assert.True(t, want.Equal(req.VisitedDate.Time))
			}
		})
	}
}

func TestEpochMillis_Marshal(t *testing.T) {
	b, err := json.Marshal(EpochMillis{Time: time.UnixMilli(42), Set: true})
	require.NoError(t, err)
	assert.Equal(t, "42", string(b))

	b, err = json.Marshal(EpochMillis{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))
}

func TestParseEpochMillis(t *testing.T) {
	got, err := ParseEpochMillis("0")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Unix(0, 0)))

	got, err = ParseEpochMillis("-86400000")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(1969, 12, 31, 0, 0, 0, 0, time.UTC)))

	for _, in := range []string{"8640000000000000", "-8640000000000000"} {
		_, err = ParseEpochMillis(in)
		assert.NoError(t, err, in)
	}

	for _, in := range []string{
		"",
		"Inf",
		"NaN",
		"1.5",
		"1710460800000.0",
		"1e3",
		"1e300",
		"0x1p60",
		"0x10",
		"8640000000000001",
		"-8640000000000001",
		"9000000000000000",
		"99999999999999999999",
	} {
		_, err = ParseEpochMillis(in)
		assert.Error(t, err, in)
	}
}
