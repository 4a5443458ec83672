package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geofunlab/internal/core/domain"
)

const validBody = `{
  "challenge": {
    "id": "capital-japan",
    "title": "Capital Quest",
    "type": "Capital Quest",
    "prompt": "Which capital city anchors Japan?",
    "answer": "Tokyo",
    "hints": ["Plot Japan in the East Asia region.", "Latitude sits near 35.7 deg North.", "Expect volcanic mountains."],
    "fun_fact": "Shinjuku Station moves more passengers daily than any other hub.",
    "location": {"lat": 35.6762, "lng": 139.6503, "zoom": 3.5}
  },
  "world_fact": "The prime meridian slices through Greenwich.",
  "inspiration": "Sketch a map tracing the hemispheres.",
  "generated_at": "2024-05-01T13:04:05.123456+00:00",
  "extra": {"ignored": true}
}`

func TestParseResponse_Valid(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(validBody))
	require.NoError(t, err)

	assert.Equal(t, "capital-japan", resp.Challenge.ID)
	assert.Equal(t, "Tokyo", resp.Challenge.Answer)
	assert.Equal(t, []string{
		"Plot Japan in the East Asia region.",
		"Latitude sits near 35.7 deg North.",
		"Expect volcanic mountains.",
	}, resp.Challenge.Hints)
	require.NotNil(t, resp.Challenge.Location)
	assert.Equal(t, domain.GeoPoint{Lat: 35.6762, Lng: 139.6503, Zoom: 3.5}, *resp.Challenge.Location)
	assert.Equal(t, "The prime meridian slices through Greenwich.", resp.WorldFact)
	assert.Equal(t, "2024-05-01T13:04:05.123456+00:00", resp.GeneratedAt)
}

func TestParseResponse_LocationNormalizedToAbsent(t *testing.T) {
	tests := []struct {
		name     string
		location string
	}{
		{"missing lat", `{"lng": 10, "zoom": 3}`},
		{"missing lng", `{"lat": 10, "zoom": 3}`},
		{"missing zoom", `{"lat": 10, "lng": 10}`},
		{"lat out of range", `{"lat": 95, "lng": 10, "zoom": 3}`},
		{"lng out of range", `{"lat": 10, "lng": -181, "zoom": 3}`},
		{"zero zoom", `{"lat": 10, "lng": 10, "zoom": 0}`},
		{"negative zoom", `{"lat": 10, "lng": 10, "zoom": -2}`},
		{"wrong type", `{"lat": "north", "lng": 10, "zoom": 3}`},
		{"not an object", `[10, 20, 3]`},
		{"null", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"challenge": {"id": "x", "prompt": "p", "hints": [], "location": ` + tt.location + `}}`
			resp, err := domain.ParseResponse([]byte(body))
			require.NoError(t, err)
			assert.Nil(t, resp.Challenge.Location)
			assert.Equal(t, "p", resp.Challenge.Prompt)
		})
	}
}

func TestParseResponse_BoundaryLocationKept(t *testing.T) {
	body := `{"challenge": {"location": {"lat": -90, "lng": 180, "zoom": 0.01}}}`
	resp, err := domain.ParseResponse([]byte(body))
	require.NoError(t, err)
	require.NotNil(t, resp.Challenge.Location)
	assert.Equal(t, -90.0, resp.Challenge.Location.Lat)
}

func TestParseResponse_MissingHintsBecomesEmpty(t *testing.T) {
	resp, err := domain.ParseResponse([]byte(`{"challenge": {"id": "x"}}`))
	require.NoError(t, err)
	assert.NotNil(t, resp.Challenge.Hints)
	assert.Empty(t, resp.Challenge.Hints)
}

func TestParseResponse_DecodeFailures(t *testing.T) {
	bodies := map[string]string{
		"not json":          `<html>oops</html>`,
		"missing challenge": `{"world_fact": "x"}`,
		"null challenge":    `{"challenge": null}`,
		"challenge string":  `{"challenge": "capital"}`,
		"hints wrong type":  `{"challenge": {"hints": "one, two"}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resp, err := domain.ParseResponse([]byte(body))
			assert.Nil(t, resp)
			require.Error(t, err)

			var decodeErr *domain.DecodeError
			assert.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, domain.KindDecode, domain.FailureKind(err))
			assert.NotEmpty(t, err.Error())
		})
	}
}
