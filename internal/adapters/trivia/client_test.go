package trivia_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/geofunlab/internal/adapters/trivia"
	"github.com/samirrijal/geofunlab/internal/core/domain"
)

const body = `{
  "challenge": {
    "id": "capital-tokyo",
    "title": "Capital Quest",
    "prompt": "Which capital sits on the Sumida river?",
    "answer": "Tokyo",
    "hints": ["Island nation", "Shibuya crossing"],
    "type": "Capital Quest",
    "fun_fact": "Greater Tokyo is the largest metro area on Earth.",
    "location": {"lat": 35.6762, "lng": 139.6503, "zoom": 3.5},
    "difficulty": "easy"
  },
  "world_fact": "Russia spans eleven time zones.",
  "inspiration": "Map every river that reaches the sea.",
  "generated_at": "2024-05-01T15:04:05.123456+00:00"
}`

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := trivia.NewClient(srv.URL+"/", "", 5*time.Second)
	assert.Equal(t, srv.URL+"/api/geo_fun", c.Endpoint())

	resp, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/api/geo_fun", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "capital-tokyo", resp.Challenge.ID)
	assert.Equal(t, []string{"Island nation", "Shibuya crossing"}, resp.Challenge.Hints)
	require.NotNil(t, resp.Challenge.Location)
	assert.Equal(t, 139.6503, resp.Challenge.Location.Lng)
	assert.Equal(t, "2024-05-01T15:04:05.123456+00:00", resp.GeneratedAt)
}

func TestClient_FetchCustomPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trivia/geo" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := trivia.NewClient(srv.URL, "trivia/geo", time.Second)
	_, err := c.Fetch(context.Background())
	assert.NoError(t, err)
}

func TestClient_FetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"detail":"overloaded"}`))
	}))
	defer srv.Close()

	_, err := trivia.NewClient(srv.URL, "", time.Second).Fetch(context.Background())

	var statusErr *domain.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 503, statusErr.Code)
	assert.Equal(t, "Request failed with status 503", domain.FailureMessage(err))
}

func TestClient_FetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	_, err := trivia.NewClient(srv.URL, "", time.Second).Fetch(context.Background())
	assert.Equal(t, domain.KindDecode, domain.FailureKind(err))
}

func TestClient_FetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := trivia.NewClient(url, "", time.Second).Fetch(context.Background())
	assert.Equal(t, domain.KindTransport, domain.FailureKind(err))
	assert.NotEmpty(t, domain.FailureMessage(err))
}

func TestClient_WithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := trivia.NewClient(srv.URL, "", time.Second, trivia.WithHTTPClient(srv.Client()))
	resp, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", resp.Challenge.Answer)
}
