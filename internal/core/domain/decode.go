package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errMissingChallenge = errors.New("response is missing challenge")

type rawChallenge struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Prompt   string          `json:"prompt"`
	Answer   string          `json:"answer"`
	Hints    []string        `json:"hints"`
	Type     string          `json:"type"`
	FunFact  string          `json:"fun_fact"`
	Location json.RawMessage `json:"location"`
}

type rawResponse struct {
	Challenge   json.RawMessage `json:"challenge"`
	WorldFact   string          `json:"world_fact"`
	Inspiration string          `json:"inspiration"`
	GeneratedAt string          `json:"generated_at"`
}

// ParseResponse decodes a trivia body into a GeoFunResponse.
//
// Unknown fields are ignored. A location that is missing a field, has the
// wrong type or is out of range becomes nil instead of failing the whole
// response. Any other shape problem is returned as a *DecodeError.
func ParseResponse(body []byte) (*GeoFunResponse, error) {
	var raw rawResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if isNull(raw.Challenge) {
		return nil, &DecodeError{Err: errMissingChallenge}
	}

	var ch rawChallenge
	if err := json.Unmarshal(raw.Challenge, &ch); err != nil {
		return nil, &DecodeError{Err: err}
	}

	hints := ch.Hints
	if hints == nil {
		hints = []string{}
	}

	return &GeoFunResponse{
		Challenge: ChallengePayload{
			ID:       ch.ID,
			Title:    ch.Title,
			Prompt:   ch.Prompt,
			Answer:   ch.Answer,
			Hints:    hints,
			Type:     ch.Type,
			FunFact:  ch.FunFact,
			Location: parseLocation(ch.Location),
		},
		WorldFact:   raw.WorldFact,
		Inspiration: raw.Inspiration,
		GeneratedAt: raw.GeneratedAt,
	}, nil
}

func parseLocation(data json.RawMessage) *GeoPoint {
	if isNull(data) {
		return nil
	}
	var loc rawGeoPoint
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil
	}
	return normalizeLocation(&loc)
}

func isNull(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
