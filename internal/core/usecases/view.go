package usecases

import (
	"strconv"

	"github.com/samirrijal/geofunlab/internal/core/domain"
)

// UI copy.
const (
	LabelNewChallenge = "New Geography Challenge"
	LabelMixing       = "Mixing a new map..."
	LabelReveal       = "Reveal Answer"
	LabelHide         = "Hide Answer"
	HiddenAnswer      = "???"
	BusyText          = "Summoning world data..."
	StatusLoading     = "Loading"
)

// Hint is one field note, keyed for stable rendering.
type Hint struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ChallengeCard is the visible part of a challenge. Answer holds
// HiddenAnswer until the reveal flag is set.
type ChallengeCard struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Prompt  string `json:"prompt"`
	Hints   []Hint `json:"hints"`
	FunFact string `json:"fun_fact"`
	Answer  string `json:"answer"`
}

// View is everything the page draws for one state of the shell.
type View struct {
	Phase         string           `json:"phase"`
	Generation    uint64           `json:"generation"`
	Busy          bool             `json:"busy"`
	BusyText      string           `json:"busy_text,omitempty"`
	Error         string           `json:"error,omitempty"`
	Challenge     *ChallengeCard   `json:"challenge,omitempty"`
	WorldFact     string           `json:"world_fact,omitempty"`
	Inspiration   string           `json:"inspiration,omitempty"`
	Revealed      bool             `json:"revealed"`
	RevealLabel   string           `json:"reveal_label,omitempty"`
	CanRequestNew bool             `json:"can_request_new"`
	RequestLabel  string           `json:"request_label"`
	Timestamp     string           `json:"timestamp"`
	Status        string           `json:"status"`
	Location      *domain.GeoPoint `json:"location"`
}

type viewState struct {
	phase      domain.Phase
	generation uint64
	errMsg     string
	response   *domain.GeoFunResponse
	revealed   bool
}

// project is a pure function of the shell state.
func project(st viewState, stamps *TimestampFormatter) View {
	v := View{
		Phase:         st.phase.String(),
		Generation:    st.generation,
		Busy:          st.phase == domain.PhaseLoading,
		CanRequestNew: st.phase != domain.PhaseLoading,
		RequestLabel:  LabelNewChallenge,
		Status:        StatusLoading,
	}
	if v.Busy {
		v.BusyText = BusyText
		v.RequestLabel = LabelMixing
	}

	if st.response != nil {
		if loc := st.response.Challenge.Location; loc != nil {
			cp := *loc
			v.Location = &cp
		}
		if stamps != nil {
			v.Timestamp = stamps.Format(st.response.GeneratedAt)
		}
		if v.Timestamp != "" {
			v.Status = "Updated " + v.Timestamp
		}
	}

	switch {
	case st.phase == domain.PhaseFailure:
		v.Error = st.errMsg
		if v.Error == "" {
			v.Error = domain.FallbackMessage
		}
	case st.phase == domain.PhaseSuccess && st.response != nil:
		v.Challenge = card(st.response.Challenge, st.revealed)
		v.WorldFact = st.response.WorldFact
		v.Inspiration = st.response.Inspiration
		v.Revealed = st.revealed
		v.RevealLabel = LabelReveal
		if st.revealed {
			v.RevealLabel = LabelHide
		}
	}
	return v
}

func card(ch domain.ChallengePayload, revealed bool) *ChallengeCard {
	c := &ChallengeCard{
		ID:      ch.ID,
		Type:    ch.Type,
		Title:   ch.Title,
		Prompt:  ch.Prompt,
		FunFact: ch.FunFact,
		Answer:  HiddenAnswer,
		Hints:   make([]Hint, len(ch.Hints)),
	}
	if revealed {
		c.Answer = ch.Answer
	}
	for i, h := range ch.Hints {
		c.Hints[i] = Hint{Key: ch.ID + "-hint-" + strconv.Itoa(i), Text: h}
	}
	return c
}
