package domain

// ChallengePayload is one unit of quiz content.
type ChallengePayload struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Prompt   string    `json:"prompt"`
	Answer   string    `json:"answer"`
	Hints    []string  `json:"hints"` // display order matters
	Type     string    `json:"type"`  // category label, e.g. "Capital Quest"
	FunFact  string    `json:"fun_fact"`
	Location *GeoPoint `json:"location"` // nil when absent or malformed
}

// GeoFunResponse is the body returned by the trivia endpoint.
type GeoFunResponse struct {
	Challenge   ChallengePayload `json:"challenge"`
	WorldFact   string           `json:"world_fact"`
	Inspiration string           `json:"inspiration"`
	GeneratedAt string           `json:"generated_at"` // ISO-8601
}

// Phase is the fetch lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailure
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// ViewChanged is published every time the visible state of the lab changes.
type ViewChanged struct {
	ID         string `json:"id"`
	Phase      string `json:"phase"`
	Generation uint64 `json:"generation"`
	Revealed   bool   `json:"revealed"`
	At         string `json:"at"`
}
