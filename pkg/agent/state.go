package agent

// Input is the projection handed to Process by the boundary layer. Feature
// flags travel with the request so concurrent runs cannot race on them.
type Input struct {
	ResearchTopic         string
	EnableWebResearch     bool
	EnableChatWithPicture bool
	Base64Image           string
	PDFFilename           string
}

// Output is the terminal projection of a run.
type Output struct {
	RunningSummary string `json:"running_summary"`
}

// State is the accumulator threaded through every node of one run. A fresh
// instance is built per Process call and never shared between runs.
type State struct {
	ResearchTopic         string
	SearchQuery           string
	WebResearchResults    []string
	SourcesGathered       []string
	ResearchLoopCount     int
	WebResearchAttempts   int
	RunningSummary        string
	Base64Image           string
	EnableWebResearch     bool
	EnableChatWithPicture bool
	PDFFilename           string
	FAISSResults          []Passage
}

// Update is a partial state change emitted by a node. Nil pointer fields and
// empty slices leave the corresponding state field untouched, so the zero
// Update is a no-op.
type Update struct {
	SearchQuery         *string
	RunningSummary      *string
	ResearchLoopCount   *int
	WebResearchAttempts *int
	WebResearchResults  []string
	SourcesGathered     []string
	FAISSResults        []Passage
}

// Apply merges an update into the state. Scalars overwrite, sequences append.
func (s *State) Apply(u Update) {
	if u.SearchQuery != nil {
		s.SearchQuery = *u.SearchQuery
	}
	if u.RunningSummary != nil {
		s.RunningSummary = *u.RunningSummary
	}
	if u.ResearchLoopCount != nil {
		s.ResearchLoopCount = *u.ResearchLoopCount
	}
	if u.WebResearchAttempts != nil {
		s.WebResearchAttempts = *u.WebResearchAttempts
	}
	s.WebResearchResults = append(s.WebResearchResults, u.WebResearchResults...)
	s.SourcesGathered = append(s.SourcesGathered, u.SourcesGathered...)
	s.FAISSResults = append(s.FAISSResults, u.FAISSResults...)
}

func newState(in Input) *State {
	return &State{
		ResearchTopic:         in.ResearchTopic,
		EnableWebResearch:     in.EnableWebResearch,
		EnableChatWithPicture: in.EnableChatWithPicture,
		Base64Image:           in.Base64Image,
		PDFFilename:           in.PDFFilename,
	}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }
