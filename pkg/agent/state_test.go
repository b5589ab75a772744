package agent

import (
	"reflect"
	"testing"
)

func TestApplyScalarsOverwrite(t *testing.T) {
	s := &State{
		SearchQuery:    "old query",
		RunningSummary: "old summary",
	}

	s.Apply(Update{
		SearchQuery:         strPtr("new query"),
		RunningSummary:      strPtr("new summary"),
		ResearchLoopCount:   intPtr(2),
		WebResearchAttempts: intPtr(3),
	})

	if s.SearchQuery != "new query" {
		t.Errorf("SearchQuery = %q, want %q", s.SearchQuery, "new query")
	}
	if s.RunningSummary != "new summary" {
		t.Errorf("RunningSummary = %q, want %q", s.RunningSummary, "new summary")
	}
	if s.ResearchLoopCount != 2 {
		t.Errorf("ResearchLoopCount = %d, want 2", s.ResearchLoopCount)
	}
	if s.WebResearchAttempts != 3 {
		t.Errorf("WebResearchAttempts = %d, want 3", s.WebResearchAttempts)
	}
}

func TestApplySequencesAppend(t *testing.T) {
	s := &State{
		WebResearchResults: []string{"round one"},
		SourcesGathered:    []string{"* a: http://a"},
	}

	s.Apply(Update{
		WebResearchResults: []string{"round two"},
		SourcesGathered:    []string{"* b: http://b", "* c: http://c"},
		FAISSResults:       []Passage{{Content: "chunk", Score: 0.9}},
	})

	wantResults := []string{"round one", "round two"}
	if !reflect.DeepEqual(s.WebResearchResults, wantResults) {
		t.Errorf("WebResearchResults = %v, want %v", s.WebResearchResults, wantResults)
	}
	wantSources := []string{"* a: http://a", "* b: http://b", "* c: http://c"}
	if !reflect.DeepEqual(s.SourcesGathered, wantSources) {
		t.Errorf("SourcesGathered = %v, want %v", s.SourcesGathered, wantSources)
	}
	if len(s.FAISSResults) != 1 || s.FAISSResults[0].Content != "chunk" {
		t.Errorf("FAISSResults = %v, want one passage", s.FAISSResults)
	}
}

func TestApplyZeroUpdateIsNoOp(t *testing.T) {
	s := &State{
		ResearchTopic:      "topic",
		SearchQuery:        "query",
		RunningSummary:     "summary",
		ResearchLoopCount:  1,
		WebResearchResults: []string{"r"},
	}
	before := *s
	before.WebResearchResults = append([]string(nil), s.WebResearchResults...)

	s.Apply(Update{})

	if s.SearchQuery != before.SearchQuery || s.RunningSummary != before.RunningSummary ||
		s.ResearchLoopCount != before.ResearchLoopCount {
		t.Errorf("zero update changed scalar state: %+v", s)
	}
	if !reflect.DeepEqual(s.WebResearchResults, before.WebResearchResults) {
		t.Errorf("zero update changed sequences: %v", s.WebResearchResults)
	}
}

func TestNewStateCopiesInput(t *testing.T) {
	in := Input{
		ResearchTopic:         "transformers",
		EnableWebResearch:     true,
		EnableChatWithPicture: true,
		Base64Image:           "aW1n",
		PDFFilename:           "paper.pdf",
	}
	s := newState(in)

	if s.ResearchTopic != in.ResearchTopic || !s.EnableWebResearch ||
		!s.EnableChatWithPicture || s.Base64Image != in.Base64Image ||
		s.PDFFilename != in.PDFFilename {
		t.Errorf("newState did not copy input: %+v", s)
	}
	if s.ResearchLoopCount != 0 || s.WebResearchAttempts != 0 || s.RunningSummary != "" {
		t.Errorf("newState should start with zero progress: %+v", s)
	}
}
