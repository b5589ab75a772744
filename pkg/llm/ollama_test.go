package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

func TestClassify(t *testing.T) {
	if err := classify(context.DeadlineExceeded); !errors.Is(err, agent.ErrModelTimeout) {
		t.Errorf("deadline exceeded classified as %v, want ErrModelTimeout", err)
	}
	if err := classify(errors.New("connection refused")); !errors.Is(err, agent.ErrModelUnavailable) {
		t.Errorf("generic error classified as %v, want ErrModelUnavailable", err)
	}
}

func TestAnalyzeImageEmptyInput(t *testing.T) {
	v := &OllamaVision{}
	got, err := v.AnalyzeImage(context.Background(), "topic", "")
	if err != nil {
		t.Fatalf("AnalyzeImage() error = %v", err)
	}
	if got != "" {
		t.Errorf("AnalyzeImage() = %q, want empty synthesis for missing image", got)
	}
}

func TestAnalyzeImageRejectsBadBase64(t *testing.T) {
	v := &OllamaVision{}
	if _, err := v.AnalyzeImage(context.Background(), "topic", "!!!"); err == nil {
		t.Fatal("expected error for invalid base64 payload")
	}
}
