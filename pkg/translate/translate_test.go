package translate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeCompleter struct {
	responses []string
	errs      []error
	calls     int
}

func (f *fakeCompleter) CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	return errors.New("not used")
}

func newTestTranslator(f *fakeCompleter) *Translator {
	return &Translator{completer: f, retries: 3, wait: time.Millisecond, logger: slog.Default()}
}

func TestTranslateValidation(t *testing.T) {
	tr := NewTranslator(&fakeCompleter{}, nil)
	ctx := context.Background()

	if _, err := tr.Translate(ctx, "   ", "zh-TW"); err == nil {
		t.Error("expected error for empty text")
	}
	if _, err := tr.Translate(ctx, strings.Repeat("a", MaxTextLength+1), "zh-TW"); err == nil {
		t.Error("expected error for oversized text")
	}
	if _, err := tr.Translate(ctx, "hello", "fr"); err == nil {
		t.Error("expected error for unsupported language")
	}
}

func TestTranslateSuccess(t *testing.T) {
	f := &fakeCompleter{responses: []string{"  注意力機制  "}}
	tr := newTestTranslator(f)

	got, err := tr.Translate(context.Background(), "attention mechanism", "zh-TW")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "注意力機制" {
		t.Errorf("Translate() = %q, want trimmed translation", got)
	}
	if f.calls != 1 {
		t.Errorf("completer calls = %d, want 1", f.calls)
	}
}

func TestTranslateRetriesUnchangedOutput(t *testing.T) {
	f := &fakeCompleter{responses: []string{"attention mechanism", "", "注意力機制"}}
	tr := newTestTranslator(f)

	got, err := tr.Translate(context.Background(), "attention mechanism", "zh-TW")
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if got != "注意力機制" {
		t.Errorf("Translate() = %q, want third attempt's output", got)
	}
	if f.calls != 3 {
		t.Errorf("completer calls = %d, want 3", f.calls)
	}
}

func TestTranslateGivesUpAfterRetries(t *testing.T) {
	modelErr := errors.New("model down")
	f := &fakeCompleter{errs: []error{modelErr, modelErr, modelErr}}
	tr := newTestTranslator(f)

	_, err := tr.Translate(context.Background(), "hello", "ja")
	if !errors.Is(err, modelErr) {
		t.Fatalf("Translate() error = %v, want wrapped model error", err)
	}
	if f.calls != 3 {
		t.Errorf("completer calls = %d, want 3", f.calls)
	}
}
