// Package translate turns selected passages of a document into another
// language via the research model.
package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mikeboe/pdf-chat/pkg/agent"
)

// SupportedLanguages maps accepted language codes to the name used in
// the model prompt.
var SupportedLanguages = map[string]string{
	"zh-TW": "Traditional Chinese",
	"zh-CN": "Simplified Chinese",
	"en":    "English",
	"ja":    "Japanese",
	"ko":    "Korean",
}

const translateSystemPrompt = `You are a professional translator specializing in academic and technical documents.
Translate the given text into %s.

Rules:
- Preserve the meaning and register of the original text.
- Keep technical terms, proper nouns, and citations unchanged when there is no established translation.
- Preserve any LaTeX math expressions exactly as written.
- Output ONLY the translated text, with no preamble or commentary.`

// MaxTextLength caps the selected text accepted for translation.
const MaxTextLength = 5000

const defaultRetries = 3

// Translator retries transient model failures with exponential backoff.
type Translator struct {
	completer agent.Completer
	retries   int
	wait      time.Duration
	logger    *slog.Logger
}

func NewTranslator(completer agent.Completer, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		completer: completer,
		retries:   defaultRetries,
		wait:      time.Second,
		logger:    logger,
	}
}

// Translate renders text in the target language. It validates the
// input, then retries empty or unchanged model output before giving up.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", fmt.Errorf("text must not be empty")
	}
	if len(trimmed) > MaxTextLength {
		return "", fmt.Errorf("text exceeds %d characters", MaxTextLength)
	}
	langName, ok := SupportedLanguages[targetLang]
	if !ok {
		return "", fmt.Errorf("unsupported language: %s", targetLang)
	}

	systemPrompt := fmt.Sprintf(translateSystemPrompt, langName)

	var lastErr error
	wait := t.wait
	for attempt := 1; attempt <= t.retries; attempt++ {
		result, err := t.completer.CompleteText(ctx, systemPrompt, trimmed)
		if err == nil {
			result = strings.TrimSpace(result)
			if result != "" && result != trimmed {
				return result, nil
			}
			lastErr = fmt.Errorf("model returned no translation")
		} else {
			lastErr = err
		}

		if attempt < t.retries {
			t.logger.Warn("translation attempt failed, retrying",
				"attempt", attempt, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
			wait *= 2
		}
	}

	return "", fmt.Errorf("translation failed after %d attempts: %w", t.retries, lastErr)
}
