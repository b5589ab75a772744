package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mikeboe/pdf-chat/pkg/agent"
	"github.com/mikeboe/pdf-chat/pkg/chat"
	"github.com/mikeboe/pdf-chat/pkg/imaging"
)

// screenshotKeepFraction keeps the document page and drops the chat
// panel on the right side of reader screenshots.
const screenshotKeepFraction = 0.6

// Service ties the workflow engine to chat persistence and screenshot
// handling for the HTTP layer.
type Service struct {
	Agent         *agent.Agent
	Chat          *chat.Service
	ScreenshotDir string
	Logger        *slog.Logger
}

func NewService(a *agent.Agent, c *chat.Service, screenshotDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Agent:         a,
		Chat:          c,
		ScreenshotDir: screenshotDir,
		Logger:        logger,
	}
}

type ChatRequest struct {
	Message               string `json:"message"`
	PDFFilename           string `json:"pdf_filename"`
	EnableWebResearch     bool   `json:"enable_web_research"`
	EnableChatWithPicture bool   `json:"enable_chat_with_picture"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// ChatWithDocument runs one research pass for a user message and
// records both sides of the exchange in the document's transcript.
func (s *Service) ChatWithDocument(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	input := agent.Input{
		ResearchTopic:         req.Message,
		EnableWebResearch:     req.EnableWebResearch,
		EnableChatWithPicture: req.EnableChatWithPicture,
		PDFFilename:           req.PDFFilename,
	}

	if req.EnableChatWithPicture {
		img, err := s.latestScreenshot()
		if err != nil {
			s.Logger.Warn("no screenshot available for image chat", "error", err)
		} else {
			input.Base64Image = img
		}
	}

	if _, err := s.Chat.Append(ctx, req.PDFFilename, "user", req.Message); err != nil {
		return nil, err
	}

	out, err := s.Agent.Process(ctx, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.Chat.Append(ctx, req.PDFFilename, "assistant", out.RunningSummary); err != nil {
		return nil, err
	}

	return &ChatResponse{Answer: out.RunningSummary}, nil
}

// SaveScreenshot replaces any previous screenshot with a cropped copy
// of data and returns the stored filename.
func (s *Service) SaveScreenshot(data []byte) (string, error) {
	cropped, err := imaging.CropLeft(data, screenshotKeepFraction)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.ScreenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create screenshot dir: %w", err)
	}

	// One screenshot at a time keeps latestScreenshot unambiguous.
	entries, err := os.ReadDir(s.ScreenshotDir)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".png") {
			_ = os.Remove(filepath.Join(s.ScreenshotDir, entry.Name()))
		}
	}

	name := fmt.Sprintf("screenshot_%d.png", time.Now().UnixNano())
	path := filepath.Join(s.ScreenshotDir, name)
	if err := os.WriteFile(path, cropped, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	return name, nil
}

// latestScreenshot returns the newest stored screenshot base64-encoded.
func (s *Service) latestScreenshot() (string, error) {
	entries, err := os.ReadDir(s.ScreenshotDir)
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot dir: %w", err)
	}

	var newest string
	var newestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = entry.Name()
			newestTime = info.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no screenshot found in %s", s.ScreenshotDir)
	}

	data, err := os.ReadFile(filepath.Join(s.ScreenshotDir, newest))
	if err != nil {
		return "", fmt.Errorf("failed to read screenshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
