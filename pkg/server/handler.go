package server

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikeboe/pdf-chat/pkg/chat"
	"github.com/mikeboe/pdf-chat/pkg/rag"
	"github.com/mikeboe/pdf-chat/pkg/translate"
	"github.com/mikeboe/pdf-chat/pkg/vectorstore"
)

type Handler struct {
	Service    *Service
	Ingestor   *rag.Ingestor
	Retriever  *rag.Retriever
	Store      *vectorstore.PGVectorStore
	Translator *translate.Translator
	UploadDir  string
}

func NewHandler(s *Service, ingestor *rag.Ingestor, retriever *rag.Retriever, store *vectorstore.PGVectorStore, translator *translate.Translator, uploadDir string) *Handler {
	return &Handler{
		Service:    s,
		Ingestor:   ingestor,
		Retriever:  retriever,
		Store:      store,
		Translator: translator,
		UploadDir:  uploadDir,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.health)
	r.POST("/mcp", h.MCPHandler)

	r.POST("/upload", h.uploadPDF)
	r.POST("/chat", h.chat)
	r.GET("/chat-history/:filename", h.getChatHistory)
	r.DELETE("/chat-history/:filename", h.clearChatHistory)
	r.DELETE("/chat-history", h.clearAllChatHistory)
	r.POST("/upload-screenshot", h.uploadScreenshot)
	r.POST("/selected-text", h.selectedText)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) uploadPDF(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only PDF files are accepted"})
		return
	}

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Base name only, so the stored path stays inside the upload dir.
	dst := filepath.Join(h.UploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Ingestor.IngestPDF(c.Request.Context(), dst)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must not be empty"})
		return
	}

	resp, err := h.Service.ChatWithDocument(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getChatHistory(c *gin.Context) {
	filename := c.Param("filename")
	msgs, err := h.Service.Chat.History(c.Request.Context(), filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *Handler) clearChatHistory(c *gin.Context) {
	filename := c.Param("filename")
	deleted, err := h.Service.Chat.Clear(c.Request.Context(), filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) clearAllChatHistory(c *gin.Context) {
	deleted, err := h.Service.Chat.ClearAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) uploadScreenshot(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must not be empty"})
		return
	}

	// Accept both raw base64 and data URLs.
	payload := req.Image
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 image data"})
		return
	}

	name, err := h.Service.SaveScreenshot(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": name})
}

// selectedTextError is the structured error body for /selected-text.
type selectedTextError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) selectedText(c *gin.Context) {
	if ct := c.ContentType(); ct != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": selectedTextError{
			Code:    "unsupported_media_type",
			Message: "Content-Type must be application/json",
		}})
		return
	}

	var req struct {
		Text       string `json:"text"`
		TargetLang string `json:"target_lang"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectedTextError{
			Code:    "invalid_json",
			Message: err.Error(),
		}})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectedTextError{
			Code:    "empty_text",
			Message: "text must not be empty",
		}})
		return
	}
	if len(req.Text) > translate.MaxTextLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectedTextError{
			Code:    "text_too_long",
			Message: fmt.Sprintf("text exceeds %d characters", translate.MaxTextLength),
		}})
		return
	}
	if req.TargetLang == "" {
		req.TargetLang = "zh-TW"
	}
	if _, ok := translate.SupportedLanguages[req.TargetLang]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": selectedTextError{
			Code:    "unsupported_language",
			Message: fmt.Sprintf("unsupported language: %s", req.TargetLang),
		}})
		return
	}

	result, err := h.Translator.Translate(c.Request.Context(), req.Text, req.TargetLang)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": selectedTextError{
			Code:    "translation_failed",
			Message: err.Error(),
		}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"translation": result})
}
