package config

import (
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL       string
	Port              string
	OllamaHost        string
	ModelProvider     string
	ResearchModel     string
	ImageModel        string
	EmbeddingProvider string
	EmbeddingModel    string
	GoogleApiKey      string
	TavilyApiKey      string
	SearchProvider    string

	MaxWebResearchLoops int
	TopK                int
	ChunkSize           int
	ChunkOverlap        int
	CollectionName      string

	UploadDir     string
	ScreenshotDir string
}

func Load() *Config {
	return &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Port:              getEnv("PORT", "3000"),
		OllamaHost:        getEnv("OLLAMA_HOST", "http://localhost:11434"),
		ModelProvider:     getEnv("MODEL_PROVIDER", "ollama"),
		ResearchModel:     getEnv("RESEARCH_MODEL", "phi4"),
		ImageModel:        getEnv("IMAGE_MODEL", "llama3.2-vision"),
		EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "ollama"),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "mxbai-embed-large"),
		GoogleApiKey:      getEnv("GOOGLE_API_KEY", ""),
		TavilyApiKey:      getEnv("TAVILY_API_KEY", ""),
		SearchProvider:    getEnv("SEARCH_PROVIDER", "tavily"),

		MaxWebResearchLoops: getEnvAsInt("MAX_WEB_RESEARCH_LOOPS", 3),
		TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 5),
		ChunkSize:           getEnvAsInt("CHUNK_SIZE", 1000),
		ChunkOverlap:        getEnvAsInt("CHUNK_OVERLAP", 200),
		CollectionName:      getEnv("COLLECTION_NAME", "pdf_chunks"),

		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		ScreenshotDir: getEnv("SCREENSHOT_DIR", "screenshots"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
