package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"crewlog-service/internal/domain/repository"
	"crewlog-service/pkg/logger"
)

// The user turn carries only this fixed directive; all interpretation rules
// live in the instruction text supplied by the caller.
const extractDirective = "Extract the roster from the attached document and respond with JSON only."

// VisionConfig configures the OpenAI-compatible vision endpoint.
type VisionConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
}

// OpenAIVisionRepository implements VisionRepository against an
// OpenAI-compatible chat completions API. It is a constructed, injected
// dependency; nothing here is process-global.
type OpenAIVisionRepository struct {
	cfg        VisionConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewOpenAIVisionRepository creates a new vision extraction repository.
// The request deadline is owned by the caller's context, so the embedded
// client carries no timeout of its own.
func NewOpenAIVisionRepository(cfg VisionConfig, log logger.Logger) repository.VisionRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	return &OpenAIVisionRepository{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     log,
	}
}

// ExtractText sends one multimodal request with the document and instruction
// set, returning the model's raw text without any format guarantees.
func (r *OpenAIVisionRepository) ExtractText(ctx context.Context, document []byte, mediaType string, instructions string) (string, error) {
	start := time.Now()

	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(document)

	var documentPart map[string]interface{}
	if mediaType == "application/pdf" {
		documentPart = map[string]interface{}{
			"type": "file",
			"file": map[string]interface{}{
				"filename":  "roster.pdf",
				"file_data": dataURL,
			},
		}
	} else {
		documentPart = map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]interface{}{
				"url": dataURL,
			},
		}
	}

	body := map[string]interface{}{
		"model":       r.cfg.Model,
		"temperature": r.cfg.Temperature,
		"messages": []map[string]interface{}{
			{"role": "system", "content": instructions},
			{"role": "user", "content": []map[string]interface{}{
				{"type": "text", "text": extractDirective},
				documentPart,
			}},
		},
	}

	raw, err := r.post(ctx, strings.TrimRight(r.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		r.logger.Error("Vision extraction call failed",
			"model", r.cfg.Model, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", fmt.Errorf("decode vision response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return "", fmt.Errorf("no choices in vision response")
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	r.logger.Info("Vision extraction call succeeded",
		"model", r.cfg.Model, "response_chars", len(content),
		"elapsed_ms", time.Since(start).Milliseconds())
	return content, nil
}

func (r *OpenAIVisionRepository) post(ctx context.Context, url string, body map[string]interface{}) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vision http error: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			r.logger.Warn("Vision response body close error", "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read vision response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vision status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
