// Package ner implements domain.Extractor against an HTTP named-entity
// recognition service.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/climate-query-service/internal/domain"
)

// Client extracts entities from free text by calling an external NER service.
// The service is a thin wrapper around a statistical model; this client only
// deals with the wire format and leaves all interpretation to the domain.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates an NER client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

type extractRequest struct {
	Text string `json:"text"`
}

type extractResponse struct {
	Entities []wireEntity `json:"entities"`
}

type wireEntity struct {
	Label      string  `json:"label"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Extract posts the text to the NER service and returns the recognized
// entities in the order the service emitted them. Labels the domain does not
// know about pass through untouched; the classifier decides what to keep.
func (c *Client) Extract(ctx context.Context, text string) ([]domain.ExtractedEntity, error) {
	body, err := json.Marshal(extractRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/entities", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("extract request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ner service error: status %d: %s", resp.StatusCode, respBody)
	}

	var wire extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	entities := make([]domain.ExtractedEntity, 0, len(wire.Entities))
	for _, e := range wire.Entities {
		entities = append(entities, domain.ExtractedEntity{
			Type:       domain.EntityType(e.Label),
			Text:       e.Text,
			Confidence: e.Confidence,
		})
	}

	c.logger.Debug("extracted entities", "count", len(entities))
	return entities, nil
}
