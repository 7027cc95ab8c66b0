package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dekontrol/internal/analysis"
	"dekontrol/internal/config"
)

// Client implements analysis.OCREngine against an HTTP OCR service. The
// service receives the receipt as base64 and returns recognized text with a
// confidence figure.
type Client struct {
	endpoint string
	apiKey   string
	language string
	client   *http.Client
}

// NewClient creates an OCR client from config.
func NewClient(cfg *config.OCRConfig) *Client {
	return NewClientWithEndpoint(cfg, cfg.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint (for testing).
func NewClientWithEndpoint(cfg *config.OCRConfig, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		client:   &http.Client{Timeout: timeout},
	}
}

type scanRequest struct {
	FileName string `json:"file_name"`
	FileData string `json:"file_data"` // base64
	Language string `json:"language"`
}

type scanResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Words      []string `json:"words"`
	Lines      []string `json:"lines"`
	Error      string   `json:"error"`
}

// Scan sends the receipt bytes to the OCR service and returns the raw scan
// result. Unreadable input is an error, never a zero-confidence result.
func (c *Client) Scan(ctx context.Context, fileBytes []byte, fileName string) (*analysis.RawScanResult, error) {
	if len(fileBytes) == 0 {
		return nil, fmt.Errorf("empty file %q", fileName)
	}

	reqBody := scanRequest{
		FileName: fileName,
		FileData: base64.StdEncoding.EncodeToString(fileBytes),
		Language: c.language,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling OCR service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OCR service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out scanResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("OCR service rejected %q: %s", fileName, out.Error)
	}
	if out.Confidence < 0 || out.Confidence > 100 {
		return nil, fmt.Errorf("OCR confidence out of range: %v", out.Confidence)
	}

	return &analysis.RawScanResult{
		Text:       out.Text,
		Confidence: out.Confidence,
		Words:      out.Words,
		Lines:      out.Lines,
	}, nil
}
