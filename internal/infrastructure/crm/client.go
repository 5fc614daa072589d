package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/realty/backend/internal/domain/shared"
	"github.com/realty/backend/internal/infrastructure/config"
)

// maxResponseSize is the maximum allowed response size from the CRM engine (10MB)
const maxResponseSize = 10 * 1024 * 1024

const defaultTimeout = 10 * time.Second

// Client speaks GraphQL to the support-desk engine. Every Store method
// is a single document executed through execute.
type Client struct {
	endpoint    string
	adminSecret string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a CRM client from configuration
func NewClient(cfg *config.CRMConfig, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("crm: endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		adminSecret: cfg.AdminSecret,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// graphqlRequest is the wire format of a GraphQL call
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// graphqlError is one entry of a GraphQL error response
type graphqlError struct {
	Message string `json:"message"`
}

// execute posts a GraphQL document and decodes the data envelope into dest
func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, dest interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("crm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.adminSecret != "" {
		req.Header.Set("x-hasura-admin-secret", c.adminSecret)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("CRM request failed", zap.Error(err))
		return shared.NewDomainError("EXTERNAL_SERVICE", "Support desk is unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return shared.NewDomainError("EXTERNAL_SERVICE", "Failed to read support desk response")
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("CRM returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(raw, 512)))
		return shared.NewDomainError("EXTERNAL_SERVICE", fmt.Sprintf("Support desk returned status %d", resp.StatusCode))
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return shared.NewDomainError("EXTERNAL_SERVICE", "Malformed support desk response")
	}
	if len(envelope.Errors) > 0 {
		c.logger.Error("CRM query rejected", zap.String("message", envelope.Errors[0].Message))
		return shared.NewDomainError("EXTERNAL_SERVICE", "Support desk rejected the query: "+envelope.Errors[0].Message)
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return shared.NewDomainError("EXTERNAL_SERVICE", "Malformed support desk payload")
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
