package mailgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/rakhadyo/company-portal/internal"
	"github.com/rakhadyo/company-portal/pkg/logger"
)

const defaultTimeout = 15 * time.Second

// Credential carries the bearer token for a single gateway call. It is
// passed explicitly per request; the client holds no mutable auth state.
type Credential struct {
	Token string
}

// RichEmailRequest is the payload for templated HTML emails (introduction,
// technical, confirmation, rejection stages).
type RichEmailRequest struct {
	ApplicantID string            `json:"applicantId"`
	To          string            `json:"to"`
	EmailType   string            `json:"emailType"`
	Subject     string            `json:"subject,omitempty"`
	Vars        map[string]string `json:"vars,omitempty"`
}

// DocEmailRequest is the payload for document-bearing emails (NDA, offer).
type DocEmailRequest struct {
	ApplicantID string            `json:"applicantId"`
	To          string            `json:"to"`
	DocType     string            `json:"docType"`
	Subject     string            `json:"subject,omitempty"`
	Vars        map[string]string `json:"vars,omitempty"`
}

// WelcomeEmailRequest is the payload for the onboarding email, optionally
// provisioning an employee account on the mail side.
type WelcomeEmailRequest struct {
	ApplicantID        string            `json:"applicantId"`
	To                 string            `json:"to"`
	Subject            string            `json:"subject,omitempty"`
	CreateEmployeeUser bool              `json:"createEmployeeUser"`
	Vars               map[string]string `json:"vars,omitempty"`
}

// SendResult is the normalized outcome of a send call.
type SendResult struct {
	Message   string
	MessageID string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.LoggerWrapper(),
	}
}

func (c *Client) SendRichEmail(ctx context.Context, cred Credential, req RichEmailRequest) (*SendResult, error) {
	return c.send(ctx, cred, "/send-email", req)
}

func (c *Client) SendDocEmail(ctx context.Context, cred Credential, req DocEmailRequest) (*SendResult, error) {
	return c.send(ctx, cred, "/send-doc-email", req)
}

func (c *Client) SendWelcomeEmail(ctx context.Context, cred Credential, req WelcomeEmailRequest) (*SendResult, error) {
	return c.send(ctx, cred, "/send-welcome-email", req)
}

// ListTemplates fetches the template catalog, tolerating every list
// envelope the gateway is known to emit.
func (c *Client) ListTemplates(ctx context.Context, cred Credential) ([]map[string]interface{}, error) {
	body, status, err := c.do(ctx, cred, http.MethodGet, "/templates", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, internal.NewExternalError(fmt.Sprintf("list templates: %s", ErrorMessage(status, body)), nil)
	}

	items, err := NormalizeList(body)
	if err != nil {
		c.logger.Error("template list in unknown shape", "status", status, "body_len", len(body))
		return nil, internal.NewExternalError("list templates", err)
	}
	return items, nil
}

func (c *Client) send(ctx context.Context, cred Credential, path string, payload interface{}) (*SendResult, error) {
	body, status, err := c.do(ctx, cred, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		msg := ErrorMessage(status, body)
		c.logger.Error("mail gateway rejected send", "path", path, "status", status, "message", msg)
		return nil, internal.NewExternalError(msg, nil)
	}

	doc := DecodeBody(body)
	result := &SendResult{}
	if msg, ok := doc["message"].(string); ok {
		result.Message = msg
	}
	if id, ok := doc["messageId"].(string); ok {
		result.MessageID = id
	}
	return result, nil
}

func (c *Client) do(ctx context.Context, cred Credential, method, path string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cred.Token != "" {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, internal.NewExternalError("mail gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
