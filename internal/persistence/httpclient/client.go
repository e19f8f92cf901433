// Package httpclient talks to the remote authoring service over HTTP+JSON
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

var _ persistence.Client = (*Client)(nil)

// Config holds the settings for the client
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.BaseURL == "" {
		vb.RequiredField("BaseURL")
	} else if u, err := url.Parse(c.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		vb.Field("BaseURL", "must be an absolute URL")
	}
	if c.Timeout < 0 {
		vb.Field("Timeout", "must not be negative")
	}
	return vb.Build()
}

// Client is an HTTP persistence.Client
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a new client
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    hc,
	}, nil
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// do sends one request and decodes a JSON response into out, which may be nil
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s %s", method, path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), "request canceled")
		}
		return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("%s %s failed", method, path))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.WrapWithCode(err, errors.CodeInternal, fmt.Sprintf("failed to decode %s %s", method, path))
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	code := errors.CodeFromHTTPStatus(resp.StatusCode)
	message := fmt.Sprintf("%s %s: %s", method, path, http.StatusText(resp.StatusCode))

	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error.Message != "" {
		message = eb.Error.Message
		if eb.Error.Code != "" {
			code = errors.Code(eb.Error.Code)
		}
	}

	slog.Debug("service returned error",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"code", code)

	err := errors.New(code, message).WithMeta("status", resp.StatusCode)
	if len(eb.Error.Fields) > 0 {
		err = err.WithMeta("validation_errors", eb.Error.Fields)
	}
	return err
}

func draftPath(draftID string) string {
	return "/drafts/" + url.PathEscape(draftID)
}

func childPath(draftID, collection, id string) string {
	p := draftPath(draftID) + "/" + collection
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func attachmentsPath(draftID string, owner persistence.OwnerKind, ownerID, attachmentID string) (string, error) {
	var p string
	switch owner {
	case persistence.OwnerLocation:
		p = childPath(draftID, "locations", ownerID) + "/attachments"
	case persistence.OwnerNPC:
		p = childPath(draftID, "npcs", ownerID) + "/attachments"
	case persistence.OwnerPreview:
		p = draftPath(draftID) + "/preview"
	case persistence.OwnerDocument:
		p = draftPath(draftID) + "/documents"
	default:
		return "", errors.InvalidArgumentf("unknown attachment owner %q", owner)
	}
	if attachmentID != "" {
		p += "/" + url.PathEscape(attachmentID)
	}
	return p, nil
}
