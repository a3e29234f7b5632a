package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauern/skills-cli/internal/archive"
	"github.com/klauern/skills-cli/internal/logging"
)

// Default skills API settings.
const (
	DefaultAPIURL     = "https://api.anthropic.com"
	DefaultAPIVersion = "2023-06-01"
	DefaultAPIBeta    = "skills-2025-10-02"
	DefaultAPIKeyEnv  = "ANTHROPIC_API_KEY"
)

// Base64Prefix marks file contents that were base64 encoded.
const Base64Prefix = "base64:"

// Payload is the request body for creating or updating a skill.
type Payload struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Files       map[string]string `json:"files"`
}

// PublishResult is the decoded success response.
type PublishResult struct {
	// ID is empty when the response carries no id.
	ID  string
	Raw map[string]any
}

// Publisher sends skills to the skills API.
type Publisher struct {
	Client  Doer
	BaseURL string
	APIKey  string
	Version string
	Beta    string
}

// NewPublisher returns a Publisher with the default API settings.
func NewPublisher(client Doer, apiKey string) *Publisher {
	return &Publisher{
		Client:  client,
		BaseURL: DefaultAPIURL,
		APIKey:  apiKey,
		Version: DefaultAPIVersion,
		Beta:    DefaultAPIBeta,
	}
}

// Publish creates the skill with POST /v1/skills, or replaces it with
// PUT /v1/skills/<name> when update is set.
func (p *Publisher) Publish(ctx context.Context, payload Payload, update bool) (*PublishResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	method := http.MethodPost
	endpoint := p.endpoint()
	if update {
		method = http.MethodPut
		endpoint += "/" + url.PathEscape(payload.Name)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", p.APIKey)
	req.Header.Set("anthropic-version", p.Version)
	req.Header.Set("anthropic-beta", p.Beta)
	req.Header.Set("content-type", "application/json")

	logging.Debug("publishing skill",
		logging.Skill(payload.Name),
		logging.URL(endpoint),
		logging.Operation(strings.ToLower(method)),
		logging.Count(len(payload.Files)),
	)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !isSuccess(resp.StatusCode) {
		return nil, newHTTPError(resp)
	}

	// A 2xx with no body, such as 204, is a success without an id.
	result := &PublishResult{Raw: map[string]any{}}
	if err := json.NewDecoder(resp.Body).Decode(&result.Raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Raw == nil {
		result.Raw = map[string]any{}
	}
	if id, ok := result.Raw["id"]; ok && id != nil {
		result.ID = fmt.Sprint(id)
	}
	return result, nil
}

func (p *Publisher) endpoint() string {
	base := strings.TrimRight(p.BaseURL, "/")
	if base == "" {
		base = DefaultAPIURL
	}
	return base + "/v1/skills"
}

// CollectFiles reads every file under dir keyed by slash-separated relative
// path. UTF-8 text is kept as is; anything else is base64 encoded with
// Base64Prefix.
func CollectFiles(dir string) (map[string]string, error) {
	rels, err := archive.ListFiles(dir)
	if err != nil {
		return nil, err
	}

	files := make(map[string]string, len(rels))
	for _, rel := range rels {
		// #nosec G304 - rel comes from walking the skill directory
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if utf8.Valid(data) {
			files[rel] = string(data)
		} else {
			files[rel] = Base64Prefix + base64.StdEncoding.EncodeToString(data)
		}
	}
	return files, nil
}
