// Package github is a minimal GitHub REST client covering the operations
// the widget publisher needs: repos, contents, and Pages.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.github.com"

// PagesState describes the outcome of a Pages configuration check.
type PagesState int

const (
	PagesEnabled   PagesState = iota // site configured
	PagesAbsent                      // 404: not configured yet
	PagesForbidden                   // 403: token cannot manage Pages
)

// Client performs the GitHub API calls used at publish time.
type Client interface {
	RepoExists(ctx context.Context, owner, repo string) (bool, error)
	CreateRepo(ctx context.Context, req CreateRepoRequest) error
	CheckPages(ctx context.Context, owner, repo string) (PagesState, error)
	EnablePages(ctx context.Context, owner, repo, branch string) error
	ListRootFiles(ctx context.Context, owner, repo, ref string) ([]string, error)
	FileSHA(ctx context.Context, owner, repo, path, ref string) (string, error)
	UploadFile(ctx context.Context, owner, repo, path string, content []byte, message, sha string) error
	TriggerPagesBuild(ctx context.Context, owner, repo string) error
}

// CreateRepoRequest is the body for POST /user/repos.
type CreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AutoInit    bool   `json:"auto_init"`
	Private     bool   `json:"private"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	token   string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a GitHub API client authenticated with a token.
// Requests are throttled to stay under GitHub's secondary rate limits.
func NewClient(token string, opts ...Option) Client {
	c := &httpClient{
		token:   token,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// do issues one request and returns the status code and body. Non-2xx is
// not an error here; callers decide which statuses are legitimate.
func (c *httpClient) do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, eris.Wrap(err, "github: rate limit wait")
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, eris.Wrap(err, "github: marshal request")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, eris.Wrap(err, "github: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, eris.Wrap(err, "github: read response")
	}

	return resp.StatusCode, respBody, nil
}

func (c *httpClient) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/repos/"+owner+"/"+repo, nil)
	if err != nil {
		return false, err
	}
	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, eris.Errorf("github: check repo: unexpected status %d: %s", status, string(body))
	}
}

func (c *httpClient) CreateRepo(ctx context.Context, req CreateRepoRequest) error {
	status, body, err := c.do(ctx, http.MethodPost, "/user/repos", req)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return eris.Errorf("github: create repo: unexpected status %d: %s", status, string(body))
	}
	return nil
}

func (c *httpClient) CheckPages(ctx context.Context, owner, repo string) (PagesState, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/repos/"+owner+"/"+repo+"/pages", nil)
	if err != nil {
		return PagesAbsent, err
	}
	switch status {
	case http.StatusOK:
		return PagesEnabled, nil
	case http.StatusNotFound:
		return PagesAbsent, nil
	case http.StatusForbidden:
		return PagesForbidden, nil
	default:
		return PagesAbsent, eris.Errorf("github: check pages: unexpected status %d: %s", status, string(body))
	}
}

func (c *httpClient) EnablePages(ctx context.Context, owner, repo, branch string) error {
	payload := map[string]any{
		"source": map[string]string{"branch": branch, "path": "/"},
	}
	status, body, err := c.do(ctx, http.MethodPost, "/repos/"+owner+"/"+repo+"/pages", payload)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusAccepted {
		return eris.Errorf("github: enable pages: unexpected status %d: %s", status, string(body))
	}
	return nil
}

// contentsItem is one entry of a directory listing response.
type contentsItem struct {
	Type string `json:"type"`
	Name string `json:"name"`
	SHA  string `json:"sha"`
}

func (c *httpClient) ListRootFiles(ctx context.Context, owner, repo, ref string) ([]string, error) {
	path := "/repos/" + owner + "/" + repo + "/contents"
	if ref != "" {
		path += "?ref=" + ref
	}
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		// Empty repo or missing ref: a legitimate empty listing.
		return nil, nil
	default:
		return nil, eris.Errorf("github: list contents: unexpected status %d: %s", status, string(body))
	}

	var items []contentsItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, eris.Wrap(err, "github: unmarshal contents listing")
	}

	var names []string
	for _, item := range items {
		if item.Type == "file" {
			names = append(names, item.Name)
		}
	}
	return names, nil
}

func (c *httpClient) FileSHA(ctx context.Context, owner, repo, path, ref string) (string, error) {
	reqPath := "/repos/" + owner + "/" + repo + "/contents/" + path
	if ref != "" {
		reqPath += "?ref=" + ref
	}
	status, body, err := c.do(ctx, http.MethodGet, reqPath, nil)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK:
		var item contentsItem
		if err := json.Unmarshal(body, &item); err != nil {
			return "", eris.Wrap(err, "github: unmarshal file metadata")
		}
		return item.SHA, nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", eris.Errorf("github: check file: unexpected status %d: %s", status, string(body))
	}
}

func (c *httpClient) UploadFile(ctx context.Context, owner, repo, path string, content []byte, message, sha string) error {
	payload := map[string]any{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		payload["sha"] = sha
	}
	status, body, err := c.do(ctx, http.MethodPut, "/repos/"+owner+"/"+repo+"/contents/"+path, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return eris.Errorf("github: upload file: unexpected status %d: %s", status, string(body))
	}
	return nil
}

func (c *httpClient) TriggerPagesBuild(ctx context.Context, owner, repo string) error {
	status, body, err := c.do(ctx, http.MethodPost, "/repos/"+owner+"/"+repo+"/pages/builds", nil)
	if err != nil {
		return err
	}
	if status != http.StatusCreated && status != http.StatusAccepted {
		return eris.Errorf("github: trigger pages build: unexpected status %d: %s", status, string(body))
	}
	return nil
}
