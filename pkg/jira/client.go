package jira

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

	"jira-new/pkg/adf"
	"jira-new/pkg/config"
)

const (
	apiPath = "/rest/api/3"

	// fieldSelection is the field list requested when fetching an issue.
	fieldSelection = "summary,status,description,subtasks,comment"

	unknown = "Unknown"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiToken   string
	logger     *slog.Logger
}

// NewClient returns a client for the Jira site and credentials in cfg.
// Requests have no timeout.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    config.NormalizeURL(cfg.JiraURL),
		email:      cfg.Email,
		apiToken:   cfg.APIToken,
		logger:     logger,
	}
}

type Project = config.Project

type CreatedIssue struct {
	ID  string `json:"id"`
	Key string `json:"key"`
}

type Subtask struct {
	Key     string
	Summary string
	Status  string
}

type Comment struct {
	Author  string
	Body    string
	Created string
}

// IssueDetail is an issue flattened for display, with rich-text fields
// already rendered to plain text.
type IssueDetail struct {
	Key            string
	Summary        string
	Status         string
	StatusCategory string
	Description    string
	Subtasks       []Subtask
	Comments       []Comment
}

type issueResponse struct {
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary     string          `json:"summary"`
	Status      *status         `json:"status"`
	Description json.RawMessage `json:"description"`
	Subtasks    []subtask       `json:"subtasks"`
	Comment     *commentBlock   `json:"comment"`
}

type status struct {
	Name           string `json:"name"`
	StatusCategory *struct {
		Name string `json:"name"`
	} `json:"statusCategory"`
}

type subtask struct {
	Key    string `json:"key"`
	Fields struct {
		Summary string  `json:"summary"`
		Status  *status `json:"status"`
	} `json:"fields"`
}

type commentBlock struct {
	Comments []comment `json:"comments"`
}

type comment struct {
	Author *struct {
		DisplayName string `json:"displayName"`
	} `json:"author"`
	Body    json.RawMessage `json:"body"`
	Created string          `json:"created"`
}

// makeRequest sends one request and returns the response body. Any
// non-2xx status becomes an *APIError.
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPath+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.email, c.apiToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("jira request", "method", method, "endpoint", endpoint, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	return respBody, nil
}

// ListProjects returns every project visible to the credentials, in
// the order Jira lists them. An empty list is an *EmptyResultError.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	body, err := c.makeRequest(ctx, http.MethodGet, "/project", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching projects: %w", err)
	}

	var projects []Project
	if err := json.Unmarshal(body, &projects); err != nil {
		return nil, fmt.Errorf("parsing projects response: %w", err)
	}
	if len(projects) == 0 {
		return nil, &EmptyResultError{
			What: "projects",
			Hint: "make sure your API token has access to read projects and that at least one project is set up",
		}
	}
	return projects, nil
}

// CreateIssue creates a Task in the project. A description that is empty
// after trimming is left out of the request.
func (c *Client) CreateIssue(ctx context.Context, projectKey, summary, description string) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":   map[string]string{"key": projectKey},
		"summary":   summary,
		"issuetype": map[string]string{"name": "Task"},
	}
	if strings.TrimSpace(description) != "" {
		fields["description"] = adf.FromText(description)
	}

	body, err := c.makeRequest(ctx, http.MethodPost, "/issue", map[string]any{"fields": fields})
	if err != nil {
		return nil, fmt.Errorf("creating issue: %w", err)
	}

	var created CreatedIssue
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("parsing created issue: %w", err)
	}
	return &created, nil
}

// FetchIssue returns the issue with its description and comments
// rendered to plain text.
func (c *Client) FetchIssue(ctx context.Context, issueKey string) (*IssueDetail, error) {
	endpoint := "/issue/" + url.PathEscape(issueKey) + "?fields=" + fieldSelection
	body, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching issue %s: %w", issueKey, err)
	}

	var issue issueResponse
	if err := json.Unmarshal(body, &issue); err != nil {
		return nil, fmt.Errorf("parsing issue %s: %w", issueKey, err)
	}
	return issue.detail(), nil
}

func (s *status) name() string {
	if s == nil || s.Name == "" {
		return unknown
	}
	return s.Name
}

func (s *status) category() string {
	if s == nil || s.StatusCategory == nil || s.StatusCategory.Name == "" {
		return unknown
	}
	return s.StatusCategory.Name
}

func (issue *issueResponse) detail() *IssueDetail {
	f := issue.Fields
	detail := &IssueDetail{
		Key:            issue.Key,
		Summary:        f.Summary,
		Status:         f.Status.name(),
		StatusCategory: f.Status.category(),
		Description:    adf.Render(adf.Parse(f.Description)),
		Subtasks:       make([]Subtask, 0, len(f.Subtasks)),
		Comments:       []Comment{},
	}

	for _, st := range f.Subtasks {
		detail.Subtasks = append(detail.Subtasks, Subtask{
			Key:     st.Key,
			Summary: st.Fields.Summary,
			Status:  st.Fields.Status.name(),
		})
	}

	if f.Comment != nil {
		for _, cm := range f.Comment.Comments {
			author := unknown
			if cm.Author != nil && cm.Author.DisplayName != "" {
				author = cm.Author.DisplayName
			}
			detail.Comments = append(detail.Comments, Comment{
				Author:  author,
				Body:    adf.Render(adf.Parse(cm.Body)),
				Created: cm.Created,
			})
		}
	}
	return detail
}
