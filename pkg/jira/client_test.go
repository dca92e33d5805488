package jira

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jira-new/pkg/adf"
	"jira-new/pkg/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(&config.Config{
		JiraURL:  server.URL + "/",
		Email:    "me@acme.test",
		APIToken: "tok",
	}, nil)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestRequestHeaders(t *testing.T) {
	var got *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeJSON(w, []Project{{ID: "1", Key: "ABC", Name: "Alphabet"}})
	})

	_, err := client.ListProjects(context.Background())
	require.NoError(t, err)

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("me@acme.test:tok"))
	assert.Equal(t, want, got.Header.Get("Authorization"))
	user, pass, ok := got.BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "me@acme.test", user)
	assert.Equal(t, "tok", pass)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "/rest/api/3/project", got.URL.Path)
	assert.Equal(t, http.MethodGet, got.Method)
}

func TestListProjects(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[
			{"id": "2", "key": "ZED", "name": "Zed", "projectTypeKey": "software"},
			{"id": "1", "key": "ABC", "name": "Alphabet"}
		]`)
	})

	projects, err := client.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Project{
		{ID: "2", Key: "ZED", Name: "Zed"},
		{ID: "1", Key: "ABC", Name: "Alphabet"},
	}, projects)
}

func TestListProjectsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})

	projects, err := client.ListProjects(context.Background())
	assert.Nil(t, projects)

	var empty *EmptyResultError
	require.ErrorAs(t, err, &empty)
	assert.Contains(t, empty.Hint, "access to read projects")

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestListProjectsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["unauthorized"]}`, http.StatusUnauthorized)
	})

	_, err := client.ListProjects(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "unauthorized")
	assert.Contains(t, err.Error(), "fetching projects")
}

func TestCreateIssue(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/issue", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, CreatedIssue{ID: "10001", Key: "ABC-7"})
	})

	created, err := client.CreateIssue(context.Background(), "ABC", "Fix login", "It breaks")
	require.NoError(t, err)
	assert.Equal(t, &CreatedIssue{ID: "10001", Key: "ABC-7"}, created)

	fields := body["fields"].(map[string]any)
	assert.Equal(t, map[string]any{"key": "ABC"}, fields["project"])
	assert.Equal(t, "Fix login", fields["summary"])
	assert.Equal(t, map[string]any{"name": "Task"}, fields["issuetype"])
	assert.Equal(t, map[string]any{
		"type":    "doc",
		"version": 1.0,
		"content": []any{map[string]any{
			"type":    "paragraph",
			"content": []any{map[string]any{"type": "text", "text": "It breaks"}},
		}},
	}, fields["description"])
}

func TestCreateIssueWithoutDescription(t *testing.T) {
	var body map[string]map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, CreatedIssue{ID: "1", Key: "ABC-1"})
	})

	_, err := client.CreateIssue(context.Background(), "ABC", "Title", "   ")
	require.NoError(t, err)
	assert.NotContains(t, body["fields"], "description")
}

func TestCreateIssueAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":{"summary":"required"}}`, http.StatusBadRequest)
	})

	_, err := client.CreateIssue(context.Background(), "ABC", "", "")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

const issueJSON = `{
	"id": "10042",
	"key": "ABC-42",
	"fields": {
		"summary": "Checkout fails",
		"status": {"name": "In Progress", "statusCategory": {"name": "In Progress"}},
		"description": {
			"type": "doc", "version": 1,
			"content": [
				{"type": "paragraph", "content": [{"type": "text", "text": "Steps:"}]},
				{"type": "bulletList", "content": [
					{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "add item"}]}]},
					{"type": "listItem", "content": [{"type": "paragraph", "content": [{"type": "text", "text": "pay"}]}]}
				]}
			]
		},
		"subtasks": [
			{"key": "ABC-43", "fields": {"summary": "Reproduce", "status": {"name": "Done"}}},
			{"key": "ABC-44", "fields": {"summary": "Patch"}}
		],
		"comment": {
			"comments": [
				{
					"author": {"displayName": "Alice"},
					"body": {"type": "doc", "version": 1, "content": [{"type": "paragraph", "content": [
						{"type": "mention", "attrs": {"text": "Bob"}}, {"type": "text", "text": " can you look?"}
					]}]},
					"created": "2025-03-01T09:30:00.000+0000"
				},
				{"body": null, "created": "2025-03-02T10:00:00.000+0000"}
			]
		}
	}
}`

func TestFetchIssue(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/ABC-42", r.URL.Path)
		gotQuery = r.URL.Query().Get("fields")
		io.WriteString(w, issueJSON)
	})

	issue, err := client.FetchIssue(context.Background(), "ABC-42")
	require.NoError(t, err)
	assert.Equal(t, "summary,status,description,subtasks,comment", gotQuery)

	assert.Equal(t, &IssueDetail{
		Key:            "ABC-42",
		Summary:        "Checkout fails",
		Status:         "In Progress",
		StatusCategory: "In Progress",
		Description:    "Steps:\n• add item\n• pay",
		Subtasks: []Subtask{
			{Key: "ABC-43", Summary: "Reproduce", Status: "Done"},
			{Key: "ABC-44", Summary: "Patch", Status: "Unknown"},
		},
		Comments: []Comment{
			{Author: "Alice", Body: "@Bob can you look?", Created: "2025-03-01T09:30:00.000+0000"},
			{Author: "Unknown", Body: "", Created: "2025-03-02T10:00:00.000+0000"},
		},
	}, issue)
}

func TestFetchIssueMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"key": "ABC-1", "fields": {"summary": "Bare"}}`)
	})

	issue, err := client.FetchIssue(context.Background(), "ABC-1")
	require.NoError(t, err)
	assert.Equal(t, "Unknown", issue.Status)
	assert.Equal(t, "Unknown", issue.StatusCategory)
	assert.Empty(t, issue.Description)
	assert.Empty(t, issue.Subtasks)
	assert.Empty(t, issue.Comments)
}

func TestFetchIssueNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["Issue does not exist"]}`, http.StatusNotFound)
	})

	_, err := client.FetchIssue(context.Background(), "ABC-999")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "ABC-999")
}

// A description sent through CreateIssue comes back unchanged when the
// stored document is fetched and rendered.
func TestDescriptionRoundTrip(t *testing.T) {
	var stored json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Fields struct {
					Description json.RawMessage `json:"description"`
				} `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			stored = body.Fields.Description
			writeJSON(w, CreatedIssue{ID: "1", Key: "ABC-1"})
		case http.MethodGet:
			writeJSON(w, map[string]any{
				"key":    "ABC-1",
				"fields": map[string]any{"summary": "t", "description": stored},
			})
		}
	})

	const description = "first line\nsecond line"
	created, err := client.CreateIssue(context.Background(), "ABC", "t", description)
	require.NoError(t, err)

	issue, err := client.FetchIssue(context.Background(), created.Key)
	require.NoError(t, err)
	assert.Equal(t, description, issue.Description)
	assert.Equal(t, description, adf.Render(adf.Parse(stored)))
}
