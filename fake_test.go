package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"jira-new/pkg/config"
	"jira-new/pkg/jira"
	"jira-new/pkg/prompt"
)

// fakeJira serves the three endpoints the tool uses from memory.
type fakeJira struct {
	mu       sync.Mutex
	projects []jira.Project
	issues   map[string]string
	// failWith, when non-zero, is returned as the status of every request.
	failWith int

	requests []string
	created  []map[string]any
}

func newFakeJira(t *testing.T) (*fakeJira, *httptest.Server) {
	t.Helper()
	f := &fakeJira{
		projects: []jira.Project{
			{ID: "3", Key: "ZED", Name: "Zed"},
			{ID: "1", Key: "ABC", Name: "Alphabet"},
			{ID: "2", Key: "MID", Name: "Middle"},
		},
		issues: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/rest/api/3/project", f.handleProjects)
	mux.HandleFunc("/rest/api/3/issue", f.handleCreate)
	mux.HandleFunc("/rest/api/3/issue/", f.handleIssue)
	server := httptest.NewServer(f.record(mux))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeJira) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		failWith := f.failWith
		f.mu.Unlock()
		if failWith != 0 {
			http.Error(w, `{"errorMessages":["nope"]}`, failWith)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeJira) handleProjects(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	json.NewEncoder(w).Encode(f.projects)
}

func (f *fakeJira) handleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.created = append(f.created, body)
	n := len(f.created)
	f.mu.Unlock()

	fields, _ := body["fields"].(map[string]any)
	project, _ := fields["project"].(map[string]any)
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"id": "1000%d", "key": "%s-%d"}`, n, project["key"], n)
}

func (f *fakeJira) handleIssue(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	issue, ok := f.issues[path.Base(r.URL.Path)]
	f.mu.Unlock()
	if !ok {
		http.Error(w, `{"errorMessages":["Issue does not exist or you do not have permission to see it."]}`, http.StatusNotFound)
		return
	}
	fmt.Fprint(w, issue)
}

func (f *fakeJira) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// useConfig points the tool at a fresh config file holding cfg and
// returns its path. A zero cfg leaves the file absent.
func useConfig(t *testing.T, cfg config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jira-tool", "config.json")
	t.Setenv(config.PathEnv, path)
	if cfg != (config.Config{}) {
		require.NoError(t, config.Save(path, cfg))
	}
	return path
}

// stubClipboard records copied text and fails when err is set.
func stubClipboard(t *testing.T, err error) *[]string {
	t.Helper()
	var copied []string
	old := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = append(copied, s)
		return err
	}
	t.Cleanup(func() { copyToClipboard = old })
	return &copied
}

// scriptedPrompter answers prompts from fixed lists, in order.
type scriptedPrompter struct {
	inputs   []string
	secrets  []string
	selects  []int
	confirms []bool

	asked []string
}

func (p *scriptedPrompter) Input(q prompt.Question) (string, error) {
	p.asked = append(p.asked, q.Message)
	if len(p.inputs) == 0 {
		return "", prompt.ErrAborted
	}
	answer := p.inputs[0]
	p.inputs = p.inputs[1:]
	if answer == "" {
		answer = q.Default
	}
	return answer, nil
}

func (p *scriptedPrompter) Secret(q prompt.Question) (string, error) {
	p.asked = append(p.asked, q.Message)
	if len(p.secrets) == 0 {
		return "", prompt.ErrAborted
	}
	answer := p.secrets[0]
	p.secrets = p.secrets[1:]
	if answer == "" {
		answer = q.Default
	}
	return answer, nil
}

func (p *scriptedPrompter) Select(message string, options []string) (int, error) {
	p.asked = append(p.asked, message)
	if len(p.selects) == 0 {
		return 0, prompt.ErrAborted
	}
	i := p.selects[0]
	p.selects = p.selects[1:]
	return i, nil
}

func (p *scriptedPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	p.asked = append(p.asked, message)
	if len(p.confirms) == 0 {
		return false, prompt.ErrAborted
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]
	return answer, nil
}
