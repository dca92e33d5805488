package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"
)

// PathEnv overrides the config file location when set.
const PathEnv = "JIRA_NEW_CONFIG"

type Project struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Config is the persisted tool configuration. Empty fields are omitted
// when saving, so a Config also serves as a partial update for Save.
type Config struct {
	JiraURL        string   `json:"jiraUrl,omitempty"`
	Email          string   `json:"email,omitempty"`
	APIToken       string   `json:"apiToken,omitempty"`
	DefaultProject *Project `json:"defaultProject,omitempty"`
}

// Complete reports whether the credentials needed to reach Jira are all set.
func (c *Config) Complete() bool {
	return c.JiraURL != "" && c.Email != "" && c.APIToken != ""
}

// BrowseURL returns the web URL of an issue.
func (c *Config) BrowseURL(issueKey string) string {
	return NormalizeURL(c.JiraURL) + "/browse/" + issueKey
}

// NormalizeURL trims surrounding whitespace and a trailing slash.
func NormalizeURL(u string) string {
	return strings.TrimSuffix(strings.TrimSpace(u), "/")
}

// Path returns the config file location: $JIRA_NEW_CONFIG, else
// $XDG_CONFIG_HOME/jira-tool/config.json, else ~/.config/jira-tool/config.json.
func Path() string {
	if envPath := os.Getenv(PathEnv); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "jira-tool", "config.json")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "jira-tool", "config.json")
}

// errUnparseable marks a config file that is not a JSON object.
var errUnparseable = errors.New("config is not a JSON object")

// Load reads the config at path. A missing or unparseable file yields an
// empty Config, and a known key whose value has the wrong type is left
// unset; neither is an error. Only other read failures are returned.
// What was discarded is reported on logger at debug level.
func Load(path string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	obj, err := readObject(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug("config file missing, starting empty", "path", path)
		return &Config{}, nil
	case errors.Is(err, errUnparseable):
		logger.Debug("config file unparseable, starting empty", "path", path, "error", err)
		return &Config{}, nil
	case err != nil:
		return nil, err
	}

	cfg, bad := decode(obj)
	for _, key := range bad {
		logger.Debug("ignoring config key with wrong type", "path", path, "key", key)
	}
	return cfg, nil
}

// decode fills a Config one key at a time and returns the known keys
// whose values did not fit their field.
func decode(obj map[string]json.RawMessage) (*Config, []string) {
	cfg := &Config{}
	fields := []struct {
		key string
		dst any
	}{
		{"jiraUrl", &cfg.JiraURL},
		{"email", &cfg.Email},
		{"apiToken", &cfg.APIToken},
		{"defaultProject", &cfg.DefaultProject},
	}

	var bad []string
	for _, f := range fields {
		raw, ok := obj[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, f.dst); err != nil {
			bad = append(bad, f.key)
		}
	}
	// A partly decoded project is worse than none.
	if slices.Contains(bad, "defaultProject") {
		cfg.DefaultProject = nil
	}
	return cfg, bad
}

// Save merges the non-empty fields of updates into the file at path and
// writes it back. Top-level keys this program does not know are kept.
// Known keys that Load would ignore for having the wrong type are
// dropped, as is the whole content of an unparseable file.
//
// The read-merge-write is not atomic and takes no lock: two concurrent
// invocations can lose one of the updates.
func Save(path string, updates Config) error {
	merged, err := readObject(path)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errUnparseable) {
		merged = make(map[string]json.RawMessage)
	} else if err != nil {
		return err
	}
	_, bad := decode(merged)
	for _, key := range bad {
		delete(merged, key)
	}

	b, err := json.Marshal(updates)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	// The file holds an API token.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

// readObject returns the top-level object stored at path. A missing
// file gives an error matching fs.ErrNotExist, a corrupt one an error
// matching errUnparseable.
func readObject(path string) (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", errUnparseable, err)
	}
	if obj == nil {
		return nil, errUnparseable
	}
	return obj, nil
}
