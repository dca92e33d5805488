package main

import (
	"fmt"
	"strings"

	"jira-new/pkg/config"
	"jira-new/pkg/prompt"
)

const tokenURL = "https://id.atlassian.com/manage-profile/security/api-tokens"

func validateURL(s string) error {
	if !strings.HasPrefix(strings.TrimSpace(s), "http") {
		return &ValidationError{Msg: "Jira URL must be a valid URL starting with http"}
	}
	return nil
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") {
		return &ValidationError{Msg: "email must be a valid email address"}
	}
	return nil
}

func required(what string) prompt.Validator {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return &ValidationError{Msg: what + " is required"}
		}
		return nil
	}
}

// runSetup asks for the Jira site and credentials, offering the existing
// values as defaults, and saves them. The default project is kept.
func (app *App) runSetup(existing *config.Config) (*config.Config, error) {
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, app.styles.heading.Render("Jira Tool Setup"))
	fmt.Fprintln(app.stdout)

	jiraURL, err := app.prompter.Input(prompt.Question{
		Message:  "Jira URL (e.g. https://company.atlassian.net):",
		Default:  existing.JiraURL,
		Validate: validateURL,
	})
	if err != nil {
		return nil, err
	}
	email, err := app.prompter.Input(prompt.Question{
		Message:  "Jira email:",
		Default:  existing.Email,
		Validate: validateEmail,
	})
	if err != nil {
		return nil, err
	}
	token, err := app.prompter.Secret(prompt.Question{
		Message:  "API token (create at " + tokenURL + "):",
		Default:  existing.APIToken,
		Validate: required("API token"),
	})
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		JiraURL:        config.NormalizeURL(jiraURL),
		Email:          strings.TrimSpace(email),
		APIToken:       strings.TrimSpace(token),
		DefaultProject: existing.DefaultProject,
	}
	for _, check := range []error{
		validateURL(cfg.JiraURL),
		validateEmail(cfg.Email),
		required("API token")(cfg.APIToken),
	} {
		if check != nil {
			return nil, check
		}
	}

	if err := config.Save(app.configPath, *cfg); err != nil {
		return nil, fmt.Errorf("saving credentials: %w", err)
	}
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, app.styles.success.Render("✓ Credentials saved."))
	fmt.Fprintln(app.stdout)
	return cfg, nil
}
