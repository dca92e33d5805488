package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"jira-new/pkg/config"
	"jira-new/pkg/prompt"
)

// createTicket prompts for whatever of title, description and project the
// command line and config did not supply, then creates the ticket.
func (app *App) createTicket(ctx context.Context, client tracker, cfg *config.Config, opts *options) error {
	summary := strings.TrimSpace(opts.title)
	if summary == "" {
		answer, err := app.prompter.Input(prompt.Question{
			Message:  "Ticket title:",
			Validate: required("title"),
		})
		if err != nil {
			return err
		}
		summary = strings.TrimSpace(answer)
	}
	if summary == "" {
		return &ValidationError{Msg: "title is required"}
	}

	description := opts.description
	if !opts.descriptionSet {
		answer, err := app.prompter.Input(prompt.Question{Message: "Description (optional, enter to skip):"})
		// Closed input only means there is no description.
		if err != nil && !errors.Is(err, prompt.ErrAborted) {
			return err
		}
		description = answer
	}
	description = strings.TrimSpace(description)

	project := cfg.DefaultProject
	if project == nil {
		var err error
		project, err = app.pickProject(ctx, client, true)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(app.stdout)
	app.progress("Creating ticket…")
	issue, err := client.CreateIssue(ctx, project.Key, summary, description)
	app.clearProgress()
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	fmt.Fprintln(app.stdout, app.styles.key.Render(issue.Key))
	fmt.Fprintln(app.stdout, app.styles.dim.Render(cfg.BrowseURL(issue.Key)))
	if err := copyToClipboard(issue.Key); err != nil {
		app.logger.Debug("clipboard unavailable", "error", err)
	} else {
		fmt.Fprintln(app.stdout, app.styles.dim.Render("Copied to clipboard."))
	}
	return nil
}
