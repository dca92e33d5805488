package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/atotto/clipboard"

	"jira-new/pkg/config"
	"jira-new/pkg/jira"
	"jira-new/pkg/prompt"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// tracker is the part of the Jira client the commands use.
type tracker interface {
	ListProjects(ctx context.Context) ([]jira.Project, error)
	CreateIssue(ctx context.Context, projectKey, summary, description string) (*jira.CreatedIssue, error)
	FetchIssue(ctx context.Context, issueKey string) (*jira.IssueDetail, error)
}

// App runs one invocation of the tool.
type App struct {
	prompter   prompt.Prompter
	stdout     io.Writer
	stderr     io.Writer
	configPath string
	logger     *slog.Logger
	styles     styles
	// interactive enables transient progress text on stdout.
	interactive bool
	// newTracker defaults to jira.NewClient.
	newTracker func(cfg *config.Config) tracker
}

// Run loads the config, runs setup when it is incomplete or requested,
// and then dispatches to one command. Setup never ends the run on its
// own; with no other flags the create flow follows it.
func (app *App) Run(ctx context.Context, opts *options) error {
	cfg, err := config.Load(app.configPath, app.logger)
	if err != nil {
		return err
	}
	app.logger.Debug("loaded config", "path", app.configPath, "complete", cfg.Complete())

	if opts.setup || !cfg.Complete() {
		cfg, err = app.runSetup(cfg)
		if err != nil {
			return err
		}
	}

	client := app.client(cfg)
	switch {
	case opts.project:
		return app.changeProject(ctx, client)
	case opts.readSet:
		return app.readIssue(ctx, client, cfg, opts.read)
	default:
		return app.createTicket(ctx, client, cfg, opts)
	}
}

func (app *App) client(cfg *config.Config) tracker {
	if app.newTracker != nil {
		return app.newTracker(cfg)
	}
	return jira.NewClient(cfg, app.logger)
}

func (app *App) progress(msg string) {
	if app.interactive {
		fmt.Fprint(app.stdout, app.styles.dim.Render(msg))
	}
}

func (app *App) clearProgress() {
	if app.interactive {
		fmt.Fprint(app.stdout, "\r\x1b[K")
	}
}
