package main

import (
	"context"
	"fmt"
	"sort"

	"jira-new/pkg/config"
)

// pickProject lists the visible projects sorted by key and lets the user
// choose one. The choice is saved as the default unless ask is set and
// the user declines.
func (app *App) pickProject(ctx context.Context, client tracker, ask bool) (*config.Project, error) {
	app.progress("Fetching projects…")
	projects, err := client.ListProjects(ctx)
	app.clearProgress()
	if err != nil {
		return nil, err
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].Key < projects[j].Key
	})

	width := 0
	for _, p := range projects {
		width = max(width, len(p.Key))
	}
	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = fmt.Sprintf("%-*s  %s", width, p.Key, p.Name)
	}

	i, err := app.prompter.Select("Select a project:", labels)
	if err != nil {
		return nil, err
	}
	project := projects[i]

	remember := true
	if ask {
		remember, err = app.prompter.Confirm("Remember as default project?", true)
		if err != nil {
			return nil, err
		}
	}
	if remember {
		if err := config.Save(app.configPath, config.Config{DefaultProject: &project}); err != nil {
			return nil, fmt.Errorf("saving default project: %w", err)
		}
		app.logger.Debug("saved default project", "key", project.Key)
	}
	return &project, nil
}

// changeProject always saves the chosen project as the default.
func (app *App) changeProject(ctx context.Context, client tracker) error {
	project, err := app.pickProject(ctx, client, false)
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, app.styles.success.Render("✓ Default project updated:"), app.styles.key.Render(project.Key))
	return nil
}
