package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"jira-new/pkg/config"
	"jira-new/pkg/jira"
)

// timestamp is the layout Jira uses for created/updated fields.
const timestamp = "2006-01-02T15:04:05.999-0700"

func (app *App) readIssue(ctx context.Context, client tracker, cfg *config.Config, key string) error {
	key = strings.ToUpper(strings.TrimSpace(key))

	app.progress("Fetching " + key + "…")
	issue, err := client.FetchIssue(ctx, key)
	app.clearProgress()
	if err != nil {
		return err
	}

	printIssue(app.stdout, app.styles, issue, cfg.BrowseURL(issue.Key))
	return nil
}

func printIssue(w io.Writer, s styles, issue *jira.IssueDetail, url string) {
	fmt.Fprintln(w, s.key.Render(issue.Key), s.heading.Render(issue.Summary))
	fmt.Fprintln(w, "Status:", s.status(issue.StatusCategory).Render(issue.Status))
	fmt.Fprintln(w, s.dim.Render(url))

	fmt.Fprintln(w)
	fmt.Fprintln(w, s.heading.Render("Description"))
	if issue.Description == "" {
		fmt.Fprintln(w, s.dim.Render("  No description."))
	} else {
		fmt.Fprintln(w, indentLines(issue.Description, "  "))
	}

	if len(issue.Subtasks) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Subtasks (%d)", len(issue.Subtasks))))
		for _, st := range issue.Subtasks {
			fmt.Fprintf(w, "  %s  %s  %s\n", s.key.Render(st.Key), s.dim.Render("["+st.Status+"]"), st.Summary)
		}
	}

	if len(issue.Comments) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.heading.Render(fmt.Sprintf("Comments (%d)", len(issue.Comments))))
		for i, c := range issue.Comments {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "  %s %s\n", s.heading.Render(c.Author), s.dim.Render("· "+formatCreated(c.Created)))
			if c.Body != "" {
				fmt.Fprintln(w, indentLines(c.Body, "    "))
			}
		}
	}
}

// formatCreated shortens a Jira timestamp, keeping its own offset.
// Values that do not parse are returned unchanged.
func formatCreated(s string) string {
	t, err := time.Parse(timestamp, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02 15:04")
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
