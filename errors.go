package main

import (
	"errors"
	"fmt"
	"io"

	"jira-new/pkg/jira"
)

// ValidationError is a required input that was missing or malformed.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// UsageError is a malformed command line.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// printError writes err as one prefixed line, followed by a hint for the
// error kinds that have one.
func printError(w io.Writer, err error) {
	s := newStyles(w)

	var usage *UsageError
	if errors.As(err, &usage) {
		fmt.Fprintln(w, s.err.Render("Usage error:"), usage.Msg)
		fmt.Fprintln(w, s.dim.Render("Run 'jira-new --help' for usage."))
		return
	}

	fmt.Fprintln(w, s.err.Render("Error:"), err)

	var empty *jira.EmptyResultError
	if errors.As(err, &empty) && empty.Hint != "" {
		fmt.Fprintln(w, s.dim.Render("Hint: "+empty.Hint))
	}
}
