package jira

import "fmt"

// APIError is a non-2xx response from Jira.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
}

// EmptyResultError means Jira answered successfully but returned nothing
// to choose from, which usually points at permissions or an unfinished
// site setup rather than a transient failure.
type EmptyResultError struct {
	What string
	Hint string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no %s found", e.What)
}
