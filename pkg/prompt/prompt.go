// Package prompt asks the user questions on a terminal. The Prompter
// interface lets command logic run against a scripted implementation in
// tests.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ErrAborted is returned when the user cancels a prompt or input ends
// before an answer is given.
var ErrAborted = errors.New("prompt aborted")

// Validator rejects an answer by returning an error describing why.
type Validator func(answer string) error

// Question is a free-text question. An empty answer is replaced by
// Default before validation.
type Question struct {
	Message  string
	Default  string
	Validate Validator
}

type Prompter interface {
	Input(q Question) (string, error)
	// Secret is Input without echoing the answer. The default is never
	// shown.
	Secret(q Question) (string, error)
	// Select returns the index of the chosen option.
	Select(message string, options []string) (int, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// Terminal prompts on a pair of streams. When in is a terminal, secrets
// are read without echo and Select opens a full-screen list; otherwise
// every prompt is line based.
type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	fd          int
	interactive bool
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	t := &Terminal{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok {
		t.fd = int(f.Fd())
		t.interactive = term.IsTerminal(t.fd) && isTerminal(out)
	}
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned with a nil error; io.EOF is returned
// only when nothing was read.
func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (t *Terminal) ask(q Question, read func() (string, error), showDefault bool) (string, error) {
	for {
		fmt.Fprint(t.out, "? ", q.Message)
		if q.Default != "" {
			if showDefault {
				fmt.Fprintf(t.out, " (%s)", q.Default)
			} else {
				fmt.Fprint(t.out, " (leave empty to keep current)")
			}
		}
		fmt.Fprint(t.out, " ")

		answer, err := read()
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = q.Default
		}
		if q.Validate == nil {
			return answer, nil
		}
		verr := q.Validate(answer)
		if verr == nil {
			return answer, nil
		}
		fmt.Fprintf(t.out, "  ✗ %v\n", verr)
	}
}

func (t *Terminal) Input(q Question) (string, error) {
	return t.ask(q, t.readLine, true)
}

func (t *Terminal) Secret(q Question) (string, error) {
	if !t.interactive {
		return t.ask(q, t.readLine, false)
	}
	return t.ask(q, func() (string, error) {
		b, err := term.ReadPassword(t.fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("reading secret: %w", err)
		}
		return string(b), nil
	}, false)
}

func (t *Terminal) Select(message string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to select from")
	}
	if t.interactive {
		return runSelector(message, options)
	}

	fmt.Fprintf(t.out, "? %s\n", message)
	for i, option := range options {
		fmt.Fprintf(t.out, "  %d) %s\n", i+1, option)
	}
	answer, err := t.Input(Question{
		Message: "Number:",
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > len(options) {
				return fmt.Errorf("enter a number between 1 and %d", len(options))
			}
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	n, _ := strconv.Atoi(answer)
	return n - 1, nil
}

func (t *Terminal) Confirm(message string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(t.out, "? %s (%s) ", message, hint)
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return defaultValue, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "  ✗ answer y or n")
	}
}
