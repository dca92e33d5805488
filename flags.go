package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

type options struct {
	setup       bool
	project     bool
	verbose     bool
	help        bool
	read        string
	readSet     bool
	description string
	// descriptionSet distinguishes -d "" from no -d at all.
	descriptionSet bool
	title          string
}

func newFlagSet(opts *options) *pflag.FlagSet {
	fs := pflag.NewFlagSet("jira-new", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	fs.BoolVar(&opts.setup, "setup", false, "re-enter Jira URL, email and API token")
	fs.BoolVar(&opts.project, "project", false, "choose and save the default project")
	fs.StringVarP(&opts.read, "read", "r", "", "show an existing issue by `KEY`")
	fs.StringVarP(&opts.description, "description", "d", "", "ticket description (skips the prompt)")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests and config handling to stderr")
	fs.BoolVarP(&opts.help, "help", "h", false, "show this help")
	return fs
}

// parseArgs interprets the command line. Malformed invocations return a
// *UsageError before any config or network work happens.
func parseArgs(args []string) (*options, error) {
	opts := &options{}
	fs := newFlagSet(opts)
	if err := fs.Parse(args); err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}

	opts.readSet = fs.Changed("read")
	opts.descriptionSet = fs.Changed("description")
	opts.title = strings.Join(fs.Args(), " ")

	if opts.readSet {
		key := strings.TrimSpace(opts.read)
		if key == "" || strings.HasPrefix(key, "-") {
			return nil, &UsageError{Msg: "--read needs an issue key, e.g. --read ABC-123"}
		}
		opts.read = strings.ToUpper(key)
	}
	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  jira-new [title] [-d description]   create a ticket")
	fmt.Fprintln(w, "  jira-new --read KEY                 show a ticket")
	fmt.Fprintln(w, "  jira-new --project                  change the default project")
	fmt.Fprintln(w, "  jira-new --setup                    change credentials")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, newFlagSet(&options{}).FlagUsages())
}
