package main

import (
	"context"
	"io"
	"os"

	"jira-new/pkg/config"
	"jira-new/pkg/prompt"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		printError(stderr, err)
		return 1
	}
	if opts.help {
		printUsage(stdout)
		return 0
	}

	app := &App{
		prompter:    prompt.NewTerminal(stdin, stdout),
		stdout:      stdout,
		stderr:      stderr,
		configPath:  config.Path(),
		logger:      newLogger(stderr, opts.verbose),
		styles:      newStyles(stdout),
		interactive: isTerminal(stdout),
	}
	if err := app.Run(context.Background(), opts); err != nil {
		printError(stderr, err)
		return 1
	}
	return 0
}
