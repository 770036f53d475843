package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the sessions command.
func (c *SessionsCmd) Run(deps *Dependencies) error {
	ids, err := deps.Sessions.List(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No sessions found. Use 'sitechat crawl' to create one.")
		return nil
	}

	for _, id := range ids {
		fmt.Fprintln(deps.Stdout, id)
	}

	return nil
}
