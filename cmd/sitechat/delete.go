package main

import (
	"fmt"

	"github.com/sitechat/sitechat"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if err := deps.Sessions.Delete(deps.Ctx, c.Session); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %q\n", c.Session)
	return nil
}
