package main

import (
	"fmt"
	"strings"

	"github.com/sitechat/sitechat"
)

// Run executes the query command.
func (c *QueryCmd) Run(deps *Dependencies) error {
	results, err := deps.Sessions.Search(deps.Ctx, c.Session, c.Question, c.K)
	if err != nil {
		if sitechat.ErrorCode(err) == sitechat.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: session %q has no index. Run 'sitechat crawl' first.\n", c.Session)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", sitechat.ErrorMessage(err))
		}
		return err
	}

	for i, r := range results {
		title := r.Chunk.Title
		if title == "" {
			title = r.Chunk.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "%d. %s (score %.3f)\n", i+1, title, r.Score)
		fmt.Fprintf(deps.Stdout, "   %s\n", r.Chunk.SourceURL)
		fmt.Fprintf(deps.Stdout, "%s\n", indent(strings.TrimSpace(r.Chunk.Text)))
		if i < len(results)-1 {
			fmt.Fprintln(deps.Stdout)
		}
	}

	return nil
}

func indent(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "   " + line
	}
	return strings.Join(lines, "\n")
}
