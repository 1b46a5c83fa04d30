// Projects API samples
//
// Demonstrates creating a project through the projects API, then reading
// or deleting it by the ID the create sample prints.
// Commands: create-project, get-project, delete-project
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pakyas/foundry-samples/internal/commands"
)

// These will be set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd := commands.Root(version)
	cmd.Version = fmt.Sprintf("%s (commit %s)", version, commit)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
