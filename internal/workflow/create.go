package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// CreateProject creates one project with the sample name and description
// and reports the result. Running it twice creates two projects.
type CreateProject struct {
	Credentials Credentials
	NewClient   ClientFactory
	Out         io.Writer
	Options     Options
}

// Run executes the sample. Any failure before the remote call returns leaves
// no success or field lines on Out.
func (w *CreateProject) Run(ctx context.Context) error {
	c, err := connect(ctx, w.Credentials, w.NewClient, w.Options)
	if err != nil {
		return err
	}

	fmt.Fprintln(w.Out, "Creating project...")
	project, err := c.CreateProject(ctx, SampleProjectName, SampleProjectDescription)
	if err != nil {
		tflog.Debug(ctx, "project creation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	fmt.Fprintln(w.Out, "Project created successfully!")
	printProject(w.Out, project)
	fmt.Fprintf(w.Out, "Set PROJECT_ID=%s in your .env file to use this project in other samples\n", project.ID)

	return nil
}
