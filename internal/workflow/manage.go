package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// ProjectIDSource supplies the project ID recorded by the create sample.
type ProjectIDSource interface {
	Credentials
	ProjectID() (string, error)
}

// ShowProject fetches the configured project and prints its fields.
type ShowProject struct {
	Config    ProjectIDSource
	NewClient ClientFactory
	Out       io.Writer
	Options   Options
}

// Run executes the sample.
func (w *ShowProject) Run(ctx context.Context) error {
	id, err := w.Config.ProjectID()
	if err != nil {
		return err
	}

	c, err := connect(ctx, w.Config, w.NewClient, w.Options)
	if err != nil {
		return err
	}

	project, err := c.GetProject(ctx, id)
	if err != nil {
		return errors.Wrapf(err, "project %s", id)
	}

	printProject(w.Out, project)
	return nil
}

// DeleteProject deletes the configured project.
type DeleteProject struct {
	Config    ProjectIDSource
	NewClient ClientFactory
	Out       io.Writer
	Options   Options
}

// Run executes the sample.
func (w *DeleteProject) Run(ctx context.Context) error {
	id, err := w.Config.ProjectID()
	if err != nil {
		return err
	}

	c, err := connect(ctx, w.Config, w.NewClient, w.Options)
	if err != nil {
		return err
	}

	if err := c.DeleteProject(ctx, id); err != nil {
		return errors.Wrapf(err, "project %s", id)
	}

	fmt.Fprintf(w.Out, "Deleted project %s\n", id)
	return nil
}
