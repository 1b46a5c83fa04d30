// Package workflow implements the project samples: create a project and
// report it, then show or delete it by the ID the create sample printed.
package workflow

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/pakyas/foundry-samples/internal/client"
)

// Fixed inputs of the create-project sample.
const (
	SampleProjectName        = "My Sample Project"
	SampleProjectDescription = "A project created using the Java SDK"
)

// Credentials supplies the secret and endpoint used to build a client.
type Credentials interface {
	APIKey() (string, error)
	Endpoint() (string, error)
}

// ProjectsAPI is the subset of *client.Client the samples call.
type ProjectsAPI interface {
	CreateProject(ctx context.Context, name, description string) (*client.Project, error)
	GetProject(ctx context.Context, id string) (*client.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// ClientFactory builds an authenticated client from cfg.
type ClientFactory func(cfg client.Config) (ProjectsAPI, error)

// NewClient is the ClientFactory backed by client.New.
func NewClient(cfg client.Config) (ProjectsAPI, error) {
	c, err := client.New(cfg)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Options carries the optional client settings shared by all samples.
type Options struct {
	APIVersion string
	UserAgent  string
}

func connect(ctx context.Context, creds Credentials, newClient ClientFactory, opts Options) (ProjectsAPI, error) {
	apiKey, err := creds.APIKey()
	if err != nil {
		return nil, err
	}
	endpoint, err := creds.Endpoint()
	if err != nil {
		return nil, err
	}

	tflog.Debug(ctx, "building projects client", map[string]interface{}{
		"endpoint": endpoint,
	})

	c, err := newClient(client.Config{
		APIKey:     apiKey,
		Endpoint:   endpoint,
		APIVersion: opts.APIVersion,
		UserAgent:  opts.UserAgent,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating projects client")
	}
	return c, nil
}

// printProject writes the four labelled field lines.
func printProject(w io.Writer, p *client.Project) {
	fmt.Fprintf(w, "Project Name: %s\n", p.Name)
	fmt.Fprintf(w, "Project ID: %s\n", p.ID)
	fmt.Fprintf(w, "Description: %s\n", p.Description)
	fmt.Fprintf(w, "Created At: %s\n", p.CreatedAt)
}
