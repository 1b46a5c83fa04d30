package commands

import (
	"context"

	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/spf13/cobra"

	"github.com/pakyas/foundry-samples/internal/config"
	"github.com/pakyas/foundry-samples/internal/logging"
	"github.com/pakyas/foundry-samples/internal/workflow"
)

// runner is implemented by every workflow sample.
type runner interface {
	Run(ctx context.Context) error
}

// CreateProject returns the create-project command.
func CreateProject(envFile *string, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "create-project",
		Short: "Create a sample project and print its ID",
		Long: `Create a project named "My Sample Project" and print its fields.

The command reads AZURE_API_KEY and AZURE_ENDPOINT from the environment or
the .env file. On success it prints the PROJECT_ID line to add to .env for
the get-project and delete-project samples.

Running the command twice creates two projects.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *envFile, func(cfg *config.Loader) runner {
				return &workflow.CreateProject{
					Credentials: cfg,
					NewClient:   newClient,
					Out:         cmd.OutOrStdout(),
					Options:     options(cfg, version),
				}
			})
		},
	}
}

// GetProject returns the get-project command.
func GetProject(envFile *string, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "get-project",
		Short: "Print the project identified by PROJECT_ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *envFile, func(cfg *config.Loader) runner {
				return &workflow.ShowProject{
					Config:    cfg,
					NewClient: newClient,
					Out:       cmd.OutOrStdout(),
					Options:   options(cfg, version),
				}
			})
		},
	}
}

// DeleteProject returns the delete-project command.
func DeleteProject(envFile *string, version string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-project",
		Short: "Delete the project identified by PROJECT_ID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, *envFile, func(cfg *config.Loader) runner {
				return &workflow.DeleteProject{
					Config:    cfg,
					NewClient: newClient,
					Out:       cmd.OutOrStdout(),
					Options:   options(cfg, version),
				}
			})
		},
	}
}

func run(cmd *cobra.Command, envFile string, build func(cfg *config.Loader) runner) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.NewContext(ctx, cfg.LogLevel())

	tflog.Debug(ctx, "running sample", map[string]interface{}{
		"command":  cmd.Name(),
		"env_file": envFile,
	})

	return build(cfg).Run(ctx)
}

func options(cfg *config.Loader, version string) workflow.Options {
	return workflow.Options{
		APIVersion: cfg.APIVersion(),
		UserAgent:  "foundry-samples/" + version,
	}
}
