// Package commands defines the CLI command structure and flag bindings.
//
// Each sample subcommand loads configuration, installs the root logger on
// the command context, and delegates to a runner in the workflow package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/pakyas/foundry-samples/internal/config"
	"github.com/pakyas/foundry-samples/internal/workflow"
)

// newClient builds the projects client for every sample. Replaced in tests.
var newClient workflow.ClientFactory = workflow.NewClient

// Root returns the root command for the samples CLI.
func Root(version string) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "foundry-samples",
		Short:         "Samples for the projects API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Path to the .env file holding AZURE_API_KEY, AZURE_ENDPOINT and PROJECT_ID")

	cmd.AddCommand(CreateProject(&envFile, version))
	cmd.AddCommand(GetProject(&envFile, version))
	cmd.AddCommand(DeleteProject(&envFile, version))

	return cmd
}
