// Package commands implements the CLI subcommands
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagToken         = "token"
)

// environment variable names
const (
	envServerAddress = "SLIDESMITH_SERVER_ADDRESS"
	envToken         = "SLIDESMITH_API_TOKEN"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// serverAddress holds the target API server address. Flag parsing sets this.
	serverAddress string
	// authToken holds the bearer token sent with every request
	authToken string
)

// initClient initializes the API client
func initClient() error {
	var err error
	apiClient, err = client.NewClient(&client.Options{
		BaseURL:   serverAddress,
		AuthToken: authToken,
	})
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the slidesmith API server (env: SLIDESMITH_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().StringVarP(&authToken, flagToken, "t", "", "API access token (env: SLIDESMITH_API_TOKEN)")

	RootCmd.AddCommand(GetGenerateCmd())
	RootCmd.AddCommand(GetApproveCmd())
	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetHistoryCmd())
	RootCmd.AddCommand(GetSettingsCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "slidesmith",
	Short: "Slidesmith CLI - A command line interface for the slidesmith API",
	Long:  `Slidesmith CLI is a command line tool for starting and tracking slide generation jobs through the slidesmith API.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagToken) {
			if envTok := os.Getenv(envToken); envTok != "" {
				authToken = envTok
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		return initClient()
	},
}
