package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/types"
)

func init() {
	settingsCmd.AddCommand(getSettingsCmd)
	settingsCmd.AddCommand(updateSettingsCmd)

	updateSettingsCmd.Flags().String("auto-approval", "", "Set default auto approval (true/false)")
	updateSettingsCmd.Flags().String("notifications", "", "Enable completion notifications (true/false)")
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage account settings",
}

var getSettingsCmd = &cobra.Command{
	Use:   "get",
	Short: "Show your current settings",
	RunE: func(_ *cobra.Command, _ []string) error {
		settings, err := apiClient.GetSettings(context.Background())
		if err != nil {
			return fmt.Errorf("error fetching settings: %w", err)
		}
		return printJSON(settings)
	},
}

var updateSettingsCmd = &cobra.Command{
	Use:   "update",
	Short: "Update one or more settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := &types.UpdateSettingsRequest{}

		if v, err := boolFlag(cmd.Flags().GetString("auto-approval")); err != nil {
			return err
		} else if v != nil {
			req.AutoApproval = v
		}
		if v, err := boolFlag(cmd.Flags().GetString("notifications")); err != nil {
			return err
		} else if v != nil {
			req.NotificationEnabled = v
		}

		if req.AutoApproval == nil && req.NotificationEnabled == nil {
			return fmt.Errorf("nothing to update, pass at least one flag")
		}

		settings, err := apiClient.UpdateSettings(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error updating settings: %w", err)
		}
		return printJSON(settings)
	},
}

// boolFlag parses a tri-state string flag: unset, "true" or "false"
func boolFlag(value string, flagErr error) (*bool, error) {
	if flagErr != nil {
		return nil, flagErr
	}
	switch value {
	case "":
		return nil, nil
	case "true":
		v := true
		return &v, nil
	case "false":
		v := false
		return &v, nil
	default:
		return nil, fmt.Errorf("invalid boolean value %q, expected true or false", value)
	}
}

// GetSettingsCmd returns the settings command
func GetSettingsCmd() *cobra.Command {
	return settingsCmd
}
