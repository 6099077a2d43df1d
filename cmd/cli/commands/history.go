package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// historyOutput represents the filtered output for a history entry
type historyOutput struct {
	JobID           string `json:"job_id"`
	Title           string `json:"title"`
	SlideCount      int    `json:"slide_count"`
	ArtifactLocator string `json:"artifact_locator"`
	CreatedAt       string `json:"created_at"`
}

func init() {
	historyCmd.Flags().IntP("page", "p", 1, "Page of history entries to list")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed generations, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")

		entries, err := apiClient.ListHistory(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching history: %w", err)
		}

		output := make([]historyOutput, len(entries))
		for i, entry := range entries {
			output[i] = historyOutput{
				JobID:           entry.JobID,
				Title:           entry.Title,
				SlideCount:      entry.SlideCount,
				ArtifactLocator: entry.ArtifactLocator,
				CreatedAt:       entry.CreatedAt.Format("2006-01-02 15:04:05"),
			}
		}

		return printJSON(output)
	},
}

// GetHistoryCmd returns the history command
func GetHistoryCmd() *cobra.Command {
	return historyCmd
}
