package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/types"
)

func init() {
	generateCmd.Flags().StringP("prompt", "p", "", "Topic prompt for the slide deck")
	_ = generateCmd.MarkFlagRequired("prompt")
	generateCmd.Flags().StringSliceP("reference-url", "r", nil, "Reference URL to ground the content (repeatable)")
	generateCmd.Flags().String("template-id", "", "Slide template ID to use")
	generateCmd.Flags().IntP("max-slides", "m", 0, "Maximum number of slides")
	generateCmd.Flags().BoolP("auto-approval", "a", false, "Skip the agenda approval gate")
	generateCmd.Flags().Bool("images", false, "Include images in the deck")
	generateCmd.Flags().Bool("tables", false, "Include tables in the deck")

	approveCmd.Flags().StringP("id", "i", "", "Job ID awaiting approval")
	_ = approveCmd.MarkFlagRequired("id")
	approveCmd.Flags().Bool("reject", false, "Reject the agenda instead of approving it")
	approveCmd.Flags().String("agenda-file", "", "Path to an edited agenda JSON document")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Start a new slide generation job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		prompt, _ := cmd.Flags().GetString("prompt")
		refURLs, _ := cmd.Flags().GetStringSlice("reference-url")
		templateID, _ := cmd.Flags().GetString("template-id")
		maxSlides, _ := cmd.Flags().GetInt("max-slides")
		images, _ := cmd.Flags().GetBool("images")
		tables, _ := cmd.Flags().GetBool("tables")

		req := &types.GenerateRequest{
			Prompt:        prompt,
			ReferenceURLs: refURLs,
			TemplateID:    templateID,
			MaxSlides:     maxSlides,
			IncludeImages: images,
			IncludeTables: tables,
		}

		// Leaving the flag unset defers to the stored account default
		if cmd.Flags().Changed("auto-approval") {
			autoApproval, _ := cmd.Flags().GetBool("auto-approval")
			req.AutoApproval = &autoApproval
		}

		resp, err := apiClient.StartJob(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error starting job: %w", err)
		}

		return printJSON(resp)
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Approve or reject a pending agenda",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")
		reject, _ := cmd.Flags().GetBool("reject")
		agendaFile, _ := cmd.Flags().GetString("agenda-file")

		req := &types.ApprovalRequest{
			JobID:    jobID,
			Approved: !reject,
		}

		if agendaFile != "" {
			agenda, err := readAgendaFile(agendaFile)
			if err != nil {
				return err
			}
			req.Agenda = agenda
		}

		resp, err := apiClient.DecideApproval(context.Background(), req)
		if err != nil {
			return fmt.Errorf("error submitting decision: %w", err)
		}

		return printJSON(resp)
	},
}

// readAgendaFile loads an edited agenda document from disk
func readAgendaFile(path string) (*types.Agenda, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading agenda file: %w", err)
	}
	var agenda types.Agenda
	if err := json.Unmarshal(data, &agenda); err != nil {
		return nil, fmt.Errorf("error parsing agenda file: %w", err)
	}
	return &agenda, nil
}

// printJSON pretty prints a response value
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}

// GetGenerateCmd returns the generate command
func GetGenerateCmd() *cobra.Command {
	return generateCmd
}

// GetApproveCmd returns the approve command
func GetApproveCmd() *cobra.Command {
	return approveCmd
}
