package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slidesmith/slidesmith/internal/db/models"
)

// jobOutput represents the filtered output for a job
type jobOutput struct {
	ID              string `json:"id"`
	Prompt          string `json:"prompt"`
	Stage           string `json:"stage"`
	Progress        int    `json:"progress"`
	StepDescription string `json:"step_description"`
	ResultLocator   string `json:"result_locator,omitempty"`
	ErrorDetail     string `json:"error_detail,omitempty"`
}

// jobListOutput represents the filtered output for a list of jobs
type jobListOutput struct {
	Jobs []jobOutput `json:"jobs"`
}

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)

	listJobsCmd.Flags().IntP("page", "p", 1, "Page of jobs to list")

	getJobCmd.Flags().StringP("id", "i", "", "Job ID to fetch")
	_ = getJobCmd.MarkFlagRequired("id")

	cancelJobCmd.Flags().StringP("id", "i", "", "Job ID to cancel")
	_ = cancelJobCmd.MarkFlagRequired("id")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage generation jobs",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your jobs, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")

		jobs, err := apiClient.ListJobs(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}

		output := jobListOutput{
			Jobs: make([]jobOutput, len(jobs)),
		}
		for i, job := range jobs {
			output.Jobs[i] = filterJob(&job)
		}

		return printJSON(output)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a specific job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		job, err := apiClient.GetJob(context.Background(), jobID)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}

		return printJSON(filterJob(job))
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel a running job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		jobID, _ := cmd.Flags().GetString("id")

		if err := apiClient.CancelJob(context.Background(), jobID); err != nil {
			return fmt.Errorf("error canceling job: %w", err)
		}

		fmt.Println("Cancellation requested for job", jobID)
		return nil
	},
}

func filterJob(job *models.Job) jobOutput {
	return jobOutput{
		ID:              job.ID,
		Prompt:          job.Prompt,
		Stage:           job.Stage.String(),
		Progress:        job.Progress,
		StepDescription: job.StepDescription,
		ResultLocator:   job.ResultLocator,
		ErrorDetail:     job.ErrorDetail,
	}
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
