package pipeline_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith/internal/agents"
	"github.com/slidesmith/slidesmith/internal/db"
	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/pipeline"
	"github.com/slidesmith/slidesmith/internal/types"
)

const testOwner = "user-1"

// testHarness bundles everything an engine test needs
type testHarness struct {
	Engine  *pipeline.Engine
	Jobs    *repos.JobRepository
	History *repos.HistoryRepository
	Mock    *agents.MockCaller
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	dbFile := filepath.Join(t.TempDir(), "test.db")
	gormDB, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, db.Migrate(gormDB), "failed to migrate test database")
	t.Cleanup(func() {
		sqlDB, err := gormDB.DB()
		if err == nil && sqlDB != nil {
			_ = sqlDB.Close()
		}
	})

	jobs := repos.NewJobRepository(gormDB)
	history := repos.NewHistoryRepository(gormDB)
	mock := agents.NewMockCaller()

	return &testHarness{
		Engine:  pipeline.New(jobs, history, mock, 5*time.Second),
		Jobs:    jobs,
		History: history,
		Mock:    mock,
	}
}

// programHappyPath gives every worker a successful canned result
func (h *testHarness) programHappyPath() types.Agenda {
	agenda := types.Agenda{
		Sections: []types.AgendaSection{
			{PageNumber: 1, Title: "Q3 Results", Content: "revenue overview"},
			{PageNumber: 2, Title: "Outlook", Content: "next quarter"},
			{PageNumber: 3, Title: "Questions", Content: "open floor"},
		},
		TotalPages:        3,
		EstimatedDuration: 15,
	}
	h.Mock.Results[types.AgentAgenda] = agenda
	h.Mock.Results[types.AgentInformation] = types.CollectResult{
		Findings: []types.Finding{
			{PageNumber: 1, Source: "https://example.com/q3", Content: "revenue up 12%"},
		},
	}
	h.Mock.Results[types.AgentSlides] = types.AssembleResult{
		ArtifactLocator: "artifacts/user-1/decks/q3.pptx",
	}
	h.Mock.Results[types.AgentReview] = types.ReviewResult{Score: 92}
	return agenda
}

func (h *testHarness) createJob(t *testing.T, autoApproval bool) *models.Job {
	t.Helper()
	job := &models.Job{
		OwnerID:       testOwner,
		Prompt:        "q3 results deck",
		MaxSlides:     10,
		AutoApproval:  autoApproval,
		IncludeImages: true,
		IncludeTables: true,
	}
	require.NoError(t, h.Jobs.Create(context.Background(), job))
	return job
}

func (h *testHarness) reload(t *testing.T, jobID string) *models.Job {
	t.Helper()
	job, err := h.Jobs.GetByID(context.Background(), testOwner, jobID)
	require.NoError(t, err)
	return job
}

func TestAutoApprovalRunCompletes(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "artifacts/user-1/decks/q3.pptx", got.ResultLocator)
	assert.Empty(t, got.ErrorDetail)

	// Workers run in pipeline order, exactly once each
	assert.Equal(t, []types.AgentName{
		types.AgentAgenda,
		types.AgentInformation,
		types.AgentSlides,
		types.AgentReview,
	}, h.Mock.CalledAgents())

	// Exactly one history entry, carrying the agenda title and section count
	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, job.ID, entries[0].JobID)
	assert.Equal(t, "Q3 Results", entries[0].Title)
	assert.Equal(t, 3, entries[0].SlideCount)
	assert.Equal(t, got.ResultLocator, entries[0].ArtifactLocator)
}

func TestManualRunWaitsForApproval(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageAgendaApproval, got.Stage)
	require.NotNil(t, got.Agenda, "agenda should be persisted before the wait")
	assert.Equal(t, 3, got.Agenda.Agenda().SectionCount())

	// Only the agenda worker has run
	assert.Equal(t, []types.AgentName{types.AgentAgenda}, h.Mock.CalledAgents())

	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	assert.Empty(t, entries, "no history before completion")
}

func TestApprovalResumesPipeline(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	edited := types.Agenda{
		Sections: []types.AgendaSection{
			{PageNumber: 1, Title: "Edited Opening", Content: "tightened intro"},
			{PageNumber: 2, Title: "Outlook", Content: "next quarter"},
		},
		TotalPages: 2,
	}
	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID:    job.ID,
		Approved: true,
		Agenda:   &edited,
	})
	require.NoError(t, err)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage)

	// The edited agenda, not the generated one, drives the rest of the run
	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Edited Opening", entries[0].Title)
	assert.Equal(t, 2, entries[0].SlideCount)
}

func TestRejectionFailsJob(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID:    job.ID,
		Approved: false,
	})
	require.NoError(t, err)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageFailed, got.Stage)
	assert.Equal(t, pipeline.RejectionDetail, got.ErrorDetail)
	assert.Empty(t, got.ResultLocator)

	// Rejection runs no further workers
	assert.Equal(t, []types.AgentName{types.AgentAgenda}, h.Mock.CalledAgents())
}

func TestDecideRequiresApprovalStage(t *testing.T) {
	h := newHarness(t)
	job := h.createJob(t, false)

	// Job is still pending, no run started
	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID:    job.ID,
		Approved: true,
	})
	assert.ErrorIs(t, err, pipeline.ErrNotAwaitingApproval)
}

func TestSecondDecisionLosesRace(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID: job.ID, Approved: true,
	})
	require.NoError(t, err)
	h.Engine.Wait()

	// The job has moved on; a second decision must be rejected
	_, err = h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID: job.ID, Approved: false,
	})
	assert.ErrorIs(t, err, pipeline.ErrNotAwaitingApproval)

	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "completion must record exactly one history entry")
}

func TestWorkerFailureFailsJob(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	h.Mock.Failures[types.AgentInformation] = "search backend unavailable"
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageFailed, got.Stage)
	assert.Equal(t, "search backend unavailable", got.ErrorDetail, "worker error is recorded verbatim")
	assert.Empty(t, got.ResultLocator)

	// No stage after the failing one runs
	assert.Equal(t, []types.AgentName{types.AgentAgenda, types.AgentInformation}, h.Mock.CalledAgents())

	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed jobs never reach history")
}

func TestAgendaWorkerFailureFailsJob(t *testing.T) {
	h := newHarness(t)
	h.Mock.Failures[types.AgentAgenda] = "model quota exceeded"
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageFailed, got.Stage)
	assert.Equal(t, "model quota exceeded", got.ErrorDetail)
	assert.Nil(t, got.Agenda)
}

func TestAssemblyWithoutLocatorFailsJob(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	h.Mock.Results[types.AgentSlides] = types.AssembleResult{}
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageFailed, got.Stage)
	assert.Equal(t, "assembly returned no artifact locator", got.ErrorDetail)
}

func TestReviewFailureDoesNotFailJob(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	delete(h.Mock.Results, types.AgentReview)
	h.Mock.Failures[types.AgentReview] = "reviewer crashed"
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	// The document already exists, so the job still completes
	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage)
	assert.Equal(t, "artifacts/user-1/decks/q3.pptx", got.ResultLocator)
	assert.Contains(t, got.ReviewNotes, "reviewer crashed")

	entries, err := h.History.List(context.Background(), testOwner, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReviewCommentsRecorded(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	h.Mock.Results[types.AgentReview] = types.ReviewResult{
		Score:    70,
		Comments: []string{"slide 2 is dense"},
	}
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage)
	assert.Contains(t, got.ReviewNotes, "slide 2 is dense")
}

func TestCancelWaitingJob(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	require.NoError(t, h.Engine.Cancel(context.Background(), testOwner, job.ID))

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageFailed, got.Stage)
	assert.Equal(t, pipeline.CancellationDetail, got.ErrorDetail)

	// A decision after cancellation must be rejected
	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID: job.ID, Approved: true,
	})
	assert.ErrorIs(t, err, pipeline.ErrNotAwaitingApproval)
}

func TestCancelTerminalJobIsNoop(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, true)

	h.Engine.Start(job)
	h.Engine.Wait()

	require.NoError(t, h.Engine.Cancel(context.Background(), testOwner, job.ID))

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage, "cancel must not touch a terminal job")
	assert.Empty(t, got.ErrorDetail)
}

func TestCompletionSkipsDuplicateHistoryEntry(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	// An entry for this job already exists when the run completes
	require.NoError(t, h.History.Create(context.Background(), &models.HistoryEntry{
		OwnerID:         testOwner,
		JobID:           job.ID,
		Title:           "Already recorded",
		SlideCount:      3,
		ArtifactLocator: "artifacts/user-1/decks/q3.pptx",
	}))

	_, err := h.Engine.Decide(context.Background(), testOwner, &types.ApprovalRequest{
		JobID: job.ID, Approved: true,
	})
	require.NoError(t, err)
	h.Engine.Wait()

	got := h.reload(t, job.ID)
	assert.Equal(t, models.StageCompleted, got.Stage)

	entries, err := h.History.ListByJob(context.Background(), testOwner, job.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1, "a job must never accumulate a second history entry")
	assert.Equal(t, "Already recorded", entries[0].Title)
}

func TestGetJobIdempotentWhileParked(t *testing.T) {
	h := newHarness(t)
	h.programHappyPath()
	job := h.createJob(t, false)

	h.Engine.Start(job)
	h.Engine.Wait()

	// Reads without an intervening transition return the identical record
	first := h.reload(t, job.ID)
	second := h.reload(t, job.ID)
	assert.Equal(t, first, second)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt, "reads must not touch the record")
	assert.Equal(t, models.StageAgendaApproval, second.Stage)
}

func TestStageProgressCheckpoints(t *testing.T) {
	// The engine writes the fixed checkpoint for each stage it enters
	checkpoints := map[models.Stage]int{
		models.StagePending:               0,
		models.StageAgendaGeneration:      10,
		models.StageAgendaApproval:        25,
		models.StageInformationCollection: 50,
		models.StageSlideCreation:         75,
		models.StageReview:                90,
		models.StageCompleted:             100,
	}
	for stage, want := range checkpoints {
		assert.Equal(t, want, stage.Progress(), "progress checkpoint for %s", stage)
	}
}
