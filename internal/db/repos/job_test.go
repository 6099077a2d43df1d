package repos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/types"
)

func newTestJob(owner string) *models.Job {
	return &models.Job{
		OwnerID:       owner,
		Prompt:        "quarterly revenue recap",
		ReferenceURLs: models.StringList{"https://example.com/report"},
		MaxSlides:     10,
		IncludeImages: true,
		IncludeTables: true,
	}
}

func TestJobCreateAndGet(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	job := newTestJob(testOwner)
	require.NoError(t, repo.Create(ctx, job), "failed to create job")

	assert.NotEmpty(t, job.ID, "job ID should be assigned on create")
	assert.Equal(t, models.StagePending, job.Stage, "new job should start pending")
	assert.Equal(t, 0, job.Progress, "pending job should have zero progress")

	got, err := repo.GetByID(ctx, testOwner, job.ID)
	require.NoError(t, err, "failed to get job")
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, "quarterly revenue recap", got.Prompt)
	assert.Equal(t, models.StringList{"https://example.com/report"}, got.ReferenceURLs)

	// Jobs are partitioned by owner
	_, err = repo.GetByID(ctx, testOtherOwner, job.ID)
	assert.Error(t, err, "another owner should not see the job")
}

func TestJobCreateValidation(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	err := repo.Create(ctx, &models.Job{OwnerID: "", Prompt: "p"})
	assert.Error(t, err, "empty owner should be rejected")

	err = repo.Create(ctx, &models.Job{OwnerID: testOwner})
	assert.Error(t, err, "empty prompt should be rejected")
}

func TestJobUpdateStage(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	job := newTestJob(testOwner)
	require.NoError(t, repo.Create(ctx, job))

	from := job.Stage
	job.SetStage(models.StageAgendaGeneration)
	require.NoError(t, repo.UpdateStage(ctx, job, from), "conditional update from the stored stage should apply")

	got, err := repo.GetByID(ctx, testOwner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageAgendaGeneration, got.Stage)
	assert.Equal(t, models.StageAgendaGeneration.Progress(), got.Progress)
	assert.Equal(t, models.StageAgendaGeneration.Description(), got.StepDescription)
}

func TestJobUpdateStageConflict(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	job := newTestJob(testOwner)
	require.NoError(t, repo.Create(ctx, job))

	// Move the stored record past the stage the stale writer expects
	current := *job
	current.SetStage(models.StageFailed)
	current.ErrorDetail = "job canceled"
	require.NoError(t, repo.UpdateStage(ctx, &current, models.StagePending))

	stale := *job
	stale.SetStage(models.StageAgendaGeneration)
	err := repo.UpdateStage(ctx, &stale, models.StagePending)
	require.ErrorIs(t, err, ErrStageConflict, "stale writer should lose the race")

	got, err := repo.GetByID(ctx, testOwner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageFailed, got.Stage, "winning transition should be preserved")
	assert.Equal(t, "job canceled", got.ErrorDetail)
}

func TestJobUpdateStagePersistsAgenda(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	job := newTestJob(testOwner)
	require.NoError(t, repo.Create(ctx, job))

	doc := models.AgendaDocument(types.Agenda{
		Sections: []types.AgendaSection{
			{PageNumber: 1, Title: "Overview", Content: "intro"},
			{PageNumber: 2, Title: "Details", Content: "body"},
		},
		TotalPages: 2,
	})

	from := job.Stage
	job.SetStage(models.StageAgendaApproval)
	job.Agenda = &doc
	require.NoError(t, repo.UpdateStage(ctx, job, from))

	got, err := repo.GetByID(ctx, testOwner, job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Agenda, "agenda document should round-trip")
	agenda := got.Agenda.Agenda()
	assert.Equal(t, 2, agenda.SectionCount())
	assert.Equal(t, "Overview", agenda.Title())
}

func TestJobListNewestFirst(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		job := newTestJob(testOwner)
		job.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, job))
		ids = append(ids, job.ID)
	}

	// One job for another owner that must not leak into the listing
	require.NoError(t, repo.Create(ctx, newTestJob(testOtherOwner)))

	jobs, err := repo.List(ctx, testOwner, &models.ListOptions{Limit: models.DefaultLimit})
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, ids[2], jobs[0].ID, "newest job should come first")
	assert.Equal(t, ids[0], jobs[2].ID, "oldest job should come last")

	count, err := repo.Count(ctx, testOwner)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestJobListPagination(t *testing.T) {
	repo := NewJobRepository(setupTestDB(t))
	ctx := testContext(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		job := newTestJob(testOwner)
		job.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Create(ctx, job))
	}

	page, err := repo.List(ctx, testOwner, &models.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
}
