// Package pipeline implements the job state machine that drives a generation
// job through its stages: agenda generation, approval, information collection,
// slide creation, and review. All cross-stage state lives in the job store;
// every transition is persisted before the next stage begins.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/slidesmith/slidesmith/internal/agents"
	"github.com/slidesmith/slidesmith/internal/db/models"
	"github.com/slidesmith/slidesmith/internal/db/repos"
	"github.com/slidesmith/slidesmith/internal/logger"
	"github.com/slidesmith/slidesmith/internal/types"
)

// Fixed error details written by non-worker failure paths
const (
	// RejectionDetail is the error detail of a job whose agenda was rejected
	RejectionDetail = "User rejected agenda"
	// CancellationDetail is the error detail of a canceled job
	CancellationDetail = "job canceled"
)

// Worker operation names, one per stage
const (
	opGenerateAgenda     = "generate_agenda"
	opCollectInformation = "collect_information"
	opCreateSlides       = "create_slides"
	opReviewSlides       = "review_slides"
)

// ErrNotAwaitingApproval is returned when an approval decision references a
// job that is not waiting at the agenda approval stage.
var ErrNotAwaitingApproval = errors.New("job is not awaiting agenda approval")

// Engine sequences the pipeline stages of generation jobs. Each running job
// owns one goroutine; the approval wait holds none. Jobs only communicate
// through the store, so any number may run concurrently.
type Engine struct {
	jobs        *repos.JobRepository
	history     *repos.HistoryRepository
	caller      agents.Caller
	callTimeout time.Duration

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

// New creates a pipeline engine. callTimeout bounds every worker call.
func New(jobs *repos.JobRepository, history *repos.HistoryRepository, caller agents.Caller, callTimeout time.Duration) *Engine {
	if callTimeout <= 0 {
		callTimeout = agents.DefaultTimeout
	}
	return &Engine{
		jobs:        jobs,
		history:     history,
		caller:      caller,
		callTimeout: callTimeout,
		cancels:     make(map[string]context.CancelFunc),
	}
}

// Start begins executing a freshly created job on its own goroutine and
// returns immediately.
func (e *Engine) Start(job *models.Job) {
	e.spawn(job.ID, func(ctx context.Context) {
		e.runFromStart(ctx, job)
	})
}

// Decide applies an approval decision to a job waiting at the agenda approval
// stage. Approval installs the edited agenda when one is supplied and resumes
// the pipeline on a new goroutine; rejection fails the job with the fixed
// rejection detail. The job record is returned as persisted by the decision.
func (e *Engine) Decide(ctx context.Context, ownerID string, req *types.ApprovalRequest) (*models.Job, error) {
	job, err := e.jobs.GetByID(ctx, ownerID, req.JobID)
	if err != nil {
		return nil, err
	}
	if job.Stage != models.StageAgendaApproval {
		return nil, fmt.Errorf("%w: job %s is in stage %s", ErrNotAwaitingApproval, job.ID, job.Stage)
	}

	if !req.Approved {
		if err := e.transition(ctx, job, models.StageFailed, func(j *models.Job) {
			j.ErrorDetail = RejectionDetail
		}); err != nil {
			return nil, err
		}
		logger.InfoWithFields("Agenda rejected", map[string]interface{}{
			"job_id": job.ID,
			"owner":  job.OwnerID,
		})
		return job, nil
	}

	// The conditional transition out of agenda_approval serializes concurrent
	// decisions: only one caller resumes the pipeline.
	if err := e.transition(ctx, job, models.StageInformationCollection, func(j *models.Job) {
		if req.Agenda != nil {
			doc := models.AgendaDocument(*req.Agenda)
			j.Agenda = &doc
		}
	}); err != nil {
		return nil, err
	}

	e.spawn(job.ID, func(runCtx context.Context) {
		e.continueRun(runCtx, job)
	})
	return job, nil
}

// Cancel requests cancellation of a job. It is idempotent and cooperative: an
// in-flight worker call is not interrupted beyond its timeout, but the job is
// marked failed with the fixed cancellation detail and any running goroutine
// stops at its next stage boundary. Terminal jobs are left untouched.
func (e *Engine) Cancel(ctx context.Context, ownerID, jobID string) error {
	job, err := e.jobs.GetByID(ctx, ownerID, jobID)
	if err != nil {
		return err
	}
	if job.Stage.Terminal() {
		return nil
	}

	if err := e.transition(ctx, job, models.StageFailed, func(j *models.Job) {
		j.ErrorDetail = CancellationDetail
	}); err != nil && !errors.Is(err, repos.ErrStageConflict) {
		return err
	}

	e.mu.Lock()
	if cancel, ok := e.cancels[jobID]; ok {
		cancel()
	}
	e.mu.Unlock()

	logger.InfoWithFields("Job cancellation requested", map[string]interface{}{
		"job_id": jobID,
		"owner":  ownerID,
	})
	return nil
}

// Wait blocks until all running job goroutines have finished
func (e *Engine) Wait() {
	e.wg.Wait()
}

// runFromStart executes transition 1: pending → agenda generation → agenda
// approval, continuing synchronously into the rest of the pipeline when the
// request carries the auto-approval flag.
func (e *Engine) runFromStart(ctx context.Context, job *models.Job) {
	if err := e.transition(ctx, job, models.StageAgendaGeneration, nil); err != nil {
		e.abandon(job, err)
		return
	}

	result, workerErr := e.callWorker(ctx, types.AgentAgenda, opGenerateAgenda, job.Request(), job.OwnerID)
	if workerErr != "" {
		e.failJob(ctx, job, workerErr)
		return
	}

	var agenda types.Agenda
	if err := json.Unmarshal(result, &agenda); err != nil {
		e.failJob(ctx, job, fmt.Sprintf("invalid agenda from worker: %v", err))
		return
	}

	if e.canceled(ctx, job) {
		return
	}

	doc := models.AgendaDocument(agenda)
	if err := e.transition(ctx, job, models.StageAgendaApproval, func(j *models.Job) {
		j.Agenda = &doc
	}); err != nil {
		e.abandon(job, err)
		return
	}

	if !job.AutoApproval {
		// The goroutine ends here; approval spawns a new one.
		return
	}

	if err := e.transition(ctx, job, models.StageInformationCollection, nil); err != nil {
		e.abandon(job, err)
		return
	}
	e.continueRun(ctx, job)
}

// continueRun executes transitions 3-5. The job has already been persisted in
// the information collection stage when this is entered.
func (e *Engine) continueRun(ctx context.Context, job *models.Job) {
	agenda := job.Agenda.Agenda()
	if agenda == nil {
		e.failJob(ctx, job, "job has no agenda")
		return
	}

	// 3. Information collection
	result, workerErr := e.callWorker(ctx, types.AgentInformation, opCollectInformation, types.CollectPayload{
		Agenda:        *agenda,
		ReferenceURLs: job.ReferenceURLs,
	}, job.OwnerID)
	if workerErr != "" {
		e.failJob(ctx, job, workerErr)
		return
	}

	var collected types.CollectResult
	if err := json.Unmarshal(result, &collected); err != nil {
		e.failJob(ctx, job, fmt.Sprintf("invalid information result from worker: %v", err))
		return
	}

	if e.canceled(ctx, job) {
		return
	}
	if err := e.transition(ctx, job, models.StageSlideCreation, nil); err != nil {
		e.abandon(job, err)
		return
	}

	// 4. Assembly
	result, workerErr = e.callWorker(ctx, types.AgentSlides, opCreateSlides, types.AssemblePayload{
		Agenda:        *agenda,
		Findings:      collected.Findings,
		TemplateID:    job.TemplateID,
		IncludeImages: job.IncludeImages,
		IncludeTables: job.IncludeTables,
	}, job.OwnerID)
	if workerErr != "" {
		e.failJob(ctx, job, workerErr)
		return
	}

	var assembled types.AssembleResult
	if err := json.Unmarshal(result, &assembled); err != nil {
		e.failJob(ctx, job, fmt.Sprintf("invalid assembly result from worker: %v", err))
		return
	}
	if assembled.ArtifactLocator == "" {
		e.failJob(ctx, job, "assembly returned no artifact locator")
		return
	}

	if e.canceled(ctx, job) {
		return
	}
	if err := e.transition(ctx, job, models.StageReview, nil); err != nil {
		e.abandon(job, err)
		return
	}

	// 5. Review. The document already exists, so a failed review never fails
	// the job; the error is recorded as advisory notes instead.
	reviewNotes := ""
	reviewRaw, workerErr := e.callWorker(ctx, types.AgentReview, opReviewSlides, types.ReviewPayload{
		ArtifactLocator: assembled.ArtifactLocator,
		Agenda:          *agenda,
	}, job.OwnerID)
	if workerErr != "" {
		reviewNotes = fmt.Sprintf("review unavailable: %s", workerErr)
		logger.WarnWithFields("Review call failed", map[string]interface{}{
			"job_id": job.ID,
			"error":  workerErr,
		})
	} else {
		var review types.ReviewResult
		if err := json.Unmarshal(reviewRaw, &review); err == nil && len(review.Comments) > 0 {
			notes, _ := json.Marshal(review.Comments)
			reviewNotes = string(notes)
		}
	}

	if e.canceled(ctx, job) {
		return
	}
	if err := e.transition(ctx, job, models.StageCompleted, func(j *models.Job) {
		j.ResultLocator = assembled.ArtifactLocator
		j.ReviewNotes = reviewNotes
	}); err != nil {
		e.abandon(job, err)
		return
	}

	e.appendHistory(ctx, job, agenda)
}

// appendHistory records exactly one history entry for a completed job
func (e *Engine) appendHistory(ctx context.Context, job *models.Job, agenda *types.Agenda) {
	if existing, err := e.history.ListByJob(ctx, job.OwnerID, job.ID); err == nil && len(existing) > 0 {
		return
	}

	entry := &models.HistoryEntry{
		OwnerID:         job.OwnerID,
		JobID:           job.ID,
		Title:           agenda.Title(),
		SlideCount:      agenda.SectionCount(),
		ArtifactLocator: job.ResultLocator,
	}
	if err := e.history.Create(ctx, entry); err != nil {
		logger.ErrorWithFields("Failed to append history entry", map[string]interface{}{
			"job_id": job.ID,
			"error":  err.Error(),
		})
		return
	}
	logger.InfoWithFields("Job completed", map[string]interface{}{
		"job_id":      job.ID,
		"owner":       job.OwnerID,
		"slide_count": entry.SlideCount,
	})
}

// callWorker performs one bounded worker call. A non-empty return string is
// the worker's reported error, used verbatim as the job's error detail.
func (e *Engine) callWorker(ctx context.Context, agent types.AgentName, op string, payload interface{}, ownerID string) (json.RawMessage, string) {
	callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	resp, err := e.caller.Call(callCtx, agent, op, payload, ownerID)
	if err != nil {
		return nil, err.Error()
	}
	if !resp.Success {
		if resp.Error == "" {
			return nil, fmt.Sprintf("agent %s reported failure", agent)
		}
		return nil, resp.Error
	}
	return resp.Result, ""
}

// failJob writes the failed transition. Every failure path must persist the
// error detail before the goroutine ends.
func (e *Engine) failJob(ctx context.Context, job *models.Job, detail string) {
	// Persist the failure even when the run context was canceled.
	if ctx.Err() != nil {
		ctx = context.Background()
		detail = CancellationDetail
	}
	if err := e.transition(ctx, job, models.StageFailed, func(j *models.Job) {
		j.ErrorDetail = detail
	}); err != nil {
		e.abandon(job, err)
		return
	}
	logger.WarnWithFields("Job failed", map[string]interface{}{
		"job_id": job.ID,
		"stage":  job.Stage.String(),
		"error":  detail,
	})
}

// canceled checks the run context at a stage boundary. A canceled job is
// marked failed with the fixed cancellation detail unless another transition
// already moved it.
func (e *Engine) canceled(ctx context.Context, job *models.Job) bool {
	if ctx.Err() == nil {
		return false
	}
	err := e.transition(context.Background(), job, models.StageFailed, func(j *models.Job) {
		j.ErrorDetail = CancellationDetail
	})
	if err != nil && !errors.Is(err, repos.ErrStageConflict) {
		logger.Errorf("Failed to persist cancellation for job %s: %v", job.ID, err)
	}
	return true
}

// transition moves the in-memory job to the next stage and persists it
// conditionally on the stage it was read in.
func (e *Engine) transition(ctx context.Context, job *models.Job, to models.Stage, mutate func(*models.Job)) error {
	from := job.Stage
	job.SetStage(to)
	if mutate != nil {
		mutate(job)
	}
	return e.jobs.UpdateStage(ctx, job, from)
}

// abandon logs a transition that could not be persisted. A stage conflict
// means another writer (cancellation, concurrent decision) owns the record
// now, which is not an error; anything else is.
func (e *Engine) abandon(job *models.Job, err error) {
	if errors.Is(err, repos.ErrStageConflict) {
		logger.InfoWithFields("Job run superseded", map[string]interface{}{
			"job_id": job.ID,
		})
		return
	}
	logger.ErrorWithFields("Failed to persist job transition", map[string]interface{}{
		"job_id": job.ID,
		"error":  err.Error(),
	})
}

// spawn runs fn on a tracked goroutine with a per-job cancelable context
func (e *Engine) spawn(jobID string, fn func(context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())

	e.mu.Lock()
	e.cancels[jobID] = cancel
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			delete(e.cancels, jobID)
			e.mu.Unlock()
			cancel()
		}()
		fn(ctx)
	}()
}
