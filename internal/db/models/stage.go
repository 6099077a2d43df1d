package models

import (
	"encoding/json"
	"fmt"
)

// Stage represents the current pipeline stage of a generation job
type Stage string

// Pipeline stages, in execution order
const (
	// StageUnknown represents an unknown or invalid stage
	StageUnknown Stage = "unknown"
	// StagePending indicates the job has been created but not started
	StagePending Stage = "pending"
	// StageAgendaGeneration indicates the agenda worker is running
	StageAgendaGeneration Stage = "agenda_generation"
	// StageAgendaApproval indicates the job is waiting for an approval decision
	StageAgendaApproval Stage = "agenda_approval"
	// StageInformationCollection indicates the information worker is running
	StageInformationCollection Stage = "information_collection"
	// StageSlideCreation indicates the assembly worker is running
	StageSlideCreation Stage = "slide_creation"
	// StageReview indicates the review worker is running
	StageReview Stage = "review"
	// StageCompleted indicates the job finished successfully
	StageCompleted Stage = "completed"
	// StageFailed indicates the job failed or was rejected
	StageFailed Stage = "failed"
)

// stageProgress maps each stage to its progress checkpoint percentage
var stageProgress = map[Stage]int{
	StagePending:               0,
	StageAgendaGeneration:      10,
	StageAgendaApproval:        25,
	StageInformationCollection: 50,
	StageSlideCreation:         75,
	StageReview:                90,
	StageCompleted:             100,
}

// stageDescription maps each stage to its human-readable step label
var stageDescription = map[Stage]string{
	StagePending:               "Waiting to start...",
	StageAgendaGeneration:      "Generating agenda...",
	StageAgendaApproval:        "Waiting for agenda approval...",
	StageInformationCollection: "Collecting information...",
	StageSlideCreation:         "Creating slides...",
	StageReview:                "Checking quality...",
	StageCompleted:             "Done",
	StageFailed:                "An error occurred",
}

// Progress returns the progress checkpoint percentage for the stage. Failed
// jobs keep the progress of the stage they failed in, so StageFailed has no
// checkpoint of its own.
func (s Stage) Progress() int {
	return stageProgress[s]
}

// Description returns the human-readable step label for the stage
func (s Stage) Description() string {
	return stageDescription[s]
}

// Terminal reports whether the stage is a terminal state
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// ParseStage converts a string to a Stage type
func ParseStage(str string) (Stage, error) {
	switch Stage(str) {
	case StagePending, StageAgendaGeneration, StageAgendaApproval,
		StageInformationCollection, StageSlideCreation, StageReview,
		StageCompleted, StageFailed:
		return Stage(str), nil
	default:
		return StageUnknown, fmt.Errorf("invalid stage: %s", str)
	}
}

// UnmarshalJSON implements json.Unmarshaler for Stage
func (s *Stage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	stage, err := ParseStage(str)
	if err != nil {
		return err
	}

	*s = stage
	return nil
}
