package pipeline

import (
	"fmt"
	"time"
)

// Stage names a batch step.
type Stage string

const (
	StageSeparate Stage = "separate"
	StagePrep     Stage = "prep"
	StageSync     Stage = "sync"
	StagePitch    Stage = "pitch"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageSeparate, StagePrep, StageSync, StagePitch}

// ParseStage returns the stage called name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("pipeline: unknown stage %q", name)
}

// StageError is a failed stage.
type StageError struct {
	Stage   Stage
	Elapsed time.Duration
	Err     error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed after %s: %v", e.Stage, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
