// Package pipeline runs the define and apply stages end to end: it loads
// the input tables, plans or builds each chromosome, and finalizes the
// output files only once every chromosome has succeeded.
package pipeline

import "fmt"

// Stage names the part of a run where an error occurred.
type Stage string

const (
	StageLoading  Stage = "loading"
	StagePlanning Stage = "planning"
	StageBuilding Stage = "building"
	StageWriting  Stage = "writing"
)

// StageError tags an error with its stage and, when known, the chromosome.
type StageError struct {
	Stage Stage
	Chrom string
	Err   error
}

func (e *StageError) Error() string {
	if e.Chrom == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Chrom, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, chrom string, err error) error {
	return &StageError{Stage: stage, Chrom: chrom, Err: err}
}
