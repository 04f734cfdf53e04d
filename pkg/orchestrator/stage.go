package orchestrator

import (
	stderrors "errors"

	"github.com/Conv-AI/Convai-UnrealEngine-ModdingTool/pkg/errors"
)

// Stage is a point in an instance's materialization. Stages are reached in
// order; a failure leaves the instance at the last stage reached.
type Stage int

const (
	StageUninitialized Stage = iota
	StageStructureCopied
	StageIdentifiersRewritten
	StageConfigsMerged
	StageArchivesInstalled
	StageReady
)

// StageBuild names the optional compilation that follows StageReady in
// errors. It is not a state the instance can be in.
const StageBuild = "build"

func (s Stage) String() string {
	switch s {
	case StageUninitialized:
		return "uninitialized"
	case StageStructureCopied:
		return "structure-copied"
	case StageIdentifiersRewritten:
		return "identifiers-rewritten"
	case StageConfigsMerged:
		return "configs-merged"
	case StageArchivesInstalled:
		return "archives-installed"
	case StageReady:
		return "ready"
	default:
		return "unknown"
	}
}

// MarshalText renders the stage by name in reports
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// stageFailed tags err with the stage that could not be reached. Tool
// errors keep their code and path; anything else becomes ErrInternal.
func stageFailed(stage string, err error) error {
	if err == nil {
		return nil
	}
	var toolErr *errors.ToolError
	if stderrors.As(err, &toolErr) {
		toolErr.WithDetail(errors.DetailStage, stage)
		return err
	}
	return errors.Wrapf(err, errors.ErrInternal, "%s failed", stage).WithDetail(errors.DetailStage, stage)
}
