package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
)

// ScriptRefSource runs an external diff script that prints one commit id per line,
// most recent first. It is invoked as: <script> <organization> <project> <staging> <production>
type ScriptRefSource struct {
	Script        string
	Organization  string
	StagingRef    string
	ProductionRef string
	Dir           string // working directory, empty for the current one
}

// NewRefs runs the script and parses its output
func (s *ScriptRefSource) NewRefs(ctx context.Context, project string) (model.RefSet, error) {
	output, err := s.run(ctx, project)
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(err, project)
	}

	refs, err := model.ParseRefSet(output)
	if err != nil {
		return model.RefSet{}, apperrors.RefResolution(fmt.Errorf("unexpected output from %s: %w", s.Script, err), project)
	}
	return refs, nil
}

func (s *ScriptRefSource) run(ctx context.Context, project string) (string, error) {
	cmd := exec.CommandContext(ctx, s.Script, s.Organization, project, s.StagingRef, s.ProductionRef)
	cmd.Dir = s.Dir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s exited with status %d: %s", s.Script, exitErr.ExitCode(), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("failed to execute %s: %w", s.Script, err)
	}
	return string(output), nil
}
