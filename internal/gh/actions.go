package gh

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"

	apperrors "github.com/bjulian5/promote/internal/errors"
)

// DispatchWorkflow starts the deployment workflow on ref and returns where its progress can
// be followed. It does not wait for the workflow run. The call is never retried so a
// deployment cannot be started twice.
func (c *Client) DispatchWorkflow(ctx context.Context, project, workflow, ref string) (string, error) {
	event := github.CreateWorkflowDispatchEventRequest{Ref: ref}
	if _, err := c.api.Actions.CreateWorkflowDispatchEventByFileName(ctx, c.owner, project, workflow, event); err != nil {
		return "", apperrors.Wrapf(err, apperrors.ErrCodeDispatch, "failed to dispatch %s on %s/%s@%s", workflow, c.owner, project, ref)
	}
	return fmt.Sprintf("%s/%s/%s/actions/workflows/%s", c.webURL, c.owner, project, workflow), nil
}
