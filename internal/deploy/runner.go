package deploy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/logger"
	"github.com/bjulian5/promote/internal/model"
	"github.com/bjulian5/promote/internal/reconcile"
)

// RefSource lists the refs present in staging but absent from production, most recent first
type RefSource interface {
	NewRefs(ctx context.Context, project string) (model.RefSet, error)
}

// Reconciler maps a RefSet to the merged change requests that produced it
type Reconciler interface {
	Reconcile(ctx context.Context, project string, refs model.RefSet) (*reconcile.Result, error)
}

// Presenter shows the reconciled change requests for review
type Presenter interface {
	Present(crs []model.ChangeRequest) error
}

// ApprovalGate asks the operator to confirm the deployment
type ApprovalGate interface {
	Approve() (bool, error)
}

// Trigger starts the deployment workflow and returns where it can be followed
type Trigger interface {
	DispatchWorkflow(ctx context.Context, project, workflow, ref string) (string, error)
}

// Outcome is how a run ended without error
type Outcome int

const (
	// NothingToDeploy means staging and production point at the same history
	NothingToDeploy Outcome = iota
	// Reviewed means the change requests were presented and nothing was dispatched
	Reviewed
	// Deployed means the workflow was dispatched after approval
	Deployed
)

func (o Outcome) String() string {
	switch o {
	case NothingToDeploy:
		return "nothing-to-deploy"
	case Reviewed:
		return "reviewed"
	case Deployed:
		return "deployed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Report describes a finished run
type Report struct {
	Outcome        Outcome
	RunID          string
	Project        string
	ChangeRequests []model.ChangeRequest
	TrackingURL    string // set when Deployed
}

// Runner wires the pipeline RefSource -> Reconciler -> Presenter -> ApprovalGate -> Trigger.
// It never terminates the process; every exit path is a Report or an error.
type Runner struct {
	Refs       RefSource
	Reconciler Reconciler
	Presenter  Presenter
	Gate       ApprovalGate
	Trigger    Trigger

	Workflow    string
	DispatchRef string

	Log *logger.Logger
}

// Review resolves and presents the pending change requests without deploying
func (r *Runner) Review(ctx context.Context, project string) (*Report, error) {
	report, _, err := r.review(ctx, project)
	return report, err
}

// Deploy reviews the pending change requests, asks for approval and dispatches the workflow.
// A declined approval returns an APPROVAL_DECLINED error and nothing is dispatched.
func (r *Runner) Deploy(ctx context.Context, project string) (*Report, error) {
	report, log, err := r.review(ctx, project)
	if err != nil || report.Outcome == NothingToDeploy {
		return report, err
	}

	if r.Gate == nil || r.Trigger == nil {
		return nil, errors.New("deploy requires an approval gate and a trigger")
	}

	approved, err := r.Gate.Approve()
	if err != nil {
		return nil, fmt.Errorf("failed to read approval: %w", err)
	}
	if !approved {
		log.Warn("approval declined")
		return nil, apperrors.ApprovalDeclined()
	}

	log.Infof("dispatching %s on %s", r.Workflow, r.DispatchRef)
	url, err := r.Trigger.DispatchWorkflow(ctx, project, r.Workflow, r.DispatchRef)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.Wrapf(err, apperrors.ErrCodeDispatch, "failed to dispatch %s for %s", r.Workflow, project)
		}
		return nil, err
	}

	report.Outcome = Deployed
	report.TrackingURL = url
	return report, nil
}

func (r *Runner) review(ctx context.Context, project string) (*Report, *logger.Logger, error) {
	report := &Report{RunID: uuid.NewString(), Project: project}
	log := r.logger().With("run_id", report.RunID).With("project", project)

	refs, err := r.Refs.NewRefs(ctx, project)
	if err != nil {
		if apperrors.CodeOf(err) == "" {
			err = apperrors.RefResolution(err, project)
		}
		return nil, log, err
	}

	if refs.IsEmpty() {
		log.Info("staging matches production")
		report.Outcome = NothingToDeploy
		return report, log, nil
	}
	log.Infof("%d new refs", refs.Len())

	result, err := r.Reconciler.Reconcile(ctx, project, refs)
	if err != nil {
		return nil, log, err
	}
	log.Infof("reconciled %d change requests (%d pages, %d scanned, %d lookups)",
		len(result.ChangeRequests), result.PagesFetched, result.Scanned, result.Lookups)

	if err := r.Presenter.Present(result.ChangeRequests); err != nil {
		return nil, log, fmt.Errorf("failed to present change requests: %w", err)
	}

	report.Outcome = Reviewed
	report.ChangeRequests = result.ChangeRequests
	return report, log, nil
}

func (r *Runner) logger() *logger.Logger {
	if r.Log == nil {
		return logger.Nop()
	}
	return r.Log
}
