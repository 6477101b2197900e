package deploy

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bjulian5/promote/internal/common"
	"github.com/bjulian5/promote/internal/config"
	"github.com/bjulian5/promote/internal/deploy"
	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/model"
	"github.com/bjulian5/promote/internal/reconcile"
	"github.com/bjulian5/promote/internal/testutil"
	"github.com/bjulian5/promote/internal/ui"
)

const pendingRef = model.Ref("c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3c3")

type fixture struct {
	out        *bytes.Buffer
	refs       *testutil.MockRefSource
	reconciler *testutil.MockReconciler
	trigger    *testutil.MockTrigger
}

// newCommand wires a command whose runner reads approval from answer
func newCommand(t *testing.T, answer string) (*Command, *fixture) {
	f := &fixture{
		out:        &bytes.Buffer{},
		refs:       &testutil.MockRefSource{},
		reconciler: &testutil.MockReconciler{},
		trigger:    &testutil.MockTrigger{},
	}

	stdout := ui.Stdout
	ui.Stdout = f.out
	t.Cleanup(func() { ui.Stdout = stdout })

	cfg := config.Config{Organization: "acme", Projects: []string{"api", "web"}}
	runner := &deploy.Runner{
		Refs:        f.refs,
		Reconciler:  f.reconciler,
		Presenter:   &ui.Presenter{Out: f.out, Location: time.UTC},
		Gate:        &ui.ApprovalGate{In: strings.NewReader(answer), Out: f.out, Token: "approved"},
		Trigger:     f.trigger,
		Workflow:    "deploy-to-production.yml",
		DispatchRef: "staging",
	}
	return &Command{Clients: &common.Clients{Config: cfg, Runner: runner}}, f
}

func (f *fixture) pending(t *testing.T) {
	set, err := model.NewRefSet([]model.Ref{pendingRef})
	require.NoError(t, err)
	f.refs.On("NewRefs", mock.Anything, "api").Return(set, nil)
	f.reconciler.On("Reconcile", mock.Anything, "api", set).Return(&reconcile.Result{
		ChangeRequests: []model.ChangeRequest{{
			Number:      103,
			Author:      "alice",
			Title:       "Add retry to the fetcher",
			MergedAt:    time.Date(2024, 1, 2, 15, 4, 0, 0, time.UTC),
			TerminalRef: pendingRef,
			URL:         "https://github.com/acme/api/pull/103",
		}},
		PagesFetched: 1,
	}, nil)
}

func TestDeploy(t *testing.T) {
	testCases := []struct {
		desc       string
		args       []string
		answer     string
		setup      func(t *testing.T, f *fixture)
		expectCode apperrors.ErrorCode
		expectOut  []string
		dispatched bool
	}{
		{
			desc:       "no project prints the allow-list",
			args:       nil,
			expectCode: apperrors.ErrCodeInvalidProject,
		},
		{
			desc:       "two projects print the allow-list",
			args:       []string{"api", "web"},
			expectCode: apperrors.ErrCodeInvalidProject,
		},
		{
			desc:       "project outside the allow-list",
			args:       []string{"billing"},
			expectCode: apperrors.ErrCodeInvalidProject,
		},
		{
			desc: "nothing to deploy",
			args: []string{"api"},
			setup: func(t *testing.T, f *fixture) {
				f.refs.On("NewRefs", mock.Anything, "api").Return(model.RefSet{}, nil)
			},
			expectOut: []string{"Production is the same as staging. Nothing to deploy."},
		},
		{
			desc:   "approved deployment",
			args:   []string{"api"},
			answer: "approved\n",
			setup: func(t *testing.T, f *fixture) {
				f.pending(t)
				f.trigger.On("DispatchWorkflow", mock.Anything, "api", "deploy-to-production.yml", "staging").
					Return("https://github.com/acme/api/actions/workflows/deploy-to-production.yml", nil)
			},
			expectOut: []string{
				"(1) alice: Add retry to the fetcher",
				"https://github.com/acme/api/pull/103",
				"Started deployment. You can view the progress at https://github.com/acme/api/actions/workflows/deploy-to-production.yml",
			},
			dispatched: true,
		},
		{
			desc:   "declined deployment",
			args:   []string{"api"},
			answer: "yes\n",
			setup: func(t *testing.T, f *fixture) {
				f.pending(t)
			},
			expectCode: apperrors.ErrCodeApprovalDeclined,
			expectOut:  []string{"(1) alice: Add retry to the fetcher"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			c, f := newCommand(t, tc.answer)
			if tc.setup != nil {
				tc.setup(t, f)
			}

			err := c.Run(context.Background(), tc.args)

			if tc.expectCode != "" {
				require.Error(t, err)
				assert.Equal(t, tc.expectCode, apperrors.CodeOf(err))
				assert.NotEqual(t, 0, apperrors.ExitCode(err))
				if tc.expectCode == apperrors.ErrCodeInvalidProject {
					assert.Contains(t, err.Error(), "Available projects:")
					assert.Contains(t, err.Error(), "api")
					assert.Contains(t, err.Error(), "web")
				}
			} else {
				require.NoError(t, err)
			}

			for _, want := range tc.expectOut {
				assert.Contains(t, f.out.String(), want)
			}
			if tc.dispatched {
				f.trigger.AssertExpectations(t)
			} else {
				f.trigger.AssertNotCalled(t, "DispatchWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
