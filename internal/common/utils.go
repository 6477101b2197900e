package common

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bjulian5/promote/internal/config"
	"github.com/bjulian5/promote/internal/deploy"
	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/gh"
	"github.com/bjulian5/promote/internal/git"
	"github.com/bjulian5/promote/internal/logger"
	"github.com/bjulian5/promote/internal/reconcile"
	"github.com/bjulian5/promote/internal/ui"
)

// Options are the flags that shape client construction
type Options struct {
	ConfigPath string
	Verbose    bool
	Table      bool
}

// Clients holds everything a command needs, built once from the configuration
type Clients struct {
	Config config.Config
	Log    *logger.Logger
	GH     *gh.Client
	Runner *deploy.Runner
}

// InitClients loads the configuration and builds the clients.
// Returns an error that is suitable for use in PreRunE hooks
func InitClients(opts Options) (*Clients, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "failed to load configuration")
	}
	return NewClients(cfg, opts, os.Stdin, os.Stdout)
}

// NewClients builds the clients from an already loaded configuration.
// The approval prompt reads from in; the review output goes to out.
func NewClients(cfg config.Config, opts Options, in io.Reader, out io.Writer) (*Clients, error) {
	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	log := logger.New(level, cfg.Log.Format)

	ghClient, err := gh.NewClient(cfg, log)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "failed to create GitHub client")
	}

	refs, err := NewRefSource(cfg, ghClient)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfig, "invalid configuration")
	}

	log.Debugf("refs from %s, %s reconciliation by %s", describeSource(cfg), cfg.Reconcile.Strategy, cfg.Reconcile.Association)

	reconciler := reconcile.NewReconciler(ghClient, ghClient, reconcile.Options{
		Strategy:          reconcile.Strategy(cfg.Reconcile.Strategy),
		Association:       reconcile.Association(cfg.Reconcile.Association),
		Order:             reconcile.Order(cfg.Reconcile.Order),
		IntegrationBranch: cfg.IntegrationBranch,
	}, log)

	runner := &deploy.Runner{
		Refs:        refs,
		Reconciler:  reconciler,
		Presenter:   &ui.Presenter{Out: out, Location: loc, Table: opts.Table},
		Gate:        &ui.ApprovalGate{In: in, Out: out, Token: cfg.ApprovalToken},
		Trigger:     ghClient,
		Workflow:    cfg.Workflow,
		DispatchRef: cfg.DispatchRef,
		Log:         log,
	}

	return &Clients{Config: cfg, Log: log, GH: ghClient, Runner: runner}, nil
}

// NewRefSource returns the RefSource selected by refs.source
func NewRefSource(cfg config.Config, client *gh.Client) (deploy.RefSource, error) {
	switch cfg.Refs.Source {
	case config.RefSourceScript:
		return &git.ScriptRefSource{
			Script:        cfg.Refs.Script,
			Organization:  cfg.Organization,
			StagingRef:    cfg.StagingRef,
			ProductionRef: cfg.ProductionRef,
		}, nil
	case config.RefSourceLocal:
		return &git.LocalRefSource{
			ReposDir:      cfg.Refs.ReposDir,
			StagingRef:    cfg.StagingRef,
			ProductionRef: cfg.ProductionRef,
			MaxDepth:      cfg.Refs.MaxDepth,
			Fetch:         cfg.Refs.Fetch,
			Token:         cfg.Token,
		}, nil
	case config.RefSourceCompare:
		return gh.NewCompareRefSource(client, cfg.StagingRef, cfg.ProductionRef), nil
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeConfig, "unknown ref source %q", cfg.Refs.Source)
	}
}

// describeSource is used in verbose output
func describeSource(cfg config.Config) string {
	switch cfg.Refs.Source {
	case config.RefSourceScript:
		return fmt.Sprintf("script %s", cfg.Refs.Script)
	case config.RefSourceLocal:
		return fmt.Sprintf("local checkouts in %s", cfg.Refs.ReposDir)
	default:
		return "GitHub compare API"
	}
}

// FlagOptions reads the persistent flags registered on the root command
func FlagOptions(cmd *cobra.Command) Options {
	var opts Options
	opts.ConfigPath, _ = cmd.Flags().GetString("config")
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")
	return opts
}
