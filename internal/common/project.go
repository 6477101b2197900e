package common

import (
	"context"
	"slices"
	"strings"

	"github.com/bjulian5/promote/internal/config"
	apperrors "github.com/bjulian5/promote/internal/errors"
	"github.com/bjulian5/promote/internal/ui"
)

// ProjectLister lists every repository of the organization
type ProjectLister interface {
	ListProjects(ctx context.Context) ([]string, error)
}

// Selector picks one project interactively, returning "" when cancelled
type Selector func(projects []string) (string, error)

// AllowedProjects returns the configured allow-list, or every repository of the
// organization when none is configured
func AllowedProjects(ctx context.Context, cfg config.Config, lister ProjectLister) ([]string, error) {
	if len(cfg.Projects) > 0 {
		return slices.Clone(cfg.Projects), nil
	}

	projects, err := lister.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	slices.Sort(projects)
	return projects, nil
}

// ResolveProject validates the single positional argument against the allow-list.
// With no argument and a selector, the project is picked interactively.
// Every failure carries the allow-list in its details.
func ResolveProject(args []string, allowed []string, selector Selector) (string, error) {
	if len(args) == 0 && selector != nil {
		project, err := selector(allowed)
		if err != nil {
			return "", err
		}
		if project == "" {
			return "", apperrors.New(apperrors.ErrCodeInvalidProject, "no project selected")
		}
		return project, nil
	}

	if len(args) != 1 {
		return "", apperrors.New(apperrors.ErrCodeInvalidProject, "expected exactly one project").
			WithDetails(FormatAllowList(allowed))
	}

	project := strings.TrimSpace(args[0])
	if !slices.Contains(allowed, project) {
		return "", apperrors.InvalidProject(project).WithDetails(FormatAllowList(allowed))
	}
	return project, nil
}

// FormatAllowList renders the allow-list shown on invalid invocations
func FormatAllowList(allowed []string) string {
	if len(allowed) == 0 {
		return "No projects available."
	}
	return "Available projects:\n" + ui.RenderBulletList(allowed)
}
