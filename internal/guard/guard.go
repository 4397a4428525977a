// Package guard decides whether mutating operations on a project are permitted.
package guard

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskbridge/internal/result"
	"taskbridge/internal/service"
	"taskbridge/internal/similarity"
)

// Operation is a kind of project mutation.
type Operation string

const (
	Creation     Operation = "creation"
	Modification Operation = "modification"
	Deletion     Operation = "deletion"
)

// Policy is the user-configured write policy.
type Policy struct {
	// AllowProjectModification must be exactly "yes" for any project
	// create, update or delete to proceed.
	AllowProjectModification string

	// AllowedProjects is a comma-separated list of project ids or names.
	// Empty means every project is writable.
	AllowedProjects string
}

// ModificationAllowed reports whether the global project toggle is on.
func (p Policy) ModificationAllowed() bool {
	return p.AllowProjectModification == "yes"
}

// AllowList returns the trimmed, non-empty allow-list entries.
func (p Policy) AllowList() []string {
	var entries []string
	for _, e := range strings.Split(p.AllowedProjects, ",") {
		if e = strings.TrimSpace(e); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}

// Guard enforces a Policy against the project listing.
type Guard struct {
	policy   Policy
	projects service.ProjectLister
	score    func(a, b string) float64
	log      *zap.Logger
}

// New creates a Guard. projects should be cache-backed.
func New(policy Policy, projects service.ProjectLister, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{
		policy:   policy,
		projects: projects,
		score:    similarity.Score,
		log:      log,
	}
}

// Policy returns the enforced policy.
func (g *Guard) Policy() Policy { return g.policy }

// CheckWritePermission permits writes to projectID when no allow-list is
// configured, when the id is listed verbatim, or when an entry scores at
// least similarity.AllowListThreshold against the project's name.
func (g *Guard) CheckWritePermission(ctx context.Context, projectID string) result.Result[bool] {
	allowed := g.policy.AllowList()
	// A list of only commas and blanks permits everything.
	if len(allowed) == 0 {
		return result.Ok(true)
	}

	for _, entry := range allowed {
		if entry == projectID {
			return result.Ok(true)
		}
	}

	projects, err := g.projects.ListProjects(ctx)
	if err != nil {
		return result.FromError[bool]("fetch projects", err)
	}

	var target *service.Project
	for i := range projects {
		if projects[i].ID == projectID {
			target = &projects[i]
			break
		}
	}
	if target == nil {
		return result.Err[bool](result.NotFound, "Project not found", true)
	}

	for _, entry := range allowed {
		if g.score(target.Name, entry) >= similarity.AllowListThreshold {
			return result.Ok(true)
		}
	}

	g.log.Info("write denied by allow-list",
		zap.String("project_id", projectID),
		zap.String("project_name", target.Name))
	return result.Denied[bool](fmt.Sprintf(
		"Writing to project %q is not allowed. Allowed projects: %s",
		target.Name, g.policy.AllowedProjects))
}

// CheckProjectModificationPermission gates project create, update and delete.
// Modification and deletion of a known project also pass CheckWritePermission.
func (g *Guard) CheckProjectModificationPermission(ctx context.Context, op Operation, projectID string) result.Result[bool] {
	if !g.policy.ModificationAllowed() {
		g.log.Info("project modification disabled", zap.String("operation", string(op)))
		return result.Denied[bool](fmt.Sprintf("Project %s is not allowed", op))
	}

	if projectID != "" && op != Creation {
		allowed, fail := g.CheckWritePermission(ctx, projectID).Unwrap()
		if fail != nil {
			return result.Fail[bool](fail)
		}
		if !allowed {
			return result.Denied[bool]("Write access denied to this project")
		}
	}

	return result.Ok(true)
}
