// Package resolve turns human-supplied project and task references into project ids.
package resolve

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"go.uber.org/zap"

	"taskbridge/internal/result"
	"taskbridge/internal/service"
	"taskbridge/internal/similarity"
)

// Scorer compares two names and returns a similarity in [0,1].
type Scorer func(a, b string) float64

// maxSuggestions caps the "did you mean" list on NotFound failures.
const maxSuggestions = 3

// Resolver resolves names to project ids.
// projects should be cache-backed; tasks is queried per project.
type Resolver struct {
	projects service.ProjectLister
	tasks    service.TaskLister
	score    Scorer
	log      *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithScorer replaces similarity.Score.
func WithScorer(s Scorer) Option {
	return func(r *Resolver) { r.score = s }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.log = l }
}

// New creates a Resolver.
func New(projects service.ProjectLister, tasks service.TaskLister, opts ...Option) *Resolver {
	r := &Resolver{
		projects: projects,
		tasks:    tasks,
		score:    similarity.Score,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveProjectByName returns the id of the project whose name best matches name.
// The first project with the top score wins; an exact match stops the scan.
func (r *Resolver) ResolveProjectByName(ctx context.Context, name string) result.Result[string] {
	projects, err := r.projects.ListProjects(ctx)
	if err != nil {
		return result.FromError[string]("fetch projects", err)
	}

	best, score, ok := bestProject(projects, name, r.score)
	if !ok || score < similarity.ResolveThreshold {
		r.log.Debug("project name not resolved",
			zap.String("name", name),
			zap.Float64("best_score", score))
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		msg := "Project not found: " + name + suggest(name, names)
		return result.Err[string](result.NotFound, msg, true)
	}

	r.log.Debug("project name resolved",
		zap.String("name", name),
		zap.String("project_id", best.ID),
		zap.Float64("score", score))
	return result.Ok(best.ID)
}

// ResolveProjectFromTaskOrName finds the project holding the task identified
// by ref. An exact task id match in any project wins; otherwise the task
// title scoring highest across all projects decides.
func (r *Resolver) ResolveProjectFromTaskOrName(ctx context.Context, ref string) result.Result[string] {
	projects, err := r.projects.ListProjects(ctx)
	if err != nil {
		return result.FromError[string]("fetch projects", err)
	}

	sorted := make([]service.Project, len(projects))
	copy(sorted, projects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortOrder < sorted[j].SortOrder
	})

	// Listings are fetched once per call and shared by both phases.
	listings := make([]taskListing, 0, len(sorted))
	for _, p := range sorted {
		tasks, err := r.tasks.ListProjectTasks(ctx, p.ID)
		if err != nil {
			r.log.Debug("skipping project during task lookup",
				zap.String("project_id", p.ID),
				zap.Error(err))
		}
		l := taskListing{projectID: p.ID, tasks: tasks, err: err}
		listings = append(listings, l)

		if err == nil && containsTask(l.tasks, ref) {
			return result.Ok(p.ID)
		}
	}

	if err := allListingsFailed(listings); err != nil {
		return result.FromError[string]("get project ID", err)
	}

	projectID, score := bestTaskProject(listings, ref, r.score)
	if projectID != "" && score >= similarity.ResolveThreshold {
		r.log.Debug("task reference resolved by title",
			zap.String("ref", ref),
			zap.String("project_id", projectID),
			zap.Float64("score", score))
		return result.Ok(projectID)
	}

	var titles []string
	for _, l := range listings {
		for _, t := range l.tasks {
			titles = append(titles, t.Title)
		}
	}
	msg := "No task found matching ID or name: " + ref + suggest(ref, titles)
	return result.Err[string](result.NotFound, msg, false)
}

// taskListing is one project's task snapshot, or the error fetching it.
type taskListing struct {
	projectID string
	tasks     []service.Task
	err       error
}

// bestProject folds projects in order, keeping the first strictly higher score.
func bestProject(projects []service.Project, name string, score Scorer) (service.Project, float64, bool) {
	var best service.Project
	bestScore := 0.0
	found := false
	for _, p := range projects {
		s := score(p.Name, name)
		if s > bestScore {
			best, bestScore, found = p, s, true
		}
		if s == similarity.Exact {
			break
		}
	}
	return best, bestScore, found
}

func containsTask(tasks []service.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// bestTaskProject returns the project of the best scoring task title across
// all successful listings. An exact title ends the scan of that project only.
func bestTaskProject(listings []taskListing, ref string, score Scorer) (string, float64) {
	bestID := ""
	bestScore := 0.0
	for _, l := range listings {
		if l.err != nil {
			continue
		}
		for _, t := range l.tasks {
			s := score(t.Title, ref)
			if s > bestScore {
				bestID, bestScore = l.projectID, s
			}
			if s == similarity.Exact {
				break
			}
		}
	}
	return bestID, bestScore
}

// allListingsFailed returns the last listing error when every listing failed,
// and nil when any succeeded or there were none.
func allListingsFailed(listings []taskListing) error {
	var last error
	for _, l := range listings {
		if l.err == nil {
			return nil
		}
		last = l.err
	}
	return last
}

// suggest formats up to maxSuggestions fuzzy matches of ref among candidates.
func suggest(ref string, candidates []string) string {
	pattern := similarity.Normalize(ref)
	if pattern == "" || len(candidates) == 0 {
		return ""
	}
	normalized := make([]string, len(candidates))
	for i, c := range candidates {
		normalized[i] = similarity.Normalize(c)
	}

	matches := fuzzy.Find(pattern, normalized)
	if len(matches) == 0 {
		return ""
	}
	seen := make(map[string]bool)
	var quoted []string
	for _, m := range matches {
		name := candidates[m.Index]
		if seen[name] {
			continue
		}
		seen[name] = true
		quoted = append(quoted, fmt.Sprintf("%q", name))
		if len(quoted) == maxSuggestions {
			break
		}
	}
	return " (did you mean " + strings.Join(quoted, ", ") + "?)"
}
