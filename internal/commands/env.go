package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskbridge/internal/cache"
	"taskbridge/internal/config"
	"taskbridge/internal/guard"
	"taskbridge/internal/metrics"
	"taskbridge/internal/resolve"
	"taskbridge/internal/result"
	"taskbridge/internal/service"
	"taskbridge/internal/similarity"
	"taskbridge/internal/ynab"
)

// Budgets is the read-only budget API used by the YNAB commands.
type Budgets interface {
	ListBudgets(ctx context.Context, includeAccounts bool) (ynab.BudgetList, error)
	BudgetMonth(ctx context.Context, budgetID, month string) (ynab.MonthDetail, error)
	MonthTransactions(ctx context.Context, budgetID, month string, q ynab.TransactionQuery) (ynab.TransactionList, error)
}

// Env is everything a command needs to run.
type Env struct {
	Config  *config.Config
	Service service.Service
	Budgets Budgets

	// Cache holds the project listing; project writes clear it.
	Cache *cache.ProjectCache

	// Projects is the cache-backed project listing.
	Projects service.ProjectLister

	Resolver *resolve.Resolver
	Guard    *guard.Guard
	Log      *zap.Logger
}

// NewEnv wires the cache, resolver and guard around svc.
// svc and budgets may be nil; m and log may be nil.
func NewEnv(cfg *config.Config, svc service.Service, budgets Budgets, m *metrics.Metrics, log *zap.Logger) *Env {
	if log == nil {
		log = zap.NewNop()
	}
	env := &Env{
		Config:  cfg,
		Service: svc,
		Budgets: budgets,
		Cache:   cache.New(cfg.Cache.TTL),
		Log:     log,
	}
	if svc != nil {
		lister := cache.NewLister(svc, env.Cache, m)
		env.Projects = lister
		env.Resolver = resolve.New(lister, svc, resolve.WithLogger(log.Named("resolve")))
		env.Guard = guard.New(guard.Policy{
			AllowProjectModification: cfg.TickTick.AllowProjectModification,
			AllowedProjects:          cfg.TickTick.AllowedProjects,
		}, lister, log.Named("guard"))
	}
	return env
}

// Args are the raw named arguments of one call.
type Args map[string]any

// Decode copies the arguments into v, a pointer to a struct with json tags.
func (a Args) Decode(v any) error {
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// decodeArgs decodes args or returns a retriable validation failure.
func decodeArgs[T any](args Args) (T, *result.Failure) {
	var v T
	if err := args.Decode(&v); err != nil {
		return v, result.Validation[T](fmt.Sprintf("Invalid arguments: %v", err)).Failure()
	}
	return v, nil
}

// ticktickArgs are the parameters shared by the TickTick commands.
type ticktickArgs struct {
	ProjectID   string           `json:"projectId"`
	ProjectName string           `json:"projectName"`
	TaskID      string           `json:"taskId"`
	TaskData    *service.Task    `json:"taskData"`
	ProjectData *service.Project `json:"projectData"`
}

// requireTaskBackend fails terminally when no task backend is configured.
func requireTaskBackend(env *Env) *result.Failure {
	if env.Service == nil {
		return result.Err[any](result.Internal, "Task backend is not configured", false).Failure()
	}
	return nil
}

// requireBudgets fails terminally when YNAB is not configured.
func requireBudgets(env *Env) *result.Failure {
	if env.Budgets == nil {
		return result.Err[any](result.Internal, "YNAB access token is not configured", false).Failure()
	}
	return nil
}

// resolveProject returns id when set, otherwise resolves name.
// Both empty yields an empty id.
func resolveProject(ctx context.Context, env *Env, id, name string) result.Result[string] {
	if id != "" || name == "" {
		return result.Ok(id)
	}
	return env.Resolver.ResolveProjectByName(ctx, name)
}

// checkWrite runs the allow-list check for a task write.
func checkWrite(ctx context.Context, env *Env, projectID string) *result.Failure {
	allowed, fail := env.Guard.CheckWritePermission(ctx, projectID).Unwrap()
	if fail != nil {
		return fail
	}
	if !allowed {
		return result.Denied[any]("Write access denied to this project").Failure()
	}
	return nil
}

// checkProjectWrite runs the project modification check.
func checkProjectWrite(ctx context.Context, env *Env, op guard.Operation, projectID string) *result.Failure {
	_, fail := env.Guard.CheckProjectModificationPermission(ctx, op, projectID).Unwrap()
	return fail
}

// taskProject finds the project holding a task: projectId wins, then
// projectName, then a search of every project for taskId.
func taskProject(ctx context.Context, env *Env, a ticktickArgs) result.Result[string] {
	if a.ProjectID != "" {
		return result.Ok(a.ProjectID)
	}
	if a.ProjectName != "" {
		return env.Resolver.ResolveProjectByName(ctx, a.ProjectName)
	}
	return env.Resolver.ResolveProjectFromTaskOrName(ctx, a.TaskID)
}

// hasContentAndItems reports the content/items conflict of a task payload.
func hasContentAndItems(t *service.Task) bool {
	return t.Content != "" && len(t.Items) > 0
}

// taskIDFor maps ref to a task id within projectID. An id or a title equal
// after normalization resolves; a title that only resembles open tasks is
// NotFound so a near miss never mutates another task. Anything else, or a
// failed listing, is passed through as is and the upstream call reports it.
func taskIDFor(ctx context.Context, env *Env, projectID, ref string) result.Result[string] {
	tasks, err := env.Service.ListProjectTasks(ctx, projectID)
	if err != nil {
		return result.Ok(ref)
	}

	var similar []string
	for _, t := range tasks {
		if t.ID == ref {
			return result.Ok(ref)
		}
	}
	for _, t := range tasks {
		s := similarity.Score(t.Title, ref)
		if s == similarity.Exact {
			return result.Ok(t.ID)
		}
		if s >= similarity.ResolveThreshold {
			similar = append(similar, fmt.Sprintf("%q", t.Title))
		}
	}
	if len(similar) == 0 {
		return result.Ok(ref)
	}
	return result.Err[string](result.NotFound, fmt.Sprintf(
		"No task titled %q in this project. Similar tasks: %s", ref, strings.Join(similar, ", ")), true)
}
