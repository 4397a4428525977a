package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"taskbridge/internal/cli"
	"taskbridge/internal/commands"
	"taskbridge/internal/config"
	"taskbridge/internal/exitcode"
	"taskbridge/internal/metrics"
	"taskbridge/internal/result"
	"taskbridge/internal/service"
	fakes "taskbridge/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *fakes.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error) {
		return svc, nil
	}
}

func fixture() *fakes.FakeService {
	svc := fakes.NewFakeService()
	svc.AddProject("w1", "Work", 0)
	svc.AddProject("h1", "Personal", 1)
	svc.AddTask("w1", "task1", "Buy milk")
	return svc
}

// runApp runs the CLI with a fresh config directory.
func runApp(t *testing.T, app *cli.App, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer
	app.Registry = commands.DefaultRegistry
	app.Out = &outBuf
	app.Err = &errBuf

	args = append([]string{"--config", t.TempDir()}, args...)
	code = app.Run(context.Background(), args)
	return outBuf.String(), errBuf.String(), code
}

func newDispatcher(t *testing.T, svc *fakes.FakeService) (*cli.Dispatcher, *metrics.Metrics, *observer.ObservedLogs) {
	t.Helper()

	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New: %v", err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	m := metrics.New()
	env := commands.NewEnv(cfg, svc, nil, m, log)
	return cli.NewDispatcher(commands.DefaultRegistry, env, m, log), m, logs
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d, m, logs := newDispatcher(t, fixture())

	res := d.Dispatch(context.Background(), "unknowncmd", nil)

	f := res.Failure()
	if f == nil {
		t.Fatal("expected failure")
	}
	if f.Kind != result.Internal {
		t.Errorf("expected kind internal, got %s", f.Kind)
	}
	if f.Message != "Unknown command: unknowncmd" {
		t.Errorf("expected unknown command message, got %q", f.Message)
	}
	if !f.CanTryAnotherApproach {
		t.Error("expected unknown command to be retriable")
	}
	d.Dispatch(context.Background(), "othercmd", nil)
	if got := testutil.ToFloat64(m.CommandCalls.WithLabelValues("unknown", "retriable")); got != 2 {
		t.Errorf("expected 2 retriable calls under one label, got %v", got)
	}
	if n := testutil.CollectAndCount(m.CommandCalls); n != 1 {
		t.Errorf("expected 1 series for unknown commands, got %d", n)
	}
	if n := logs.FilterMessage("unknown command").Len(); n != 2 {
		t.Errorf("expected 2 unknown command log entries, got %d", n)
	}
}

func TestDispatcher_Success(t *testing.T) {
	d, m, logs := newDispatcher(t, fixture())

	res := d.Dispatch(context.Background(), "get_projects", nil)

	if !res.IsOk() {
		t.Fatalf("expected success, got %q", res.Failure().Message)
	}
	if got := testutil.ToFloat64(m.CommandCalls.WithLabelValues("get_projects", "ok")); got != 1 {
		t.Errorf("expected 1 ok call recorded, got %v", got)
	}

	entries := logs.FilterMessage("command succeeded").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 success log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["command"] != "get_projects" {
		t.Errorf("expected command field, got %v", fields["command"])
	}
	if id, _ := fields["call_id"].(string); id == "" {
		t.Error("expected a call id")
	}
}

func TestDispatcher_TerminalFailure(t *testing.T) {
	d, m, logs := newDispatcher(t, fixture())

	res := d.Dispatch(context.Background(), "delete_project", commands.Args{"projectId": "w1"})

	if res.IsOk() {
		t.Fatal("expected failure with project modification disabled")
	}
	if got := testutil.ToFloat64(m.CommandCalls.WithLabelValues("delete_project", "terminal")); got != 1 {
		t.Errorf("expected 1 terminal call recorded, got %v", got)
	}
	if n := logs.FilterMessage("command failed").Len(); n != 1 {
		t.Errorf("expected 1 failure log entry, got %d", n)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		res  result.Result[any]
		want int
	}{
		{"ok", result.Ok[any]("done"), exitcode.Success},
		{"retriable", result.Validation[any]("taskId is required"), exitcode.Retriable},
		{"terminal", result.Denied[any]("denied"), exitcode.Terminal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cli.ExitCode(tt.res); got != tt.want {
				t.Errorf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestApp_Version(t *testing.T) {
	stdout, stderr, code := runApp(t, &cli.App{}, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskbridge "+commands.Version+"\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

func TestApp_UnknownSubcommand(t *testing.T) {
	stdout, stderr, code := runApp(t, &cli.App{}, "unknowncmd")

	if code != exitcode.Usage {
		t.Errorf("expected exit code %d, got %d", exitcode.Usage, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: unknown command \"unknowncmd\"") {
		t.Errorf("expected unknown command error, got %q", stderr)
	}
}

func TestApp_Commands(t *testing.T) {
	stdout, _, code := runApp(t, &cli.App{}, "commands")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	for _, want := range []string{"ticktick:\n", "ynab:\n", "  create_task ", "  list_budgets "} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output, got %q", want, stdout)
		}
	}
}

func TestApp_CallText(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	stdout, _, code := runApp(t, app, "--quiet", "call", "get_projects", "--format", "text")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "Work  [w1]\nPersonal  [h1]\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestApp_CallJSON(t *testing.T) {
	svc := fixture()
	app := &cli.App{Services: testFactory(svc)}
	stdout, _, code := runApp(t, app, "call", "complete_task", "--args", `{"taskId":"buy milk"}`)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "{\n  \"success\": true,\n  \"data\": \"Task task1 completed\"\n}\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestApp_CallRetriableFailure(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	stdout, _, code := runApp(t, app, "call", "complete_task")

	if code != exitcode.Retriable {
		t.Errorf("expected exit code %d, got %d", exitcode.Retriable, code)
	}
	if !strings.Contains(stdout, `"error": "taskId is required"`) {
		t.Errorf("expected validation error in output, got %q", stdout)
	}
}

func TestApp_CallTerminalFailureText(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	stdout, stderr, code := runApp(t, app, "call", "delete_project", "--args", `{"projectId":"w1"}`, "--format", "text")

	if code != exitcode.Terminal {
		t.Errorf("expected exit code %d, got %d", exitcode.Terminal, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.Contains(stderr, "error: Project deletion is not allowed\n") {
		t.Errorf("expected denial on stderr, got %q", stderr)
	}
}

func TestApp_CallUnknownCommand(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	stdout, _, code := runApp(t, app, "call", "nope")

	if code != exitcode.Retriable {
		t.Errorf("expected exit code %d, got %d", exitcode.Retriable, code)
	}
	if !strings.Contains(stdout, "Unknown command: nope") {
		t.Errorf("expected unknown command in output, got %q", stdout)
	}
}

func TestApp_CallInvalidArgs(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	_, stderr, code := runApp(t, app, "call", "get_projects", "--args", "{not json")

	if code != exitcode.Usage {
		t.Errorf("expected exit code %d, got %d", exitcode.Usage, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid --args:") {
		t.Errorf("expected invalid args error, got %q", stderr)
	}
}

func TestApp_CallInvalidFormat(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	_, stderr, code := runApp(t, app, "call", "get_projects", "--format", "yaml")

	if code != exitcode.Usage {
		t.Errorf("expected exit code %d, got %d", exitcode.Usage, code)
	}
	if stderr != "error: invalid format: yaml\n" {
		t.Errorf("expected invalid format error, got %q", stderr)
	}
}

func TestApp_BackendError(t *testing.T) {
	app := &cli.App{
		Services: func(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error) {
			return nil, errors.New("oauth_client.json not found")
		},
	}
	_, stderr, code := runApp(t, app, "call", "get_projects")

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	expected := "error: backend ticktick: oauth_client.json not found\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestApp_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("backend: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	var outBuf, errBuf bytes.Buffer
	app := &cli.App{
		Registry: commands.DefaultRegistry,
		Services: testFactory(fixture()),
		Out:      &outBuf,
		Err:      &errBuf,
	}
	code := app.Run(context.Background(), []string{"--config", dir, "call", "get_projects"})

	if code != exitcode.ConfigError {
		t.Errorf("expected exit code %d, got %d", exitcode.ConfigError, code)
	}
	if !strings.HasPrefix(errBuf.String(), "error: ") {
		t.Errorf("expected config error, got %q", errBuf.String())
	}
}

func TestApp_BudgetsUnconfigured(t *testing.T) {
	app := &cli.App{Services: testFactory(fixture())}
	stdout, _, code := runApp(t, app, "call", "list_budgets")

	if code != exitcode.Terminal {
		t.Errorf("expected exit code %d, got %d", exitcode.Terminal, code)
	}
	if !strings.Contains(stdout, "YNAB access token is not configured") {
		t.Errorf("expected unconfigured error, got %q", stdout)
	}
}
