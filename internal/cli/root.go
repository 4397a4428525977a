// Package cli wires configuration, backends and commands behind the taskbridge command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskbridge/internal/commands"
	"taskbridge/internal/config"
	"taskbridge/internal/exitcode"
	"taskbridge/internal/logging"
	"taskbridge/internal/mcpserver"
	"taskbridge/internal/metrics"
	"taskbridge/internal/output"
	"taskbridge/internal/service"
)

// ServiceFactory creates the task backend from config.
// A nil Service with a nil error leaves the task commands unconfigured.
type ServiceFactory func(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (service.Service, error)

// BudgetsFactory creates the budget client.
// A nil Budgets with a nil error leaves the YNAB commands unconfigured.
type BudgetsFactory func(cfg *config.Config, m *metrics.Metrics) (commands.Budgets, error)

// App is the command line application. Factories are injected so tests can
// run it against fakes.
type App struct {
	Registry *commands.Registry
	Services ServiceFactory
	Budgets  BudgetsFactory
	Out      io.Writer
	Err      io.Writer
}

// exitError carries an exit code out of a cobra RunE.
// A nil err means the message was already written.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit code %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

type globalOptions struct {
	configDir string
	debug     bool
	quiet     bool
}

// runtime is what setup builds for commands that talk to a backend.
type runtime struct {
	cfg        *config.Config
	log        *zap.Logger
	metrics    *metrics.Metrics
	dispatcher *Dispatcher
}

// Run executes the command line in args and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(a.Out)
	root.SetErr(a.Err)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitcode.Success
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(a.Err, "error: %s\n", ee.err)
		}
		return ee.code
	}
	// Cobra argument and flag errors.
	fmt.Fprintf(a.Err, "error: %s\n", err)
	return exitcode.Usage
}

func (a *App) newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Expose TickTick and YNAB as tool-callable commands",
		Long: `taskbridge exposes TickTick projects and tasks, and YNAB budgets, as
commands an LLM tool-calling host can invoke. Project and task references
may be given by id or by a human-friendly name.

Examples:
  # Serve every command as an MCP tool over stdio
  taskbridge serve

  # Call a single command
  taskbridge call get_project_tasks --args '{"projectName":"work"}' --format text`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config", "", "config directory (default $XDG_CONFIG_HOME/taskbridge)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "only log warnings and errors")

	root.AddCommand(
		a.newServeCmd(opts),
		a.newCallCmd(opts),
		a.newCommandsCmd(),
		a.newVersionCmd(),
	)
	return root
}

// setup loads config and builds the logger, metrics, backends and dispatcher.
func (a *App) setup(ctx context.Context, opts *globalOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		return nil, &exitError{code: exitcode.ConfigError, err: err}
	}
	cfg.Debug = opts.debug
	cfg.Quiet = opts.quiet

	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Debug:  cfg.Debug,
		Quiet:  cfg.Quiet,
	}, a.Err)
	if err != nil {
		return nil, &exitError{code: exitcode.ConfigError, err: err}
	}

	m := metrics.New()

	var svc service.Service
	if a.Services != nil {
		svc, err = a.Services(ctx, cfg, m)
		if err != nil {
			return nil, &exitError{code: exitcode.ConfigError, err: fmt.Errorf("backend %s: %w", cfg.Backend, err)}
		}
	}
	var budgets commands.Budgets
	if a.Budgets != nil {
		budgets, err = a.Budgets(cfg, m)
		if err != nil {
			return nil, &exitError{code: exitcode.ConfigError, err: fmt.Errorf("ynab: %w", err)}
		}
	}

	log.Debug("configuration loaded",
		zap.String("dir", cfg.Dir),
		zap.String("backend", cfg.Backend),
		zap.Bool("task_backend", svc != nil),
		zap.Bool("budgets", budgets != nil))

	env := commands.NewEnv(cfg, svc, budgets, m, log)
	return &runtime{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		dispatcher: NewDispatcher(a.Registry, env, m, log.Named("dispatch")),
	}, nil
}

func (a *App) newServeCmd(opts *globalOptions) *cobra.Command {
	var transport, addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve every command as an MCP tool",
		Long: `Serve every registered command as an MCP tool.

The stdio transport speaks MCP on stdin/stdout. The sse transport listens
on --addr and also serves Prometheus metrics at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer logging.Sync(rt.log)

			if cmd.Flags().Changed("transport") {
				rt.cfg.Server.Transport = transport
			}
			if cmd.Flags().Changed("addr") {
				rt.cfg.Server.Addr = addr
			}

			srv := mcpserver.New(a.Registry, rt.dispatcher, rt.metrics, rt.log.Named("mcp"))
			switch rt.cfg.Server.Transport {
			case config.TransportStdio:
				return srv.ServeStdio(cmd.Context())
			case config.TransportSSE:
				return srv.ServeSSE(cmd.Context(), rt.cfg.Server.Addr)
			default:
				return &exitError{code: exitcode.Usage, err: fmt.Errorf("invalid transport: %s", rt.cfg.Server.Transport)}
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", config.TransportStdio, "transport: stdio or sse")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address for the sse transport")
	return cmd
}

func (a *App) newCallCmd(opts *globalOptions) *cobra.Command {
	var rawArgs, format string

	cmd := &cobra.Command{
		Use:   "call <command>",
		Short: "Run a single command and print its result",
		Long: `Run a single command and print its result.

The exit code is 0 on success, 1 when the caller may try another approach
and 2 when the failure must be reported as is.

Examples:
  taskbridge call get_projects
  taskbridge call complete_task --args '{"taskId":"buy milk"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !output.ValidFormat(format) {
				return &exitError{code: exitcode.Usage, err: fmt.Errorf("invalid format: %s", format)}
			}
			var callArgs commands.Args
			if err := json.Unmarshal([]byte(rawArgs), &callArgs); err != nil {
				return &exitError{code: exitcode.Usage, err: fmt.Errorf("invalid --args: %w", err)}
			}

			rt, err := a.setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer logging.Sync(rt.log)

			res := rt.dispatcher.Dispatch(cmd.Context(), args[0], callArgs)

			switch {
			case format == output.FormatJSON:
				err = output.JSON(a.Out, res)
			case res.IsOk():
				err = output.Text(a.Out, res.Data())
			default:
				output.Error(a.Err, res.Failure())
			}
			if err != nil {
				return &exitError{code: exitcode.Retriable, err: err}
			}

			if code := ExitCode(res); code != exitcode.Success {
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rawArgs, "args", "{}", "command arguments as a JSON object")
	cmd.Flags().StringVar(&format, "format", output.FormatJSON, "output format: json or text")
	return cmd
}

func (a *App) newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the available commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plugin := ""
			for _, c := range a.Registry.All() {
				if c.Plugin() != plugin {
					plugin = c.Plugin()
					fmt.Fprintf(a.Out, "%s:\n", plugin)
				}
				output.FormatCommand(a.Out, c.Name(), c.Synopsis())
			}
			return nil
		},
	}
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.Out, "%s %s\n", config.AppName, commands.Version)
			return nil
		},
	}
}
