package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/honeycombio/otel-config-go/otelconfig"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	referee "github.com/ethereum-optimism/infra/op-referee"
	"github.com/ethereum-optimism/infra/op-referee/exitcodes"
	"github.com/ethereum-optimism/infra/op-referee/flags"
	"github.com/ethereum-optimism/infra/op-referee/service"
	"github.com/ethereum-optimism/optimism/devnet-sdk/telemetry"
	"github.com/ethereum-optimism/optimism/op-service/cliapp"
	"github.com/ethereum-optimism/optimism/op-service/ctxinterrupt"
	oplog "github.com/ethereum-optimism/optimism/op-service/log"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	// A missing .env is fine; flags and the environment still apply
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("Failed to load .env file", "err", err)
	}

	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "op-referee"
	app.Usage = "Language benchmark battle royale"
	app.Description = "op-referee runs each contestant's benchmark in turn, times it, and writes the results to a JSON file"
	app.Flags = cliapp.ProtectFlags(flags.Flags)
	app.Action = cliapp.LifecycleCmd(run)
	app.Commands = []*cli.Command{
		{
			Name:      "report",
			Usage:     "Print a previously written results file as a table",
			ArgsUsage: "[results-file]",
			Action:    report,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			// Contestant failures never surface here, so anything else is operational
			if !referee.IsRuntimeError(err) {
				err = referee.NewRuntimeError(err)
			}
			cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
		}
	}

	// Start telemetry
	ctx, shutdown, err := telemetry.SetupOpenTelemetry(
		context.Background(),
		otelconfig.WithServiceName(app.Name),
		otelconfig.WithServiceVersion(app.Version),
	)
	if err != nil {
		log.Crit("Failed to setup open telemetry", "message", err)
	}
	defer shutdown()

	// Start CLI
	ctx = ctxinterrupt.WithSignalWaiterMain(ctx)
	err = app.RunContext(ctx, os.Args)
	if err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func run(ctx *cli.Context, closeApp context.CancelCauseFunc) (cliapp.Lifecycle, error) {
	logCfg := oplog.ReadCLIConfig(ctx)
	log := oplog.NewLogger(oplog.AppOut(ctx), logCfg)
	oplog.SetGlobalLogHandler(log.Handler())
	oplog.SetupDefaults()

	cfg, err := referee.NewConfig(ctx, log)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return nil, referee.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	cfg.Log.Debug("Config", "config", cfg)

	if cfg.Metrics.Enabled {
		svc := service.New(log, cfg.Metrics.ListenAddr, cfg.Metrics.ListenPort)
		if err := svc.Start(ctx.Context); err != nil {
			return nil, referee.NewRuntimeError(fmt.Errorf("failed to start metrics service: %w", err))
		}
		go func() {
			<-ctx.Context.Done()
			_ = svc.Shutdown(context.Background())
		}()
	}

	refereeService, err := referee.New(ctx.Context, cfg, Version, closeApp)
	if err != nil {
		// Wrap in RuntimeError to signal this should exit with code 2
		return nil, referee.NewRuntimeError(fmt.Errorf("failed to create referee: %w", err))
	}

	return refereeService, nil
}

func report(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		path = ctx.String(flags.ResultsFile.Name)
	}
	if err := referee.PrintReport(ctx.App.Writer, path, !ctx.Bool(flags.NoColor.Name)); err != nil {
		return referee.NewRuntimeError(err)
	}
	return nil
}
