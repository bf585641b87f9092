// Command dutyctl computes CEMAC import duties and manages saved simulations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/simudouane/backend/internal/infrastructure/config"
	"github.com/simudouane/backend/internal/infrastructure/logger"
)

// errUsage marks a command line the user must fix.
var errUsage = errors.New("usage error")

type command struct {
	name    string
	summary string
	needsDB bool
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"compute", "Compute a breakdown from a YAML declaration (no database)", false, runCompute},
	{"seed", "Load the reference catalogue of categories and products", true, runSeed},
	{"categories", "List product categories", true, runCategories},
	{"products", "List or search products", true, runProducts},
	{"preview", "Compute a breakdown for a catalogued product without saving it", true, runPreview},
	{"simulate", "Compute and save a simulation", true, runSimulate},
	{"list", "List saved simulations", true, runList},
	{"show", "Show one simulation", true, runShow},
	{"update", "Change the inputs of an unpaid simulation", true, runUpdate},
	{"delete", "Delete an unpaid simulation", true, runDelete},
	{"confirm", "Confirm payment of a simulation", true, runConfirm},
	{"statement", "Write the PDF statement of a simulation", true, runStatement},
	{"export", "Write the simulation history as an XLSX workbook", true, runExport},
}

func main() {
	var (
		configPath string
		logLevel   string
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (default: ./config.toml)")
	flag.StringVar(&logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := lookup(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logCfg := logger.FromAppConfig(cfg.Log)
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, log = logger.WithRequestID(ctx, log, uuid.NewString())

	a, err := newApp(ctx, cfg, log, cmd.needsDB)
	if err != nil {
		log.Fatal("Failed to initialize", zap.Error(err))
	}

	err = cmd.run(ctx, a, args[1:])
	a.close()
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Error("Command failed", zap.String("command", cmd.name), zap.Error(err))
		os.Exit(1)
	}
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: dutyctl [-config file] [-log-level level] <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-11s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'dutyctl <command> -h' for the flags of a command.")
	fmt.Fprintln(os.Stderr, "Configuration is read from config.toml and SIMU_* environment variables.")
}
