// Pedigree: kennel registry and lineage analysis console.
//
// Computes coefficients of inbreeding, common ancestors and breeding
// compatibility over the registered pedigrees of a kennel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kennelworks/pedigree/internal/config"
	"github.com/kennelworks/pedigree/internal/database"
	"github.com/kennelworks/pedigree/internal/database/seed"
	"github.com/kennelworks/pedigree/internal/services/pedigree"
	"github.com/kennelworks/pedigree/internal/tui"
)

// Build information (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// options are the parsed command line flags.
type options struct {
	configPath  string
	migrateOnly bool
	seedData    bool
	debugMode   bool
	recompute   bool
	coiDog      string
	sire        string
	dam         string

	generations    int
	generationsSet bool
}

// depth returns the requested pedigree depth. An explicit -generations,
// including 0, wins over the configured default.
func (o options) depth(configured int) int {
	if o.generationsSet {
		return o.generations
	}
	return configured
}

func main() {
	var (
		opts        options
		showVersion bool
	)
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.BoolVar(&opts.migrateOnly, "migrate-only", false, "Run migrations and exit")
	flag.BoolVar(&opts.seedData, "seed", false, "Generate seed data")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.BoolVar(&opts.debugMode, "debug", false, "Enable debug logging")
	flag.BoolVar(&opts.recompute, "recompute", false, "Recompute every stored COI and exit")
	flag.StringVar(&opts.coiDog, "coi", "", "Print the lineage analysis of a dog (ID or registration number) and exit")
	flag.StringVar(&opts.sire, "sire", "", "Sire of a mating to evaluate (with -dam)")
	flag.StringVar(&opts.dam, "dam", "", "Dam of a mating to evaluate (with -sire)")
	flag.IntVar(&opts.generations, "generations", 0, "Pedigree depth, 0 to 8 (default from configuration)")
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "generations" {
			opts.generationsSet = true
		}
	})

	if showVersion {
		fmt.Printf("pedigree version %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if (opts.sire == "") != (opts.dam == "") {
		fmt.Fprintln(os.Stderr, "-sire and -dam must be given together")
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		slog.Info("received shutdown signal", "signal", sig)
		cancel()

		// Force exit after timeout
		time.AfterFunc(10*time.Second, func() {
			slog.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	if err := run(ctx, opts); err != nil {
		slog.Error("application error", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, cfgPath, err := config.Load(opts.configPath, true)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	closeLog, err := setupLogging(cfg, opts.debugMode)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("pedigree starting",
		"version", Version,
		"build_time", BuildTime,
		"config_path", cfgPath,
	)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		slog.Info("closing database")
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	if opts.migrateOnly {
		slog.Info("migrations complete, exiting")
		return nil
	}

	if opts.seedData {
		return seedRegistry(ctx, db, cfg)
	}

	generations := opts.depth(cfg.Analysis.DefaultGenerations)
	svc := pedigree.NewService(db.DB, cfg.Analysis)

	switch {
	case opts.recompute:
		n, err := svc.RecomputeAll(ctx, generations)
		if err != nil {
			return fmt.Errorf("recomputing stored COIs: %w", err)
		}
		fmt.Printf("Recomputed %d stored coefficients at %d generations.\n", n, generations)
		return nil

	case opts.coiDog != "":
		dog, err := svc.ResolveDog(ctx, opts.coiDog)
		if err != nil {
			return err
		}
		analysis, err := svc.Analyze(ctx, dog.ID, generations)
		if err != nil {
			return fmt.Errorf("analyzing %s: %w", dog.RegistrationNumber, err)
		}
		writeAnalysis(os.Stdout, dog, analysis, svc.RiskLevel(analysis.COI))
		return nil

	case opts.sire != "":
		sire, err := svc.ResolveDog(ctx, opts.sire)
		if err != nil {
			return err
		}
		dam, err := svc.ResolveDog(ctx, opts.dam)
		if err != nil {
			return err
		}
		report := svc.CalculateBreedingCompatibility(ctx, sire.ID, dam.ID, generations)
		writeReport(os.Stdout, sire, dam, report)
		if report.Failed() {
			return fmt.Errorf("mating analysis failed: %w", report.Err)
		}
		return nil
	}

	tui.Version = Version
	tui.BuildTime = BuildTime

	slog.Info("starting TUI",
		"kennel", cfg.Kennel.Name,
		"generations", cfg.Analysis.DefaultGenerations,
	)

	if err := tui.Run(ctx, db, cfg); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	slog.Info("pedigree shutdown complete")
	return nil
}

// setupLogging installs the default slog logger. It writes JSON to the
// configured log file, or text to stderr when no file is configured.
func setupLogging(cfg *config.Config, debugMode bool) (func(), error) {
	logLevel := slog.LevelInfo
	if debugMode {
		logLevel = slog.LevelDebug
	} else {
		switch cfg.Logging.Level {
		case config.LogLevelDebug:
			logLevel = slog.LevelDebug
		case config.LogLevelWarn:
			logLevel = slog.LevelWarn
		case config.LogLevelError:
			logLevel = slog.LevelError
		}
	}

	logPath, err := config.EnsureLogDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	closer := func() {}
	var logHandler slog.Handler
	if logPath != "" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0640)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closer = func() { logFile.Close() }

		logHandler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
			Level: logLevel,
		})
	} else {
		logHandler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	slog.SetDefault(slog.New(logHandler))
	return closer, nil
}

// openDatabase verifies, opens and migrates the registry database.
func openDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	dbPath, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("ensuring data directory: %w", err)
	}

	backupDir, err := config.BackupDir(cfg)
	if err != nil {
		slog.Warn("failed to create backup directory", "error", err)
		backupDir = ""
	}

	report, err := database.AttemptRecovery(dbPath, backupDir)
	if err != nil {
		slog.Error("database recovery failed",
			"path", dbPath,
			"problem", report.Problem,
			"preserved", report.PreservedCopy,
		)
		return nil, fmt.Errorf("database recovery failed: %w", err)
	}

	if report.Result == database.RecoveryFromBackup {
		fmt.Fprintf(os.Stderr, "warning: %s was damaged and has been restored from %s\n", dbPath, report.BackupUsed)
	}

	db, err := database.Open(dbPath, &cfg.Database, backupDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	migrator, err := database.NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating migrator: %w", err)
	}

	result, err := migrator.MigrateUp(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if len(result.Applied) > 0 {
		slog.Info("applied migrations",
			"count", len(result.Applied),
			"to_version", result.TargetVersion,
		)
	}
	return db, nil
}

// seedRegistry fills an empty registry with generated stock.
func seedRegistry(ctx context.Context, db *database.DB, cfg *config.Config) error {
	hasData, err := seed.HasData(ctx, db.DB)
	if err != nil {
		return err
	}
	if hasData {
		slog.Warn("registry already contains dogs, skipping seed generation")
		return nil
	}

	slog.Info("generating seed data", "prefix", cfg.Kennel.RegistryPrefix)

	seedCfg := seed.DefaultConfig(cfg.Kennel.RegistryPrefix)
	seedCfg.AnalysisGenerations = cfg.Analysis.DefaultGenerations

	stats, err := seed.NewGenerator(db.DB, seedCfg).Generate(ctx)
	if err != nil {
		return fmt.Errorf("generating seed data: %w", err)
	}

	slog.Info("seed data generation complete",
		"breeds", stats.Breeds,
		"dogs", stats.Dogs,
		"litters", stats.Litters,
		"line_bred", stats.LineBredLitters,
	)
	fmt.Printf("Seeded %d dogs in %d breeds (%d litters, %d line-bred, highest COI %.2f%%).\n",
		stats.Dogs, stats.Breeds, stats.Litters, stats.LineBredLitters, stats.MaxCOI*100)
	return nil
}
