// Package main runs the data-lineage-audit demo pipeline.
//
// Each job executes its SQL against PostgreSQL and emits OpenLineage run
// events (START plus COMPLETE or FAIL) through the configured transport,
// so a lineage backend such as Marquez can reconstruct the pipeline graph.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/lineage-audit/emitter/internal/config"
	"github.com/lineage-audit/emitter/internal/emitter"
	"github.com/lineage-audit/emitter/internal/jobs"
	"github.com/lineage-audit/emitter/internal/storage"
	"github.com/lineage-audit/emitter/internal/transport"
)

// Version information.
const (
	version = "1.0.0-dev"
	name    = "lineage-jobs"
)

func main() {
	versionFlag := flag.Bool("version", false, "show version information")
	listFlag := flag.Bool("list", false, "list registered jobs and exit")
	jobFlag := flag.String("job", "", "run a single job by name instead of the full suite")
	flag.Parse()

	if *versionFlag {
		log.Printf("%s v%s\n", name, version)
		os.Exit(0)
	}

	registry := jobs.Registry()

	if *listFlag {
		for _, job := range registry {
			fmt.Printf("%-30s %s\n", job.Name(), job.Description())
		}
		os.Exit(0)
	}

	// Optional; real deployments configure through the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: config.GetEnvLogLevel("LOG_LEVEL", slog.LevelInfo),
	}))

	logger.Info("Starting lineage job runner",
		slog.String("service", name),
		slog.String("version", version),
	)

	transportConfig := transport.LoadConfig()

	sink, err := transport.New(transportConfig)
	if err != nil {
		logger.Error("Failed to create transport", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		_ = transport.Close(sink)
	}()

	em := emitter.New(
		&emitter.Config{
			Namespace: config.GetEnvStr("OPENLINEAGE_NAMESPACE", "data-lineage-audit"),
			Producer:  config.GetEnvStr("OPENLINEAGE_PRODUCER", ""),
		},
		sink,
		emitter.WithLogger(logger),
	)

	logger.Info("Emitter initialized",
		slog.String("transport", string(transportConfig.Kind)),
		slog.String("namespace", em.Namespace()),
		slog.String("producer", em.Producer()),
	)

	storageConfig := storage.LoadConfig()

	dbConn, err := storage.NewConnection(storageConfig)
	if err != nil {
		logger.Error("Failed to connect to database",
			slog.String("error", err.Error()),
			slog.String("database_url", storageConfig.MaskDatabaseURL()),
		)
		os.Exit(1)
	}

	defer func() {
		_ = dbConn.Close() // Ensure connection closes on normal shutdown
	}()

	catalog, err := jobs.LoadCatalog()
	if err != nil {
		logger.Error("Failed to load dataset catalog", slog.String("error", err.Error()))

		_ = dbConn.Close()
		//nolint:gocritic // Explicit cleanup before os.Exit is intentional (defer won't run)
		os.Exit(1)
	}

	deps := &jobs.Deps{
		DB:      dbConn.DB,
		Emitter: em,
		Catalog: catalog,
		Logger:  logger,
	}

	if *jobFlag != "" {
		registry = selectJob(registry, *jobFlag)
		if registry == nil {
			logger.Error("Unknown job", slog.String("job", *jobFlag))

			_ = dbConn.Close()
			os.Exit(1)
		}
	}

	summary, err := jobs.RunAll(context.Background(), deps, registry)

	logger.Info("Job suite finished",
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
	)

	if err != nil {
		_ = transport.Close(sink)
		_ = dbConn.Close()
		os.Exit(1)
	}
}

func selectJob(registry []jobs.Job, jobName string) []jobs.Job {
	for _, job := range registry {
		if job.Name() == jobName {
			return []jobs.Job{job}
		}
	}

	return nil
}
