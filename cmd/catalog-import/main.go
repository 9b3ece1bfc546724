// Command catalog-import loads exercise definitions from a YAML file into the
// configured catalog store.
//
//	catalog-import -file exercises.yaml [-config .] [-dry-run]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"musclemap/prescription-engine/internal/cache"
	"musclemap/prescription-engine/internal/config"
	"musclemap/prescription-engine/internal/domain"
	"musclemap/prescription-engine/internal/logger"
	"musclemap/prescription-engine/internal/repository"
	"musclemap/prescription-engine/internal/repository/mongo"
	"musclemap/prescription-engine/internal/repository/sqlite"
	"musclemap/prescription-engine/internal/service"
)

// catalogFile is the on-disk layout of an import file.
type catalogFile struct {
	Exercises []*domain.ExerciseMetadata `yaml:"exercises"`
}

var errEmptyCatalog = errors.New("catalog file has no exercises")

func parseCatalog(r io.Reader) ([]*domain.ExerciseMetadata, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyCatalog
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(f.Exercises) == 0 {
		return nil, errEmptyCatalog
	}
	for i, ex := range f.Exercises {
		if ex == nil {
			return nil, fmt.Errorf("exercise #%d is empty", i+1)
		}
	}
	return f.Exercises, nil
}

func main() {
	file := flag.String("file", "", "path to the YAML catalog file")
	cfgPath := flag.String("config", ".", "directory holding config.yaml")
	dryRun := flag.Bool("dry-run", false, "validate the file without writing")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*file, *cfgPath, *dryRun); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-import: %v\n", err)
		os.Exit(1)
	}
}

func run(file, cfgPath string, dryRun bool) error {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	fh, err := os.Open(file)
	if err != nil {
		return err
	}
	defer fh.Close()
	exercises, err := parseCatalog(fh)
	if err != nil {
		return err
	}
	for _, ex := range exercises {
		if err := service.ValidateExercise(ex); err != nil {
			return fmt.Errorf("exercise %q: %w", ex.ID, err)
		}
	}
	if dryRun {
		log.Info("catalog file is valid", "file", file, "exercises", len(exercises))
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	repo, closeRepo, err := openExercises(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeRepo()

	// The server instances drop their cached catalog via the refresh channel.
	var durable cache.DurableClient
	if cfg.Redis.Enabled {
		durable, err = cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, cached catalogs expire on their own", "error", err)
			durable = nil
		} else if closer, ok := durable.(io.Closer); ok {
			defer closer.Close()
		}
	}
	c := cache.New(log, cache.Options{
		Namespace:     cfg.Redis.Namespace,
		LocalCapacity: cfg.Cache.LocalCapacity,
		Durable:       durable,
		Channel:       cfg.Redis.Channel,
	})

	n, err := service.NewCatalogService(log, repo, c, nil).Import(ctx, exercises)
	if err != nil {
		return err
	}
	log.Info("catalog imported", "file", file, "exercises", n, "driver", cfg.Database.Driver)
	return nil
}

func openExercises(ctx context.Context, cfg config.DatabaseConfig) (repository.ExerciseRepository, func(), error) {
	if cfg.Driver == "sqlite" {
		db, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db.Repositories().Exercises, func() { _ = db.Close() }, nil
	}
	client, err := mongo.ConnectDB(ctx, cfg.URI)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	db := client.Database(cfg.Name)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		_ = mongo.DisconnectDB(client)
		return nil, nil, err
	}
	return mongo.NewMongoExerciseRepository(db), func() { _ = mongo.DisconnectDB(client) }, nil
}
