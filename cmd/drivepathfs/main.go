// Command drivepathfs operates on files and folders of a Google Drive by path.
//
// Usage:
//
//	drivepathfs ls <folder>              List files in a folder
//	drivepathfs lsdir <folder>           List subfolders of a folder
//	drivepathfs mkdir <folder>           Create a folder and its missing ancestors
//	drivepathfs rmdir <folder>           Delete a folder
//	drivepathfs put [-mime type] <path> [local]
//	                                     Upload a local file, or stdin, to path
//	drivepathfs get <path>               Write a file to stdout
//	drivepathfs rm <path>                Delete a file
//	drivepathfs find <pattern>           Search files by name
//	drivepathfs finddir <pattern>        Search folders by name
//	drivepathfs exists <path>            Report whether a file exists
//	drivepathfs direxists <folder>       Report whether a folder exists
//
// Configuration is read from the environment, see internal/config.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jumpaku/go-drivepathfs"
	"github.com/Jumpaku/go-drivepathfs/internal/config"
	"github.com/Jumpaku/go-drivepathfs/internal/logging"
	"github.com/Jumpaku/go-drivepathfs/memstore"
	"github.com/Jumpaku/go-drivepathfs/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func main() {
	os.Exit(mainWithCode())
}

func mainWithCode() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to build logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to create store", zap.String("backend", cfg.Backend), zap.Error(err))
		return 1
	}

	reg := prometheus.NewRegistry()
	store = metrics.New(reg).Store(store)

	fsys, err := drivepathfs.New(ctx, store,
		drivepathfs.WithLogger(logger),
		drivepathfs.WithTempDir(cfg.TempDir),
	)
	if err != nil {
		return 1
	}
	if err := metrics.RegisterIndexSize(reg, fsys.Index()); err != nil {
		logger.Warn("failed to register index metrics", zap.Error(err))
	}

	if cfg.MetricsAddr != "" {
		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("failed to shut down metrics server", zap.Error(err))
			}
		}()
	}

	if err := run(ctx, fsys, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		var uErr *usageError
		if errors.As(err, &uErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n%s", err, usage)
			return 2
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newStore(ctx context.Context, cfg *config.Config) (drivepathfs.Store, error) {
	if cfg.Backend == config.BackendMemory {
		return memstore.New(memstore.WithPageSize(int(cfg.PageSize))), nil
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials: %w", err)
		}
		opts = append(opts, option.WithCredentials(creds))
	} else {
		client, err := google.DefaultClient(ctx, drive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		opts = append(opts, option.WithHTTPClient(client))
	}

	service, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return drivepathfs.NewDriveStore(service,
		drivepathfs.WithCorpora(cfg.Corpora),
		drivepathfs.WithPageSize(cfg.PageSize),
		drivepathfs.WithMoveToTrash(cfg.MoveToTrash),
	), nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
