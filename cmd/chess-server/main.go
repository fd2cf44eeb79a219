// Package main runs the capture-the-king chess server: the REST API, the
// optional account store and the optional drag-and-drop web UI.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dragchess/cmd/chess-server/cli"
	"dragchess/internal/server/http"
	"dragchess/internal/server/processor"
	"dragchess/internal/server/service"
	"dragchess/internal/server/storage"
	"dragchess/internal/server/webserver"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

const (
	gracefulShutdownTimeout = time.Second * 5
	gameExpiryInterval      = 10 * time.Minute
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, text logs)")
		storagePath = flag.String("storage-path", "", "Path to SQLite account database (accounts disabled if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		maxGames    = flag.Int("max-games", service.DefaultMaxGames, "Maximum number of concurrent games")
		gameTTL     = flag.Duration("game-ttl", service.GameIdleTTL, "Drop games without a move for this long")

		serve   = flag.Bool("serve", false, "Enable web UI server")
		webHost = flag.String("web-host", "localhost", "Web UI server host")
		webPort = flag.Int("web-port", 9090, "Web UI server port")
	)
	flag.Parse()

	if *dev {
		log.SetHandler(text.New(os.Stderr))
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetHandler(json.New(os.Stderr))
		log.SetLevel(log.InfoLevel)
	}

	if *pidLock && *pidPath == "" {
		log.Fatal("-pid-lock flag requires the -pid flag to be set")
	}
	if *maxGames < 1 {
		log.Fatal("-max-games must be at least 1")
	}

	pid, store, err := acquireResources(*pidPath, *pidLock, *storagePath, *dev)
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}
	if pid != nil {
		defer pid.Release()
		log.WithField("path", *pidPath).WithField("lock", *pidLock).Info("PID file created")
	}
	if store != nil {
		log.WithField("path", *storagePath).Info("account storage enabled")
	} else {
		log.Info("account storage disabled (use -storage-path to enable)")
	}

	var jwtSecret []byte
	if *dev {
		// Fixed secret so tokens survive restarts while developing
		jwtSecret = []byte("dev-secret-minimum-32-characters-long")
	} else {
		jwtSecret = make([]byte, 32)
		if _, err := rand.Read(jwtSecret); err != nil {
			// Fatal skips deferred calls
			pid.Release()
			log.WithError(err).Fatal("failed to generate JWT secret")
		}
	}

	svc := service.New(store, jwtSecret, *maxGames)
	proc := processor.New(svc)

	jobsCtx, jobsCancel := context.WithCancel(context.Background())
	go svc.RunCleanupJob(jobsCtx, service.CleanupJobInterval)
	go proc.RunExpiryJob(jobsCtx, gameExpiryInterval, *gameTTL)

	app := http.NewFiberApp(proc, svc, *dev)
	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		log.WithFields(log.Fields{
			"addr":      "http://" + apiAddr,
			"dev":       *dev,
			"max_games": *maxGames,
			"storage":   svc.GetStorageHealth(),
		}).Info("API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.WithError(err).Error("API server listen error")
		}
	}()

	if *serve {
		apiURL := "http://" + apiAddr
		go func() {
			log.WithField("addr", fmt.Sprintf("http://%s:%d", *webHost, *webPort)).
				WithField("api", apiURL).Info("web UI server starting")

			if err := webserver.Start(*webHost, *webPort, apiURL); err != nil {
				log.WithError(err).Error("web UI server error")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}

	jobsCancel()

	if err := proc.Close(); err != nil {
		log.WithError(err).Warn("processor close error")
	}

	// Releases long-poll waiters and closes storage
	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.WithError(err).Warn("service shutdown error")
	}

	log.Info("servers exited")
}

// acquireResources takes the PID file, then opens account storage when a
// path is set. On failure nothing is left held, including the PID file.
func acquireResources(pidPath string, lock bool, storagePath string, dev bool) (*pidFile, *storage.Store, error) {
	var pid *pidFile
	if pidPath != "" {
		var err error
		if pid, err = acquirePIDFile(pidPath, lock); err != nil {
			return nil, nil, fmt.Errorf("failed to manage PID file: %w", err)
		}
	}

	// Account storage is optional; games are never stored
	if storagePath == "" {
		return pid, nil, nil
	}

	store, err := storage.NewStore(storagePath, dev)
	if err != nil {
		pid.Release()
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	if err = store.InitDB(); err != nil {
		store.Close()
		pid.Release()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return pid, store, nil
}
