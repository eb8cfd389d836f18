package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/powledger/app/services/node/handlers"
	"github.com/ardanlabs/powledger/business/sys/metrics"
	"github.com/ardanlabs/powledger/foundation/blockchain/peer"
	"github.com/ardanlabs/powledger/foundation/blockchain/signature"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/leveldb"
	"github.com/ardanlabs/powledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powledger/foundation/blockchain/worker"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/logger"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout        time.Duration `conf:"default:5s"`
			WriteTimeout       time.Duration `conf:"default:10s"`
			IdleTimeout        time.Duration `conf:"default:120s"`
			ShutdownTimeout    time.Duration `conf:"default:20s"`
			PeerTimeout        time.Duration `conf:"default:5s"`
			DebugHost          string        `conf:"default:0.0.0.0:7080"`
			PublicHost         string        `conf:"default:0.0.0.0:8080"`
			PrivateHost        string        `conf:"default:0.0.0.0:9080"`
			CORSAllowedOrigins []string      `conf:"default:*"`
		}
		State struct {
			HostID          string
			MinerName       string        `conf:"default:miner1"`
			MineOnSubmit    bool          `conf:"default:false"`
			MineInterval    time.Duration `conf:"default:0s"`
			ResolveInterval time.Duration `conf:"default:1m"`
			KnownPeers      []string
		}
		Storage struct {
			Backend     string `conf:"default:disk"`
			DiskPath    string `conf:"default:zblock/ledger.txt"`
			LevelDBPath string `conf:"default:zblock/ledger.db"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "proof of work ledger node",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for participant
	// addresses. The names come from the file names in the accounts folder.
	if err := os.MkdirAll(cfg.NameService.Folder, 0755); err != nil {
		return fmt.Errorf("creating accounts folder: %w", err)
	}

	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for address, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "address", address)
	}

	// =========================================================================
	// Hosting Identity

	// The hosting identity receives the mining rewards. It can be set
	// directly or come from the miner's key in the accounts folder. A node
	// without an identity still validates and relays but can't mine.
	hostID := cfg.State.HostID
	if hostID == "" {
		path := filepath.Join(cfg.NameService.Folder, cfg.State.MinerName+".ecdsa")
		privateKey, err := crypto.LoadECDSA(path)
		switch {
		case err == nil:
			hostID = signature.PublicKeyToAddress(privateKey.PublicKey)
		case errors.Is(err, fs.ErrNotExist):
			log.Infow("startup", "status", "no hosting identity, mining disabled", "path", path)
		default:
			return fmt.Errorf("unable to load private key for node: %w", err)
		}
	}

	// =========================================================================
	// Storage Support

	strg, err := openStorage(cfg.Storage.Backend, cfg.Storage.DiskPath, cfg.Storage.LevelDBPath)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	// =========================================================================
	// Blockchain Support

	// A peer set is a collection of known nodes in the network so transactions
	// and blocks can be shared.
	peerSet := peer.NewPeerSet()
	for _, host := range cfg.State.KnownPeers {
		if host != cfg.Web.PrivateHost {
			peerSet.Add(peer.New(host))
		}
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are also sent to any websocket
	// client that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")
		evts.Send(s)
	}

	// The state value represents the ledger node and manages the chain, the
	// pending pool and the known peers.
	st, err := state.New(state.Config{
		HostID:       hostID,
		Host:         cfg.Web.PrivateHost,
		MineOnSubmit: cfg.State.MineOnSubmit,
		Storage:      strg,
		KnownPeers:   peerSet,
		Network:      peer.NewClient(cfg.Web.PeerTimeout),
		EvHandler:    ev,
	})
	if err != nil {
		strg.Close()
		return err
	}
	defer st.Shutdown()

	metrics.SetBlocks(len(st.Chain()))

	// The worker package implements mining and conflict resolution as
	// background operations. The worker will register itself with the state.
	worker.Run(st, worker.Config{
		MineInterval:    cfg.State.MineInterval,
		ResolveInterval: cfg.State.ResolveInterval,
		EvHandler:       ev,
	})

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
		NS:       ns,
		Evts:     evts,

		CORSAllowedOrigins: cfg.Web.CORSAllowedOrigins,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Start Private Service

	log.Infow("startup", "status", "initializing V1 private API support")

	// Construct the mux for the private API calls.
	privateMux := handlers.PrivateMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    st,
	})

	// Construct a server to service the requests against the mux.
	private := http.Server{
		Addr:         cfg.Web.PrivateHost,
		Handler:      privateMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "private api router started", "host", private.Addr)
		serverErrors <- private.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancelPri := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPri()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown private API started")
		if err := private.Shutdown(ctx); err != nil {
			private.Close()
			return fmt.Errorf("could not stop private service gracefully: %w", err)
		}

		// Give outstanding requests a deadline for completion.
		ctx, cancelPub := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancelPub()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// openStorage constructs the configured persistence backend.
func openStorage(backend string, diskPath string, levelDBPath string) (storage.Storage, error) {
	switch backend {
	case "disk":
		return disk.New(diskPath)
	case "leveldb":
		return leveldb.New(levelDBPath)
	case "memory":
		return memory.New(), nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
