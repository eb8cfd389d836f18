// Package handlers manages the different versions of the API.
package handlers

import (
	"context"
	"expvar"
	"net/http"
	"net/http/pprof"
	"os"

	"github.com/ardanlabs/powledger/app/services/node/handlers/debug/checkgrp"
	v1 "github.com/ardanlabs/powledger/app/services/node/handlers/v1"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

// MuxConfig contains all the mandatory systems required by handlers.
type MuxConfig struct {
	Shutdown           chan os.Signal
	Log                *zap.SugaredLogger
	State              *state.State
	NS                 *nameservice.NameService
	Evts               *events.Events
	CORSAllowedOrigins []string
}

// PublicMux constructs the http.Handler for the routes wallets and browsers
// talk to. Preflight requests are answered for the allowed origins.
func PublicMux(cfg MuxConfig) http.Handler {
	cors := mid.Cors(cfg.CORSAllowedOrigins)

	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		cors,
		mid.Panics(),
	)

	preflight := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return nil
	}
	app.Handle(http.MethodOptions, "", "/*", preflight)

	v1.PublicRoutes(app, v1.Config{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		Evts:  cfg.Evts,
	})

	return app
}

// PrivateMux constructs the http.Handler for the routes peers use to share
// transactions, blocks and chains.
func PrivateMux(cfg MuxConfig) http.Handler {
	app := web.NewApp(
		cfg.Shutdown,
		mid.Logger(cfg.Log),
		mid.Errors(cfg.Log),
		mid.Metrics(),
		mid.Panics(),
	)

	v1.PrivateRoutes(app, v1.Config{
		Log:   cfg.Log,
		State: cfg.State,
	})

	return app
}

// DebugStandardLibraryMux registers all the debug routes from the standard library
// into a new mux bypassing the use of the DefaultServerMux. Using the
// DefaultServerMux would be a security risk since a dependency could inject a
// handler into our service without us knowing it.
func DebugStandardLibraryMux() *http.ServeMux {
	mux := http.NewServeMux()

	// Register all the standard library debug endpoints.
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/debug/vars", expvar.Handler())

	return mux
}

// DebugMux registers all the debug standard library routes and then custom
// debug application routes for the service. This bypassing the use of the
// DefaultServerMux. Using the DefaultServerMux would be a security risk since
// a dependency could inject a handler into our service without us knowing it.
func DebugMux(build string, log *zap.SugaredLogger) http.Handler {
	mux := DebugStandardLibraryMux()

	// Register debug check endpoints.
	cgh := checkgrp.Handlers{
		Build: build,
		Log:   log,
	}
	mux.HandleFunc("/debug/readiness", cgh.Readiness)
	mux.HandleFunc("/debug/liveness", cgh.Liveness)

	return mux
}
