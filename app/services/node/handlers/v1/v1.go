// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/powledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/powledger/foundation/blockchain/state"
	"github.com/ardanlabs/powledger/foundation/events"
	"github.com/ardanlabs/powledger/foundation/nameservice"
	"github.com/ardanlabs/powledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		NS:    cfg.NS,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodPost, version, "/tx/submit", pbl.SubmitTransaction)
	app.Handle(http.MethodGet, version, "/tx/pending", pbl.Pending)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, version, "/balance", pbl.Balance)
	app.Handle(http.MethodGet, version, "/balance/:participant", pbl.Balance)
	app.Handle(http.MethodGet, version, "/balances/list", pbl.Balances)
	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodPost, version, "/peers", pbl.AddPeers)
	app.Handle(http.MethodGet, version, "/peers", pbl.Peers)
	app.Handle(http.MethodDelete, version, "/peers/:host", pbl.RemovePeer)
	app.Handle(http.MethodPost, version, "/resolve", pbl.Resolve)
	app.Handle(http.MethodGet, version, "/status", pbl.Status)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, version, "/node/broadcast-transaction", prv.BroadcastTransaction)
	app.Handle(http.MethodPost, version, "/node/broadcast-block", prv.BroadcastBlock)
	app.Handle(http.MethodGet, version, "/node/chain", prv.Chain)
	app.Handle(http.MethodGet, version, "/node/status", prv.Status)
}
