package web_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/powledger/foundation/web"
)

func Test_Handle(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}
		if v.TraceID == "" {
			t.Error("expected a trace id")
		}

		var req struct {
			Amount uint64 `json:"amount"`
		}
		if err := web.Decode(r, &req); err != nil {
			return web.Respond(ctx, w, nil, http.StatusBadRequest)
		}

		resp := struct {
			Participant string `json:"participant"`
			Amount      uint64 `json:"amount"`
		}{
			Participant: web.Param(r, "participant"),
			Amount:      req.Amount,
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodPost, "v1", "/echo/:participant", h, mw("route"))

	r := httptest.NewRequest(http.MethodPost, "/v1/echo/alice", strings.NewReader(`{"amount":5}`))
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	if got := strings.TrimSpace(w.Body.String()); got != `{"participant":"alice","amount":5}` {
		t.Fatalf("unexpected body: %s", got)
	}

	if len(order) != 2 || order[0] != "app" || order[1] != "route" {
		t.Fatalf("expected app middleware to run first, got %v", order)
	}

	r = httptest.NewRequest(http.MethodPost, "/v1/echo/alice", strings.NewReader(`{"unknown":5}`))
	w = httptest.NewRecorder()
	app.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown fields to be rejected, got %d", w.Code)
	}
}

func Test_ShutdownError(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	select {
	case <-shutdown:
	default:
		t.Fatal("expected the app to signal shutdown")
	}
}
