package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/powledger/business/sys/validate"
	"github.com/ardanlabs/powledger/business/web/errs"
	"github.com/ardanlabs/powledger/business/web/mid"
	"github.com/ardanlabs/powledger/foundation/web"
	"go.uber.org/zap"
)

func Test_Errors(t *testing.T) {
	type table struct {
		name   string
		err    error
		status int
		fields bool
	}

	tt := []table{
		{name: "trusted", err: errs.NewTrusted(errors.New("block rejected"), http.StatusConflict), status: http.StatusConflict},
		{name: "fields", err: validate.FieldErrors{{Field: "amount", Err: "amount is required"}}, status: http.StatusBadRequest, fields: true},
		{name: "untrusted", err: errors.New("disk exploded"), status: http.StatusInternalServerError},
		{name: "panic", status: http.StatusInternalServerError},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			app := web.NewApp(make(chan os.Signal, 1), mid.Logger(zap.NewNop().Sugar()), mid.Errors(zap.NewNop().Sugar()), mid.Metrics(), mid.Panics())

			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				if tst.err == nil {
					panic("handler blew up")
				}
				return tst.err
			}
			app.Handle(http.MethodGet, "v1", "/test", h, mid.Cors([]string{"*"}))

			w := httptest.NewRecorder()
			app.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

			if w.Code != tst.status {
				t.Fatalf("expected status %d, got %d", tst.status, w.Code)
			}

			var resp errs.Response
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			if tst.fields != (len(resp.Fields) > 0) {
				t.Fatalf("unexpected fields in response: %+v", resp)
			}

			if tst.status == http.StatusInternalServerError && resp.Error != http.StatusText(http.StatusInternalServerError) {
				t.Fatalf("expected untrusted errors to be hidden, got %s", resp.Error)
			}

			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Fatal("expected the cors header to be set")
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Cors(t *testing.T) {
	type table struct {
		name    string
		allowed []string
		origin  string
		exp     string
	}

	tt := []table{
		{name: "wildcard", allowed: []string{"*"}, origin: "https://wallet.example.com", exp: "*"},
		{name: "listed", allowed: []string{"https://wallet.example.com"}, origin: "https://wallet.example.com", exp: "https://wallet.example.com"},
		{name: "unlisted", allowed: []string{"https://wallet.example.com"}, origin: "https://evil.example.com", exp: ""},
		{name: "no origin", allowed: []string{"https://wallet.example.com"}, exp: ""},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			app := web.NewApp(make(chan os.Signal, 1))

			h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				return nil
			}
			app.Handle(http.MethodOptions, "", "/*", h, mid.Cors(tst.allowed))

			r := httptest.NewRequest(http.MethodOptions, "/v1/tx/submit", nil)
			if tst.origin != "" {
				r.Header.Set("Origin", tst.origin)
			}

			w := httptest.NewRecorder()
			app.ServeHTTP(w, r)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.exp {
				t.Fatalf("expected allow origin %q, got %q", tst.exp, got)
			}

			if tst.exp == "" && w.Header().Get("Access-Control-Allow-Methods") != "" {
				t.Fatal("expected no cors headers for a disallowed origin")
			}
		}

		t.Run(tst.name, f)
	}
}
