// Package app — HTTP-поверхность для UI-клиентов: тонкие обработчики поверх
// доменного ядра, никакой логики в презентации.
package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/academic-records/internal/auth"
	"github.com/Spok95/academic-records/internal/db"
	"github.com/Spok95/academic-records/internal/enrollment"
	"github.com/Spok95/academic-records/internal/metrics"
	"github.com/Spok95/academic-records/internal/session"
)

type Deps struct {
	DB       *sql.DB
	Log      *zap.SugaredLogger
	Auth     *auth.Service
	Sessions *session.Store
	Ledger   *enrollment.Ledger
	Store    *db.Store
	Location *time.Location
}

type Server struct {
	srv  *http.Server
	deps Deps
}

func StartHTTP(ctx context.Context, addr string, deps Deps) *Server {
	s := &Server{deps: deps}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 800*time.Millisecond)
		defer cancel()
		t0 := time.Now()
		if err := deps.DB.PingContext(ctx); err != nil {
			http.Error(w, "db not ok: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
		metrics.ObserveDBPing(time.Since(t0))
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	s.routes(mux)

	s.srv = &http.Server{Addr: addr, Handler: mux}

	go func() {
		_ = s.srv.ListenAndServe() // закрываем аккуратно при Shutdown
	}()

	go func() {
		<-ctx.Done()
		shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shCtx)
	}()

	return s
}
