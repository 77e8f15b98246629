package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"globalai-knowledge/internal/app"
	"globalai-knowledge/internal/httputil"
	"globalai-knowledge/internal/knowledge"
	"globalai-knowledge/internal/language"
)

const (
	codeEmptyQuery  = "EMPTY_QUERY"
	codeServerError = "SERVER_ERROR"

	shutdownGrace = 10 * time.Second
)

type backendView struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Default bool   `json:"default"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", deps.Config.Port),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		deps.Log.Info("gateway listening",
			"addr", srv.Addr,
			"backends", strings.Join(deps.Registry.IDs(), ", "),
			"default_backend", deps.Registry.Default().ID,
			"languages", strings.Join(language.Supported(), ", "),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		// Closing the hub ends every websocket write loop.
		deps.Hub.Close()
		err := srv.Shutdown(shutdownCtx)
		if rerr := deps.Relay.Close(); rerr != nil {
			deps.Log.Warn("relay close failed", "err", rerr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("gateway stopped", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("gateway stopped")
}

func newRouter(deps app.Deps) http.Handler {
	r := httputil.NewRouter(deps.Log, deps.Config.AllowedOrigins())

	r.Route("/api/knowledge", func(r chi.Router) {
		// Above the 15s backend bound so the dispatcher reports the timeout itself.
		r.Use(middleware.Timeout(deps.Config.BackendTimeout + 5*time.Second))
		r.Get("/search", searchHandler(deps))
		r.Get("/backends", backendsHandler(deps))
	})
	r.Get("/ws", contributionsHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	return r
}

func searchHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		wantSources, _ := strconv.ParseBool(q.Get("sources"))

		res, err := deps.Dispatcher.Search(r.Context(), knowledge.Request{
			Text:        q.Get("query"),
			Language:    q.Get("language"),
			BackendID:   q.Get("model"),
			WantSources: wantSources,
		})
		if err != nil {
			writeDispatchError(deps.Log, w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, res)
	}
}

// writeDispatchError maps dispatch error kinds onto status codes and the
// {error, code} body. Internal causes stay in the log.
func writeDispatchError(log *slog.Logger, w http.ResponseWriter, err error) {
	var de *knowledge.Error
	if !errors.As(err, &de) {
		httputil.Fail(log, w, http.StatusText(http.StatusInternalServerError), codeServerError, err, http.StatusInternalServerError)
		return
	}

	switch de.Kind {
	case knowledge.InvalidInput:
		httputil.Fail(log, w, de.Message, codeEmptyQuery, err, http.StatusBadRequest)
	case knowledge.Timeout:
		httputil.Fail(log, w, de.Message, codeServerError, err, http.StatusGatewayTimeout)
	case knowledge.BackendError:
		if de.Status >= http.StatusBadRequest {
			httputil.Fail(log, w, de.Message, strconv.Itoa(de.Status), err, de.Status)
			return
		}
		httputil.Fail(log, w, de.Message, codeServerError, err, http.StatusInternalServerError)
	default:
		httputil.Fail(log, w, de.Message, codeServerError, err, http.StatusInternalServerError)
	}
}

func backendsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		def := deps.Registry.Default().ID
		backends := deps.Registry.Backends()
		views := make([]backendView, len(backends))
		for i, b := range backends {
			views[i] = backendView{ID: b.ID, Model: b.ModelName, Default: b.ID == def}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"backends":  views,
			"languages": language.Supported(),
		})
	}
}
