package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/placesearch/internal/catalog"
	"github.com/sells-group/placesearch/internal/model"
	"github.com/sells-group/placesearch/internal/monitoring"
	"github.com/sells-group/placesearch/internal/present"
	"github.com/sells-group/placesearch/internal/retrieval"
	"github.com/sells-group/placesearch/internal/store"
)

const badRequest = "could not process request"

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the search HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}

		env, err := initEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		if env.Store != nil {
			collector := monitoring.NewCollector(env.Store, cfg.Pricing.Perplexity.PerQuery)
			checker := monitoring.NewChecker(collector, monitoring.NewAlerter(cfg.Monitoring), cfg.Monitoring)
			go checker.Run(ctx)
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(env, cfg.Server.CORSOrigins, cfg.Pricing.Perplexity.PerQuery),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// statsResponse is the GET /v1/stats body.
type statsResponse struct {
	Days     []store.DailyStats `json:"days"`
	SpendUSD float64            `json:"spend_usd"`
}

// buildRouter wires the HTTP API over env. perQuery prices one augmented
// search for the stats endpoint.
func buildRouter(env *searchEnv, origins []string, perQuery float64) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", func(w http.ResponseWriter, req *http.Request) {
			var body retrieval.Request
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				writeError(w, http.StatusBadRequest, badRequest)
				return
			}
			resp, ok := search(w, req, env, body)
			if ok {
				writeJSON(w, http.StatusOK, resp)
			}
		})

		r.Get("/search/text", func(w http.ResponseWriter, req *http.Request) {
			q := req.URL.Query()
			resp, ok := search(w, req, env, retrieval.Request{
				Query:    q.Get("q"),
				Zone:     q.Get("zone"),
				Category: q.Get("category"),
				UserID:   q.Get("user"),
			})
			if !ok {
				return
			}
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(present.Render(resp)))
		})

		r.Get("/categories", func(w http.ResponseWriter, req *http.Request) {
			summaries, err := env.Engine.Overview(req.Context())
			if err != nil {
				zap.L().Error("categories overview failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "overview unavailable")
				return
			}
			writeJSON(w, http.StatusOK, summaries)
		})

		r.Post("/index/invalidate", func(w http.ResponseWriter, _ *http.Request) {
			env.Engine.Invalidate()
			w.WriteHeader(http.StatusNoContent)
		})

		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			if env.Store == nil {
				writeError(w, http.StatusServiceUnavailable, "search log disabled")
				return
			}
			days := 7
			if v := req.URL.Query().Get("days"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n <= 0 {
					writeError(w, http.StatusBadRequest, badRequest)
					return
				}
				days = n
			}

			since := time.Now().UTC().AddDate(0, 0, -(days - 1))
			stats, err := env.Store.Stats(req.Context(), since)
			if err != nil {
				zap.L().Error("stats query failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "stats unavailable")
				return
			}

			out := statsResponse{Days: stats}
			if out.Days == nil {
				out.Days = []store.DailyStats{}
			}
			for _, d := range stats {
				out.SpendUSD += d.Spend(perQuery)
			}
			writeJSON(w, http.StatusOK, out)
		})
	})

	return r
}

// search runs body through the engine, writing a 400 for caller errors.
func search(w http.ResponseWriter, req *http.Request, env *searchEnv, body retrieval.Request) (*model.Response, bool) {
	resp, err := env.Engine.Search(req.Context(), body)
	if err != nil {
		if eris.Is(err, catalog.ErrUnknownCategory) {
			writeError(w, http.StatusBadRequest, badRequest)
			return nil, false
		}
		zap.L().Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search unavailable")
		return nil, false
	}
	return resp, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
