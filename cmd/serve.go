package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"voiceorder/internal/model"
	"voiceorder/internal/packaging"
	"voiceorder/internal/parser"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the order-entry HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(e),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(e *env) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/parse", handleParse(e))
		r.Post("/validate/article", handleValidateArticle(e))
		r.Post("/validate/customer", handleValidateCustomer(e))
		r.Post("/disambiguate", handleDisambiguate(e))
		r.Get("/orders", handleListOrders(e))
	})

	return r
}

func handleParse(e *env) http.HandlerFunc {
	type request struct {
		Transcript string `json:"transcript"`
		Validate   bool   `json:"validate"`
		Highlight  bool   `json:"highlight"`
		Save       bool   `json:"save"`
	}
	type response struct {
		Normalized string                    `json:"normalized"`
		Order      *model.ParsedOrder        `json:"order"`
		Customer   *model.MatchResult        `json:"customer,omitempty"`
		Articles   []model.MatchResult       `json:"articles,omitempty"`
		Segments   []model.TranscriptSegment `json:"segments,omitempty"`
		SavedID    string                    `json:"saved_id,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Transcript == "" {
			writeError(w, http.StatusBadRequest, "transcript is required")
			return
		}

		order := parser.ParseTranscript(req.Transcript)
		resp := response{
			Normalized: parser.Normalize(req.Transcript),
			Order:      order,
		}

		if req.Validate {
			validation := e.Validator.Order(r.Context(), order, e.Store)
			resp.Order = validation.Order
			resp.Customer = validation.Customer
			resp.Articles = validation.Articles
			order = validation.Order
		}
		if req.Save {
			saved, err := e.Store.SaveOrder(r.Context(), req.Transcript, order)
			if err != nil {
				zap.L().Error("save order failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "save failed")
				return
			}
			resp.SavedID = saved.ID
		}
		if req.Highlight {
			resp.Segments = parser.Highlight(req.Transcript, order)
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func handleValidateArticle(e *env) http.HandlerFunc {
	type request struct {
		Code string `json:"code"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}
		writeJSON(w, http.StatusOK, e.Validator.Article(r.Context(), req.Code))
	}
}

func handleValidateCustomer(e *env) http.HandlerFunc {
	type request struct {
		Name string `json:"name"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		writeJSON(w, http.StatusOK, e.Validator.Customer(r.Context(), req.Name))
	}
}

// handleDisambiguate resolves packaging breakdowns. Variants come from the
// request when given, otherwise from the stored catalog by article id.
func handleDisambiguate(e *env) http.HandlerFunc {
	type request struct {
		ArticleID string                 `json:"article_id"`
		Quantity  int                    `json:"quantity"`
		Variants  []model.PackageVariant `json:"variants"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "quantity must be positive")
			return
		}

		variants := req.Variants
		if len(variants) == 0 && req.ArticleID != "" {
			var err error
			variants, err = e.Store.VariantsForArticle(r.Context(), req.ArticleID)
			if err != nil {
				zap.L().Error("variant lookup failed", zap.String("article", req.ArticleID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "variant lookup failed")
				return
			}
		}
		if len(variants) == 0 {
			writeError(w, http.StatusNotFound, "no package variants known")
			return
		}

		writeJSON(w, http.StatusOK, packaging.Disambiguate(req.Quantity, variants))
	}
}

func handleListOrders(e *env) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		orders, err := e.Store.ListOrders(r.Context(), limit)
		if err != nil {
			zap.L().Error("list orders failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list failed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
	}
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
