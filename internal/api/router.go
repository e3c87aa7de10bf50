// AV Signal Lab - Home Theater Signal Chain Analyzer
// Copyright 2026 M. Wrenn (mwrenn)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mwrenn/avsignallab

// Package api provides the HTTP surface: config analysis, pre-roll
// analysis, setup recommendations, the device catalog, and export
// downloads.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mwrenn/avsignallab/internal/analyzer"
	"github.com/mwrenn/avsignallab/internal/catalog"
	"github.com/mwrenn/avsignallab/internal/config"
	"github.com/mwrenn/avsignallab/internal/export"
	"github.com/mwrenn/avsignallab/internal/metrics"
	"github.com/mwrenn/avsignallab/internal/middleware"
	"github.com/mwrenn/avsignallab/internal/preroll"
	"github.com/mwrenn/avsignallab/internal/probe"
	"github.com/mwrenn/avsignallab/internal/recommend"
)

// Router wires the engines behind HTTP handlers.
type Router struct {
	cfg         *config.Config
	catalog     *catalog.Catalog
	store       *catalog.Store // nil disables custom device endpoints
	analyzer    *analyzer.Engine
	preroll     *preroll.Engine
	recommender *recommend.Engine
	prober      *probe.Prober // nil disables file probing
	exports     *export.Store
}

// New assembles a Router. prober may be nil when ffprobe is absent;
// the affected endpoints then return 503 instead of failing startup.
func New(
	cfg *config.Config,
	cat *catalog.Catalog,
	store *catalog.Store,
	analyzerEngine *analyzer.Engine,
	prerollEngine *preroll.Engine,
	recommender *recommend.Engine,
	prober *probe.Prober,
	exports *export.Store,
) *Router {
	return &Router{
		cfg:         cfg,
		catalog:     cat,
		store:       store,
		analyzer:    analyzerEngine,
		preroll:     prerollEngine,
		recommender: recommender,
		prober:      prober,
		exports:     exports,
	}
}

// Routes builds the chi handler tree.
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))

	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		// Zero disables rate limiting.
		if rt.cfg.Server.RateLimitReqs > 0 {
			r.Use(httprate.Limit(
				rt.cfg.Server.RateLimitReqs,
				rt.cfg.Server.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					metrics.APIRateLimitHits.WithLabelValues(req.URL.Path).Inc()
					respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
				}),
			))
		}
		r.Use(middleware.PrometheusMetrics)

		r.Get("/health", rt.Health)

		r.Route("/analyze", func(r chi.Router) {
			r.Post("/config", rt.AnalyzeConfig)
			r.Post("/preroll", rt.AnalyzePreroll)
			r.Post("/preroll/file", rt.AnalyzePrerollFile)
		})

		r.Post("/setup/recommend", rt.Recommend)
		r.Get("/goals", rt.Goals)
		r.Get("/preroll/targets", rt.PrerollTargets)

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", rt.Devices)
			r.Get("/{category}", rt.DevicesByCategory)
			r.Route("/custom", func(r chi.Router) {
				r.Get("/", rt.CustomDevices)
				r.Post("/", rt.CreateCustomDevice)
				r.Put("/{category}/{id}", rt.UpdateCustomDevice)
				r.Delete("/{category}/{id}", rt.DeleteCustomDevice)
			})
		})

		r.Route("/reference", func(r chi.Router) {
			r.Get("/edid-presets", rt.EDIDPresets)
			r.Get("/dv-strings", rt.DVStrings)
			r.Get("/settings", rt.SettingsReference)
			r.Get("/manuals", rt.Manuals)
			r.Get("/speaker-tuning", rt.SpeakerTuning)
		})

		r.Get("/download/{filename}", rt.Download)
	})

	return r
}
