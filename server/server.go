// Package server exposes the validator over HTTP.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/JiscSD/ed318-validator/zone"
	jsonschema "github.com/JiscSD/ed318-validator/zone/schema"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/schema"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Config holds the defaults applied to every request. Mode and CollectAll can
// be overridden per request.
type Config struct {
	Mode            string
	CollectAll      bool
	Concurrency     int
	CheckLayerOrder bool
	SchemaCheck     bool

	// CacheSize is the number of results kept. Zero disables the cache.
	CacheSize int
	CacheTTL  time.Duration

	MaxBodyBytes int64

	// Profiling mounts the pprof handlers under /debug.
	Profiling bool
}

// Server is an http.Handler serving /validate, /health and /metrics.
type Server struct {
	logger   logrus.FieldLogger
	config   Config
	checker  *jsonschema.Checker
	cache    *expirable.LRU[string, *outcome]
	registry *prometheus.Registry
	metrics  *metrics
	query    *schema.Decoder
	router   *chi.Mux
}

var _ http.Handler = (*Server)(nil)

// outcome is the cacheable part of a report.
type outcome struct {
	valid    bool
	errors   []*zone.ValidationErrorDetail
	warnings []*zone.ValidationErrorDetail
	document zone.Object
}

type validateQuery struct {
	Mode       string `schema:"mode"`
	CollectAll *bool  `schema:"collectAll"`
}

func New(logger logrus.FieldLogger, config Config) (*Server, error) {
	if _, err := zone.ParseMode(config.Mode); err != nil {
		return nil, err
	}
	s := &Server{
		logger:   logger,
		config:   config,
		registry: prometheus.NewRegistry(),
		query:    schema.NewDecoder(),
	}
	s.query.IgnoreUnknownKeys(true)
	s.metrics = newMetrics(s.registry)
	if config.SchemaCheck {
		checker, err := jsonschema.New()
		if err != nil {
			return nil, errors.Wrap(err, "cannot load schema")
		}
		s.checker = checker
	}
	if config.CacheSize > 0 {
		s.cache = expirable.NewLRU[string, *outcome](config.CacheSize, nil, config.CacheTTL)
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Post("/validate", s.handleValidate())
	if s.config.Profiling {
		r.Mount("/debug", middleware.Profiler())
	}

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleValidate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q validateQuery
		if err := s.query.Decode(&q, r.URL.Query()); err != nil {
			writeError(s.logger, w, http.StatusBadRequest, fmt.Sprintf("invalid query: %v", err))
			return
		}
		if q.Mode == "" {
			q.Mode = s.config.Mode
		}
		mode, err := zone.ParseMode(q.Mode)
		if err != nil {
			writeError(s.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		collectAll := s.config.CollectAll
		if q.CollectAll != nil {
			collectAll = *q.CollectAll
		}

		body := r.Body
		if s.config.MaxBodyBytes > 0 {
			body = http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)
		}
		stream, err := ioutil.ReadAll(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(s.logger, w, http.StatusRequestEntityTooLarge, fmt.Sprintf("document exceeds %d bytes", tooLarge.Limit))
				return
			}
			writeError(s.logger, w, http.StatusBadRequest, "cannot read document")
			return
		}

		id := uuid.New().String()
		logger := s.logger.WithFields(logrus.Fields{"id": id, "mode": mode, "collectAll": collectAll})

		key := cacheKey(stream, mode, collectAll)
		out, hit := s.lookup(key)
		if hit {
			s.metrics.cacheHits.Inc()
			w.Header().Set("X-Cache", "hit")
		} else {
			out, err = s.validate(r.Context(), stream, mode, collectAll)
			if err != nil {
				logger.WithError(err).Info("Document rejected")
				status := http.StatusBadRequest
				if r.Context().Err() != nil {
					status = http.StatusServiceUnavailable
				}
				writeError(s.logger, w, status, err.Error())
				return
			}
			if s.cache != nil {
				s.cache.Add(key, out)
			}
		}

		logger.WithFields(logrus.Fields{
			"valid":    out.valid,
			"errors":   len(out.errors),
			"warnings": len(out.warnings),
			"cached":   hit,
		}).Info("Document validated")
		for _, issue := range out.errors {
			logger.Debug(issue)
		}

		report := &Report{
			ID:       id,
			Mode:     mode,
			Valid:    out.valid,
			Errors:   nonNil(out.errors),
			Warnings: nonNil(out.warnings),
			Document: out.document,
		}
		status := http.StatusOK
		if !out.valid {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(s.logger, w, status, report)
	}
}

// Purge empties the result cache.
func (s *Server) Purge() {
	if s.cache == nil {
		return
	}
	s.cache.Purge()
	s.logger.Info("Result cache purged")
}

// LogStats logs the state of the result cache.
func (s *Server) LogStats() {
	if s.cache == nil {
		s.logger.Info("Result cache disabled")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"entries":  s.cache.Len(),
		"capacity": s.config.CacheSize,
		"ttl":      s.config.CacheTTL,
	}).Info("Result cache")
}

func (s *Server) lookup(key string) (*outcome, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

// validate returns an error only when the document cannot be validated at
// all, e.g. when it is not JSON.
func (s *Server) validate(ctx context.Context, stream []byte, mode zone.Mode, collectAll bool) (*outcome, error) {
	v, err := zone.NewValidator(string(mode),
		zone.WithCollectAll(collectAll),
		zone.WithConcurrency(s.config.Concurrency),
		zone.WithLayerOrderCheck(s.config.CheckLayerOrder),
		zone.WithSchemaCheck(s.checker),
	)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := v.Validate(ctx, stream)
	s.metrics.duration.Observe(time.Since(start).Seconds())

	var verr *zone.ValidationError
	switch {
	case errors.As(err, &verr):
		s.metrics.validations.WithLabelValues(string(mode), "invalid").Inc()
		for _, issue := range verr.Errors {
			s.metrics.issues.WithLabelValues(issue.Kind.String()).Inc()
		}
		return &outcome{errors: verr.Errors}, nil
	case err != nil:
		s.metrics.validations.WithLabelValues(string(mode), "error").Inc()
		return nil, err
	}
	s.metrics.validations.WithLabelValues(string(mode), "valid").Inc()
	return &outcome{valid: true, warnings: res.Warnings, document: res.Object}, nil
}

func cacheKey(stream []byte, mode zone.Mode, collectAll bool) string {
	sum := sha256.Sum256(stream)
	return hex.EncodeToString(sum[:]) + "/" + string(mode) + "/" + strconv.FormatBool(collectAll)
}

func nonNil(issues []*zone.ValidationErrorDetail) []*zone.ValidationErrorDetail {
	if issues == nil {
		return []*zone.ValidationErrorDetail{}
	}
	return issues
}
