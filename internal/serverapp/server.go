package serverapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Yoshiyuki1026/smtd/internal/config"
	"github.com/Yoshiyuki1026/smtd/internal/host"
	"github.com/Yoshiyuki1026/smtd/internal/httpmw"
	"github.com/Yoshiyuki1026/smtd/internal/navigator"
	"github.com/Yoshiyuki1026/smtd/internal/notify"
	"github.com/Yoshiyuki1026/smtd/internal/telemetry"
)

type Options struct {
	Config    *config.Config
	Host      *host.Host
	Navigator *navigator.Service
	Notifier  *notify.Notifier
	Registry  *prometheus.Registry
	Recorder  *telemetry.Recorder
	Logger    *slog.Logger
}

func NewHandler(opts Options) (http.Handler, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Host == nil {
		return nil, errors.New("host is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Navigator == nil {
		opts.Navigator = navigator.NewService(navigator.WithLogger(opts.Logger))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "smtd",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := opts.Host.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "state storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "smtd",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	opts.Host.Routes(mux)

	nav := navigator.NewHandler(opts.Navigator, opts.Host)
	mux.HandleFunc("POST /api/navigator", nav.Speak)

	if opts.Notifier != nil {
		mux.Handle("GET /api/slack/notify", notify.NewHandler(opts.Notifier, opts.Config.Slack.CronSecret))
	}

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		since, err := parseSince(r.URL.Query().Get("since"), time.Now())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
			return
		}
		stats, err := opts.Recorder.Stats(since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("GET /api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(opts.Config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})

	var metrics *httpmw.Metrics
	if opts.Registry != nil {
		metrics = httpmw.NewMetrics(opts.Registry)
		mux.Handle("GET /metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	return httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
		httpmw.WithMetrics(metrics),
	), nil
}

// parseSince accepts a lookback duration ("24h") or a date
// ("2026-01-02"). Empty means the last 24 hours.
func parseSince(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now.Add(-24 * time.Hour), nil
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", v, now.Location()); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid since %q", v)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
