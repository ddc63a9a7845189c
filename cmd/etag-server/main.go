package main

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	etag "github.com/ilpanich/etag-middleware"
	"github.com/ilpanich/etag-middleware/docstore"
	validator "github.com/ilpanich/etag-middleware/pkg/etag-validator"
)

// this is set by goreleaser
var version string

func init() {
	if version == "" {
		version = "DEV"
	}
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	config, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger, err := newLogger(config, os.Stdout)
	if err != nil {
		return err
	}
	log.Logger = logger

	handler, cleanup, err := newHandler(config, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	if config.MetricsListen != "" {
		go func() {
			logger.Info().Msgf("Serving metrics on %s", config.MetricsListen)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(config.MetricsListen, mux); err != nil {
				logger.Error().Err(err).Msg("Metrics listener stopped")
			}
		}()
	}

	logger.Info().Msgf("Listening on %s", config.Listen)
	return http.ListenAndServe(config.Listen, handler)
}

// newLogger logs to out and, if configured, also to the log file.
func newLogger(config Config, out io.Writer) (zerolog.Logger, error) {
	logLevel := zerolog.DebugLevel
	if config.Trace {
		logLevel = zerolog.TraceLevel
	}

	logOutputs := []io.Writer{zerolog.ConsoleWriter{Out: out}}
	if config.LogFile != "" {
		logFileOutput, err := os.OpenFile(config.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return zerolog.Nop(), errors.Wrap(err, "cannot open log file")
		}
		logOutputs = append(logOutputs, logFileOutput)
	}
	multiWriter := zerolog.MultiLevelWriter(logOutputs...)
	return zerolog.New(multiWriter).Level(logLevel).
		With().Timestamp().Str("version", version).Logger(), nil
}

// newHandler builds the server: a reverse proxy to the configured origin, or the
// document store if there is none. Both are wrapped in the ETag middleware.
func newHandler(config Config, logger zerolog.Logger) (http.Handler, func(), error) {
	mode, err := etag.ParseMode(config.Mode)
	if err != nil {
		return nil, nil, err
	}
	algorithm, err := validator.ParseAlgorithm(config.Algorithm)
	if err != nil {
		return nil, nil, err
	}
	mw, err := etag.New(etag.Config{
		Mode:      mode,
		Algorithm: algorithm,
		Logger:    &logger,
		Bypass:    config.Bypass,
	})
	if err != nil {
		return nil, nil, err
	}

	origin, err := config.originURL()
	if err != nil {
		return nil, nil, err
	}

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Debug().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Served request")
	}))

	if origin != nil {
		host := ""
		if config.Origin == "" {
			host = config.Host
		}
		proxy := httputil.NewSingleHostReverseProxy(origin)
		director := proxy.Director
		proxy.Director = mw.Director(func(req *http.Request) {
			director(req)
			if host != "" {
				req.Host = host
			} else {
				req.Host = origin.Host
			}
		})
		proxy.ModifyResponse = mw.ModifyResponse
		proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			hlog.FromRequest(r).Error().Err(err).Msg("Proxy error")
			w.WriteHeader(http.StatusBadGateway)
		}
		r.Handle("/*", proxy)
		logger.Info().Msgf("Proxying to %s (with hostname '%s')", origin.String(), host)
		return r, func() {}, nil
	}

	dbFilename := config.Database
	if dbFilename == "memory" {
		dbFilename = ""
	}
	store, err := docstore.Open(dbFilename)
	if err != nil {
		return nil, nil, err
	}
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Route("/docs", func(r chi.Router) {
		r.Use(mw.Handler)
		r.Mount("/", store.Routes())
	})
	logger.Info().Msgf("Serving documents from '%s'", config.Database)
	return r, func() { store.Close() }, nil
}
