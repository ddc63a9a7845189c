// Package etag provides HTTP middleware that tags responses with an ETag computed
// from the response body and answers If-Match and If-None-Match requests with
// 304 (Not Modified) or 412 (Precondition Failed) according to RFC 7232.
//
// The wrapped handler always runs: the validator is derived from the body it
// produces, which is held in memory until the decision is made.
package etag

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	bypass "github.com/ilpanich/etag-middleware/pkg/bypass-rules"
	validator "github.com/ilpanich/etag-middleware/pkg/etag-validator"
)

// Mode selects the strength of the entity-tags the middleware generates.
// Entity-tags set by the handler itself keep their own strength.
type Mode int

const (
	// Strong generates strong entity-tags. This is the default.
	Strong Mode = iota
	// Weak generates weak entity-tags.
	Weak
)

func (m Mode) String() string {
	if m == Weak {
		return "weak"
	}
	return "strong"
}

// ParseMode parses "strong" or "weak" (case-insensitive). An empty string is Strong.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "strong":
		return Strong, nil
	case "weak":
		return Weak, nil
	}
	return Strong, errors.Errorf("unknown mode %q", s)
}

type Config struct {
	// Strength of generated entity-tags.
	Mode Mode
	// Hash algorithm for generated entity-tags. SHA-256 if empty.
	Algorithm validator.Algorithm
	// Logger to use. A console logger is used if nil.
	// A logger attached to the request context with hlog takes precedence.
	Logger *zerolog.Logger
	// Requests matching any of these rules are passed to the next handler untouched.
	Bypass bypass.Rules
}

// Middleware computes entity-tags and evaluates preconditions.
// It is immutable after New and safe for concurrent use.
type Middleware struct {
	mode     Mode
	computer *validator.Computer
	bypass   bypass.Rules
	log      zerolog.Logger
}

// New creates the middleware from the given configuration.
func New(config Config) (*Middleware, error) {
	computer, err := validator.New(config.Algorithm)
	if err != nil {
		return nil, err
	}

	// use console logger if not specified in config
	var logger zerolog.Logger
	if config.Logger == nil {
		logger = zerolog.New(zerolog.NewConsoleWriter())
	} else {
		logger = *config.Logger
	}

	// create a child logger and add defaults
	logger = logger.With().
		Str("component", "etag").
		Stringer("mode", config.Mode).
		Str("algorithm", string(computer.Algorithm())).
		Logger()

	return &Middleware{
		mode:     config.Mode,
		computer: computer,
		bypass:   config.Bypass,
		log:      logger,
	}, nil
}

// Mode returns the configured mode.
func (m *Middleware) Mode() Mode {
	return m.mode
}

// getLogger returns the logger from the request context.
// If no logger is found, it will return the middleware logger.
func (m *Middleware) getLogger(r *http.Request) *zerolog.Logger {
	if r == nil {
		return &m.log
	}
	logger := hlog.FromRequest(r)
	if logger.GetLevel() == zerolog.Disabled {
		return &m.log
	}
	return logger
}

func (m *Middleware) logDecision(r *http.Request, d Decision) {
	m.getLogger(r).Trace().
		Str("method", r.Method).
		Str("url", r.URL.String()).
		Str("etag", d.ETag.String()).
		Bool("generated", d.Generated).
		Stringer("outcome", d.Outcome).
		Msg("Evaluated preconditions")
}
