// Package bypass selects requests that should not be buffered and tagged,
// e.g. server-sent events or large downloads.
package bypass

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type Rules []Rule

// Rule matches requests on any combination of its fields.
// All non-empty fields have to match. A rule without any fields matches nothing.
type Rule struct {
	Prefix string            `yaml:"prefix"`
	Path   string            `yaml:"path"`
	Method string            `yaml:"method"`
	Query  map[string]string `yaml:"query"`
}

// Match reports whether any rule matches the request.
func (r Rules) Match(req *http.Request) bool {
	return r.find(req) != nil
}

func (r Rules) find(req *http.Request) *Rule {
rulesLoop:
	for _, rule := range r {
		if rule.empty() {
			log.Warn().Msg("Ignoring bypass rule without criteria")
			continue
		}
		if rule.Method != "" && !strings.EqualFold(rule.Method, req.Method) {
			continue
		}
		if rule.Path != "" && rule.Path != req.URL.Path {
			continue
		}
		if rule.Prefix != "" && !strings.HasPrefix(req.URL.Path, rule.Prefix) {
			continue
		}
		if len(rule.Query) > 0 {
			qry := req.URL.Query()
			for name, value := range rule.Query {
				if value == "" && !qry.Has(name) {
					continue rulesLoop
				} else if value != "" && qry.Get(name) != value {
					continue rulesLoop
				}
			}
		}
		log.Trace().Msgf("Bypass rule %+v matches %s %s", rule, req.Method, req.URL.Path)
		return &rule
	}
	return nil
}

func (rule Rule) empty() bool {
	return rule.Prefix == "" && rule.Path == "" && rule.Method == "" && len(rule.Query) == 0
}
