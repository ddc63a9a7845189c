package main

import (
	"net/url"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	bypass "github.com/ilpanich/etag-middleware/pkg/bypass-rules"
)

type Config struct {
	Listen        string       `yaml:"listen"`
	Origin        string       `yaml:"origin"`
	Addr          string       `yaml:"addr"`
	Host          string       `yaml:"host"`
	Database      string       `yaml:"database"`
	MetricsListen string       `yaml:"metricsListen"`
	Mode          string       `yaml:"mode"`
	Algorithm     string       `yaml:"algorithm"`
	LogFile       string       `yaml:"logFile"`
	Trace         bool         `yaml:"trace"`
	Bypass        bypass.Rules `yaml:"bypass"`
}

func defaultConfig() Config {
	return Config{
		Listen:   ":8080",
		Database: "etag.db",
		Mode:     "strong",
	}
}

func getConfig(filename string) (Config, error) {
	config := defaultConfig()
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "read %s", filename)
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, errors.Wrapf(err, "parse %s", filename)
}

// parseFlags reads the config file given with --config, if any,
// and applies the flags explicitly set on the command line on top of it.
func parseFlags(args []string) (Config, error) {
	var configFile string
	flagConfig := defaultConfig()

	flagSet := pflag.NewFlagSet("etag-server", pflag.ContinueOnError)
	flagSet.StringVar(&configFile, "config", "", "YAML config file")
	flagSet.StringVar(&flagConfig.Listen, "listen", flagConfig.Listen, "Address to listen on")
	flagSet.StringVar(&flagConfig.Origin, "origin", "", "Origin URL to proxy to (overrides addr and host)")
	flagSet.StringVar(&flagConfig.Addr, "addr", "", "Origin IP address to proxy to")
	flagSet.StringVar(&flagConfig.Host, "host", "", "Hostname of origin")
	flagSet.StringVar(&flagConfig.Database, "db", flagConfig.Database, "Document DB file name when not proxying (use 'memory' for in-memory db)")
	flagSet.StringVar(&flagConfig.MetricsListen, "metrics-listen", "", "Address to serve Prometheus metrics on")
	flagSet.StringVar(&flagConfig.Mode, "mode", flagConfig.Mode, "Entity-tag strength: strong or weak")
	flagSet.StringVar(&flagConfig.Algorithm, "algorithm", "", "Hash algorithm: sha256, blake3, xxhash or crc32")
	flagSet.StringVar(&flagConfig.LogFile, "log-file", "", "Log file to use (in addition to stdout)")
	flagSet.BoolVar(&flagConfig.Trace, "vv", false, "Verbosity: trace logging")

	if err := flagSet.Parse(args); err != nil {
		return flagConfig, err
	}
	if flagSet.NArg() > 0 {
		return flagConfig, errors.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if configFile == "" {
		return flagConfig, nil
	}

	config, err := getConfig(configFile)
	if err != nil {
		return config, err
	}
	flagSet.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "listen":
			config.Listen = flagConfig.Listen
		case "origin":
			config.Origin = flagConfig.Origin
		case "addr":
			config.Addr = flagConfig.Addr
		case "host":
			config.Host = flagConfig.Host
		case "db":
			config.Database = flagConfig.Database
		case "metrics-listen":
			config.MetricsListen = flagConfig.MetricsListen
		case "mode":
			config.Mode = flagConfig.Mode
		case "algorithm":
			config.Algorithm = flagConfig.Algorithm
		case "log-file":
			config.LogFile = flagConfig.LogFile
		case "vv":
			config.Trace = flagConfig.Trace
		}
	})
	return config, nil
}

// originURL returns the URL to proxy to, or nil if the server should serve
// the document store itself.
func (c Config) originURL() (*url.URL, error) {
	raw := c.Origin
	if raw == "" && c.Addr != "" {
		raw = "https://" + c.Addr
	}
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse origin url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("origin %q is not an absolute url", raw)
	}
	return u, nil
}
