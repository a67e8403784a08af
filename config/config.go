package config

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/httpclient"
	"github.com/stkali/httpstack/log"
	"github.com/stkali/httpstack/stacktrace"
)

// Config holds everything needed to build a patched client.
type Config struct {
	Client     ClientConfig     `toml:"client" yaml:"client"`
	Stacktrace StacktraceConfig `toml:"stacktrace" yaml:"stacktrace"`
	Log        LogConfig        `toml:"log" yaml:"log"`
}

// ClientConfig holds the request defaults and transport settings.
type ClientConfig struct {
	BaseURL      string            `toml:"base_url" yaml:"base_url"`
	Timeout      Duration          `toml:"timeout" yaml:"timeout"`
	RetryMax     int               `toml:"retry_max" yaml:"retry_max"`
	RetryWaitMin Duration          `toml:"retry_wait_min" yaml:"retry_wait_min"`
	RetryWaitMax Duration          `toml:"retry_wait_max" yaml:"retry_wait_max"`
	Headers      map[string]string `toml:"headers" yaml:"headers"`
}

// StacktraceConfig mirrors the options of stacktrace.Apply.
type StacktraceConfig struct {
	ErrorMessage       string `toml:"error_message" yaml:"error_message"`
	ExposeTopmostError bool   `toml:"expose_topmost_error" yaml:"expose_topmost_error"`
	RetainTopmostError bool   `toml:"retain_topmost_error" yaml:"retain_topmost_error"`
	Strategy           string `toml:"strategy" yaml:"strategy"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Prefix string `toml:"prefix" yaml:"prefix"`
}

// Duration wraps time.Duration for text based formats.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string such as "1m30s".
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML accepts the same strings as UnmarshalText.
func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errors.Newf("line %d: duration must be a scalar", n.Line)
	}
	return d.UnmarshalText([]byte(n.Value))
}

// Format is the encoding of a configuration file.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for files that are neither TOML nor YAML.
const ErrUnsupportedFormat errors.Error = "unsupported config format"

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.Newf("%s: %q", ErrUnsupportedFormat, path)
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the configuration file at path. Environment variables in path and
// in string values are expanded.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Newf("failed to read config: %s", err)
	}
	return Parse(data, format)
}

// Parse decodes data in the given format.
func Parse(data []byte, format Format) (*Config, error) {
	cfg := &Config{}
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Newf("failed to parse config: %s", err)
		}
		for _, key := range md.Undecoded() {
			errors.Warningf("config: unknown key %q", key.String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// an empty document decodes to io.EOF
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Newf("failed to parse config: %s", err)
		}
	default:
		return nil, errors.Newf("%s: %q", ErrUnsupportedFormat, string(format))
	}
	cfg.expandEnvVars()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports values that cannot be turned into options.
func (c *Config) Validate() error {
	if _, err := stacktrace.ParseStrategy(c.Stacktrace.Strategy); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Client.RetryMax < 0 {
		return errors.Newf("retry_max must not be negative: %d", c.Client.RetryMax)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Client.Timeout.Duration == 0 {
		c.Client.Timeout.Duration = 30 * time.Second
	}
	if c.Client.RetryWaitMin.Duration == 0 {
		c.Client.RetryWaitMin.Duration = time.Second
	}
	if c.Client.RetryWaitMax.Duration == 0 {
		c.Client.RetryWaitMax.Duration = 30 * time.Second
	}
	if c.Stacktrace.ErrorMessage == "" {
		c.Stacktrace.ErrorMessage = stacktrace.DefaultErrorMessage
	}
	if c.Stacktrace.Strategy == "" {
		c.Stacktrace.Strategy = stacktrace.StrategyAuto.String()
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

func (c *Config) expandEnvVars() {
	c.Client.BaseURL = os.ExpandEnv(c.Client.BaseURL)
	for k, v := range c.Client.Headers {
		c.Client.Headers[k] = os.ExpandEnv(v)
	}
}

// Logger builds the logger described by c.Log writing to os.Stderr.
func (c *Config) Logger() log.Logger {
	return log.New(os.Stderr, c.Log.Prefix, log.ToLevelWithDefault(c.Log.Level, log.WARN))
}

// Defaults returns the request defaults of the client.
func (c *Config) Defaults() *httpclient.Config {
	d := &httpclient.Config{
		BaseURL: c.Client.BaseURL,
		Timeout: c.Client.Timeout.Duration,
	}
	if len(c.Client.Headers) > 0 {
		d.Headers = make(http.Header, len(c.Client.Headers))
		for k, v := range c.Client.Headers {
			d.Headers.Set(k, v)
		}
	}
	return d
}

// ClientOptions returns the httpclient options described by c.
func (c *Config) ClientOptions(logger log.Logger) []httpclient.Option {
	opts := []httpclient.Option{httpclient.WithLogger(logger)}
	if c.Client.RetryMax > 0 {
		opts = append(opts, httpclient.WithRetry(c.Client.RetryMax, c.Client.RetryWaitMin.Duration, c.Client.RetryWaitMax.Duration))
	}
	return opts
}

// NewClient builds a client from c.
func (c *Config) NewClient(logger log.Logger) *httpclient.Client {
	return httpclient.New(c.Defaults(), c.ClientOptions(logger)...)
}

// StacktraceOptions returns the stacktrace.Apply options described by c.
// An unknown strategy falls back to stacktrace.StrategyAuto with a warning.
func (c *Config) StacktraceOptions(logger log.Logger) []stacktrace.Option {
	opts := []stacktrace.Option{
		stacktrace.WithErrorMessage(c.Stacktrace.ErrorMessage),
		stacktrace.WithLogger(logger),
	}
	if c.Stacktrace.ExposeTopmostError {
		opts = append(opts, stacktrace.WithExposeTopmostErrorViaConfig())
	}
	if c.Stacktrace.RetainTopmostError {
		opts = append(opts, stacktrace.WithRetainTopmostError())
	}
	strategy, err := stacktrace.ParseStrategy(c.Stacktrace.Strategy)
	if err != nil {
		errors.Warningf("config: %s, using %s", err, stacktrace.StrategyAuto)
	}
	return append(opts, stacktrace.WithStrategy(strategy))
}
