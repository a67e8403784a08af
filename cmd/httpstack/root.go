package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stkali/httpstack/config"
	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/httpclient"
	"github.com/stkali/httpstack/log"
	"github.com/stkali/httpstack/stacktrace"
)

type options struct {
	configFile string
	baseURL    string
	method     string
	data       string
	label      string
	strategy   string
	expose     bool
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "httpstack [flags] URL",
		Short: "Issue one request through a client patched with call-site stack traces",
		Long: `httpstack sends a single request through an asynchronous HTTP client whose
request methods have been patched to capture the caller's stack. When the
request fails, the printed stack holds the client's frames followed by the
frames of the call site.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o, args[0])
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&o.configFile, "config", "c", "", "config file (.toml, .yaml or .yml)")
	flags.StringVar(&o.baseURL, "base-url", "", "base URL prepended to relative URLs")
	flags.StringVarP(&o.method, "method", "X", string(httpclient.MethodGet), "client method: request, get, delete, head, options, post, put or patch")
	flags.StringVarP(&o.data, "data", "d", "", "request body for post, put and patch")
	flags.StringVar(&o.label, "label", "", "message of the appended call-site error")
	flags.StringVar(&o.strategy, "strategy", "", "propagation strategy: auto, direct or interceptor")
	flags.BoolVar(&o.expose, "expose", false, "expose the call-site error to interceptors via the request config")
	flags.DurationVar(&o.timeout, "timeout", 0, "request timeout")
	return cmd
}

func loadConfig(cmd *cobra.Command, o *options) (*config.Config, error) {
	cfg := config.Default()
	if o.configFile != "" {
		var err error
		if cfg, err = config.Load(o.configFile); err != nil {
			return nil, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.Client.BaseURL = o.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Client.Timeout.Duration = o.timeout
	}
	if flags.Changed("label") {
		cfg.Stacktrace.ErrorMessage = o.label
	}
	if flags.Changed("strategy") {
		cfg.Stacktrace.Strategy = o.strategy
	}
	if flags.Changed("expose") {
		cfg.Stacktrace.ExposeTopmostError = o.expose
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, o *options, url string) error {
	method := httpclient.Method(strings.ToLower(o.method))
	if method.Shape() == httpclient.ShapeInvalid {
		return errors.Newf("%s: %q", httpclient.ErrUnknownMethod, o.method)
	}
	cfg, err := loadConfig(cmd, o)
	if err != nil {
		return err
	}

	logger := cfg.Logger()
	log.SetLogger(logger)
	client := cfg.NewClient(logger)
	if restore := stacktrace.Apply(client, cfg.StacktraceOptions(logger)...); restore != nil {
		defer restore()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := send(client, method, url, o.data).Await(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%d %s [%s]\n", resp.Status, resp.StatusText, resp.RequestID)
	if len(resp.Data) > 0 {
		_, _ = fmt.Fprintln(out, string(resp.Data))
	}
	return nil
}

// send issues the call through the client's public methods so the patched
// handlers see this function as the call site.
func send(c *httpclient.Client, m httpclient.Method, url, data string) *httpclient.Future {
	var body any
	if data != "" {
		body = data
	}
	switch m {
	case httpclient.MethodRequest:
		return c.Request(&httpclient.Config{URL: url, Data: body})
	case httpclient.MethodGet:
		return c.Get(url, nil)
	case httpclient.MethodDelete:
		return c.Delete(url, nil)
	case httpclient.MethodHead:
		return c.Head(url, nil)
	case httpclient.MethodOptions:
		return c.Options(url, nil)
	case httpclient.MethodPost:
		return c.Post(url, body, nil)
	case httpclient.MethodPut:
		return c.Put(url, body, nil)
	case httpclient.MethodPatch:
		return c.Patch(url, body, nil)
	}
	return httpclient.Reject(errors.Newf("%s: %q", httpclient.ErrUnknownMethod, string(m)))
}
