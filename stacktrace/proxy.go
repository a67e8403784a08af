package stacktrace

import (
	"github.com/stkali/httpstack/errors"
	"github.com/stkali/httpstack/httpclient"
)

// proxy builds the replacement handlers for one patched client.
type proxy struct {
	label string
	// annotate attaches the topmost error to the forwarded config.
	annotate bool
	// chain attaches the augmenter to every returned Future.
	chain bool
	aug   augmenter
}

// wrap returns a handler of the same shape as h which captures a topmost
// error before forwarding to h. It returns nil for unknown handler types.
func (p *proxy) wrap(h httpclient.Handler) httpclient.Handler {
	switch original := h.(type) {
	case *httpclient.ConfigHandler:
		return &httpclient.ConfigHandler{Do: func(cfg *httpclient.Config) *httpclient.Future {
			topmost := captureTopmost(p.label)
			return p.complete(original.Do(p.forward(cfg, topmost)), topmost)
		}}
	case *httpclient.URLHandler:
		return &httpclient.URLHandler{Do: func(url string, cfg *httpclient.Config) *httpclient.Future {
			topmost := captureTopmost(p.label)
			return p.complete(original.Do(url, p.forward(cfg, topmost)), topmost)
		}}
	case *httpclient.DataHandler:
		return &httpclient.DataHandler{Do: func(url string, data any, cfg *httpclient.Config) *httpclient.Future {
			topmost := captureTopmost(p.label)
			return p.complete(original.Do(url, data, p.forward(cfg, topmost)), topmost)
		}}
	default:
		return nil
	}
}

// forward returns the config handed to the original handler. The caller's
// config is never modified.
func (p *proxy) forward(cfg *httpclient.Config, topmost errors.StackError) *httpclient.Config {
	if !p.annotate {
		return cfg
	}
	out := cfg.Clone()
	out.TopmostError = topmost
	return out
}

func (p *proxy) complete(f *httpclient.Future, topmost errors.StackError) *httpclient.Future {
	if !p.chain || f == nil {
		return f
	}
	return f.Then(p.aug.fulfilled, p.aug.rejectedWith(topmost))
}
