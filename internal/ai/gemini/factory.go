package gemini

import (
	"github.com/reviewreply/internal/ratelimit"
)

// Factory builds per-call-configured clients sharing one transport and
// rate limiter. The suggestion flow needs a JSON-constrained client while
// reply generation uses the plain-text default, so clients are cheap and
// created per configuration.
type Factory struct {
	apiKey    string
	model     string
	transport Transport
	limiter   *ratelimit.Limiter
}

// NewFactory creates a client factory.
func NewFactory(apiKey, model string, transport Transport, limiter *ratelimit.Limiter) *Factory {
	return &Factory{
		apiKey:    apiKey,
		model:     model,
		transport: transport,
		limiter:   limiter,
	}
}

// Create returns a client with the given generation config merged over the
// defaults. A nil cfg yields the plain-text client.
func (f *Factory) Create(cfg *GenerationConfig) *Client {
	return NewClient(f.apiKey, f.model, f.transport, f.limiter, cfg)
}
