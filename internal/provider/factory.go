package provider

import "golang.org/x/time/rate"

// OpenAIFactory creates OpenAI-compatible providers sharing one rate limiter.
type OpenAIFactory struct {
	name     string
	endpoint string
	apiKey   string
	limiter  *rate.Limiter
}

// NewOpenAIFactory creates a factory. A non-positive rateLimit disables pacing.
func NewOpenAIFactory(name, endpoint, apiKey string, rateLimit float64, rateBurst int) *OpenAIFactory {
	var limiter *rate.Limiter
	if rateLimit > 0 {
		if rateBurst < 1 {
			rateBurst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateBurst)
	}
	return &OpenAIFactory{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		limiter:  limiter,
	}
}

func (f *OpenAIFactory) Name() string { return f.name }

func (f *OpenAIFactory) Create(model string, temperature float64) Provider {
	return NewOpenAI(f.name, f.endpoint, model, f.apiKey, temperature, f.limiter)
}
