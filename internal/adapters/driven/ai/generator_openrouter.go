package ai

// NewOpenRouterGenerator builds an OpenAI-compatible generator against
// OpenRouter, which additionally expects attribution headers on every
// request (§4.I backend variant).
func NewOpenRouterGenerator(apiKey, model, referer, title string) *OpenAIGenerator {
	headers := map[string]string{}
	if referer != "" {
		headers["HTTP-Referer"] = referer
	}
	if title != "" {
		headers["X-Title"] = title
	}
	return newOpenAICompatible("https://openrouter.ai/api/v1", apiKey, model, headers)
}
