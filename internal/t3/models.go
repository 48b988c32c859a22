package t3

// ModelInfo represents one selectable backend model and its capabilities.
// The roster is refreshed wholesale on each discovery call; there is no
// incremental update.
type ModelInfo struct {
	ID               string // Model identifier (e.g., "gemini-2.5-flash")
	Name             string // Display name
	Provider         string // Serving provider (e.g., "google", "openrouter")
	Developer        string // Model developer (e.g., "Google", "Anthropic")
	ShortDescription string
	FullDescription  string
	SupportsImages   bool // Model can generate images
	SupportsSearch   bool // Model supports web search grounding
	SupportsEffort   bool // Model accepts reasoning effort tiers
	RequiresPro      bool
	Premium          bool
}
