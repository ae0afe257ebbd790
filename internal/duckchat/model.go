package duckchat

// Model maps a short alias (what users type and configure) to the exact
// identifier the chat endpoint expects, plus a name for display. A session
// binds to one model at Start and keeps it for life.
type Model struct {
	Alias string
	ID    string
	Name  string
}

// catalog lists the models the endpoint serves, in menu order.
var catalog = []Model{
	{Alias: "gpt-4o-mini", ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
	{Alias: "claude-3-haiku", ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku"},
	{Alias: "llama", ID: "meta-llama/Meta-Llama-3.1-70B-Instruct-Turbo", Name: "Llama"},
	{Alias: "mixtral", ID: "mistralai/Mixtral-8x7B-Instruct-v0.1", Name: "Mixtral"},
}

// Models returns a copy of the catalog in menu order.
func Models() []Model {
	out := make([]Model, len(catalog))
	copy(out, catalog)
	return out
}

// ModelByAlias resolves a configured alias. The match is exact.
func ModelByAlias(alias string) (Model, bool) {
	for _, m := range catalog {
		if m.Alias == alias {
			return m, true
		}
	}
	return Model{}, false
}

// DefaultModel returns the model used when none is configured.
func DefaultModel() Model {
	return catalog[0]
}
