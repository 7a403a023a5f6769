package domain

// Suggestion is one actionable recommendation produced by the
// suggestion rules.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
