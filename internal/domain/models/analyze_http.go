package models

// Requests for analysis HTTP endpoints. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Ticker string `query:"ticker" json:"ticker" validate:"required,min=1,max=10"`
	// Ephemeral asks the presentation layer to show the verdict only to the
	// requesting user. Request-scoped; there is no server-side preference map.
	Ephemeral bool `query:"ephemeral" json:"ephemeral" default:"false"`
}
