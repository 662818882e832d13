package models

// Requests for the read-only results endpoints. Defined in domain for
// consistency and reuse.

type SentimentRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type IndicatorsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=5000"`
}

type CorrelationsRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type ReportRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}
