// Package models holds the responses returned to contact-flow functions.
// Their input is the aws-lambda-go ConnectEvent, whose Details.Parameters
// carries flat string parameters instead of a dialog event.
package models

// BalanceResponse is returned by the balance query. Error is set only on fault paths.
type BalanceResponse struct {
	Balance string `json:"balance,omitempty"`
	Found   string `json:"found"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// SummaryResponse carries the rendered agent summary.
type SummaryResponse struct {
	QicSummaryOut string `json:"qicSummaryOut"`
}
