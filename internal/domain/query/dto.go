package query

// StartRequest begins a lookup for the authenticated officer.
type StartRequest struct {
	Type      string `json:"type" validate:"required,query_type"`
	Category  string `json:"category" validate:"omitempty,max=64"`
	InputData string `json:"input_data" validate:"required,min=2,max=500"`
	Source    string `json:"source" validate:"omitempty,max=64"`
}

// CompleteRequest moves a Processing query to a terminal state.
type CompleteRequest struct {
	Status         string `json:"status" validate:"required,oneof=Success Failed"`
	ResultSummary  string `json:"result_summary" validate:"omitempty,max=2000"`
	ResponseTimeMs int    `json:"response_time_ms" validate:"omitempty,min=0"`
}
