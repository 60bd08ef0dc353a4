package types

// AnalyzeRequest is the body of the analyze endpoint
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}
