package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

const (
	MailTypeAllocationSucceeded = "allocation_succeeded"
	MailTypeAllocationFailed    = "allocation_failed"
)

type AllocationSucceededMailData struct {
	RunID         string  `json:"runID"`
	TermName      string  `json:"termName"`
	OfferingCount int     `json:"offeringCount"`
	MatchedCount  int     `json:"matchedCount"`
	BestFitness   float64 `json:"bestFitness"`
}

type AllocationFailedMailData struct {
	RunID    string `json:"runID"`
	TermName string `json:"termName"`
	Reason   string `json:"reason"`
}
