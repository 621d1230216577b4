package entities

import "fmt"

// Outcome is the result of a ticket decision. The values are written to the ledger as-is.
type Outcome string

const (
	// OutcomePending is the status of a ticket that has not been decided.
	OutcomePending Outcome = "PENDING"

	// OutcomeApproved is the status of an approved ticket.
	OutcomeApproved Outcome = "APPROVED"

	// OutcomeRejected is the status of a rejected ticket.
	OutcomeRejected Outcome = "REJECTED"
)

// IsDecision reports whether the outcome is a final decision.
func (o Outcome) IsDecision() bool {
	return o == OutcomeApproved || o == OutcomeRejected
}

// Tally is the final count of a closed vote, excluding the bot's own reactions.
type Tally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

func (t Tally) String() string {
	return fmt.Sprintf("Yes: %d | No: %d", t.Yes, t.No)
}
