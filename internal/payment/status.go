package payment

import (
	"strings"

	"github.com/samber/lo"
)

// Outcome is the classified result of a provider status
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomePending    Outcome = "pending"
	OutcomeFailed     Outcome = "failed"
	OutcomeUnresolved Outcome = "unresolved"
)

var (
	successStatuses = []string{"COMPLETE", "PAYMENT_RECEIVED"}
	pendingStatuses = []string{"PENDING", "PAYMENT_AUTHORIZED", "PURCHASE_PENDING", "PENDING_APPROVAL"}
	failedStatuses  = []string{"CANCELED", "REVERSED", "REFUND", "INVALID", "SUSPECT", "FRAUD"}
)

// Classify maps a provider status to an outcome. Unknown statuses are
// unresolved, never success.
func Classify(status string) Outcome {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch {
	case lo.Contains(successStatuses, s):
		return OutcomeSuccess
	case lo.Contains(pendingStatuses, s):
		return OutcomePending
	case lo.Contains(failedStatuses, s):
		return OutcomeFailed
	default:
		return OutcomeUnresolved
	}
}
