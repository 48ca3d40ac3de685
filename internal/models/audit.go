package models

// TargetType is the kind of instrument an administrator action applies to
type TargetType string

const (
	TargetCard TargetType = "card"
)

// ReasonType categorizes why an administrator action was taken
type ReasonType string

const (
	ReasonCustomerRequest ReasonType = "customer_request"
	ReasonSuspicious      ReasonType = "suspicious_activity"
	ReasonJudicial        ReasonType = "judicial"
	ReasonCardLost        ReasonType = "card_lost"
	ReasonRecovered       ReasonType = "card_recovered"
	ReasonOther           ReasonType = "other"
)

// KnownReasonTypes lists the reason types offered to administrators
var KnownReasonTypes = []ReasonType{
	ReasonCustomerRequest,
	ReasonSuspicious,
	ReasonJudicial,
	ReasonCardLost,
	ReasonRecovered,
	ReasonOther,
}

// IsKnown reports whether r is one of KnownReasonTypes
func (r ReasonType) IsKnown() bool {
	for _, k := range KnownReasonTypes {
		if r == k {
			return true
		}
	}
	return false
}

// AuditableOperationRequest describes an administrator action the backend audits.
// Build it through lifecycle.NewAuditableRequest so only legal operations are constructed.
type AuditableOperationRequest struct {
	TargetType   TargetType `json:"targetType"`
	TargetID     string     `json:"targetId"`
	Operation    Operation  `json:"operation"`
	ReasonType   ReasonType `json:"reasonType"`
	ReasonDetail string     `json:"reasonDetail"`
}
