package enums

import "strings"

type PremiumStatus string

const (
	PremiumStatusNone     PremiumStatus = "none"
	PremiumStatusPending  PremiumStatus = "pending"
	PremiumStatusApproved PremiumStatus = "approved"
	PremiumStatusRejected PremiumStatus = "rejected"
)

// PremiumTransition names an allowed edge of the premium state machine.
type PremiumTransition string

const (
	TransitionRequest   PremiumTransition = "request"
	TransitionReRequest PremiumTransition = "re_request"
	TransitionApprove   PremiumTransition = "approve"
	TransitionReject    PremiumTransition = "reject"
)

type premiumEdge struct {
	from PremiumStatus
	to   PremiumStatus
}

// Approved is terminal. Rejected may only go back to pending through an explicit re-request.
var premiumTransitions = map[premiumEdge]PremiumTransition{
	{PremiumStatusNone, PremiumStatusPending}:     TransitionRequest,
	{PremiumStatusRejected, PremiumStatusPending}: TransitionReRequest,
	{PremiumStatusPending, PremiumStatusApproved}: TransitionApprove,
	{PremiumStatusPending, PremiumStatusRejected}: TransitionReject,
}

// PremiumTransitionFor reports the named transition from -> to, if the state machine allows it.
func PremiumTransitionFor(from, to PremiumStatus) (PremiumTransition, bool) {
	t, ok := premiumTransitions[premiumEdge{from: from.Normalize(), to: to.Normalize()}]
	return t, ok
}

// PremiumSources lists the states that may move to the given target.
func PremiumSources(to PremiumStatus) []PremiumStatus {
	sources := make([]PremiumStatus, 0, 2)
	for _, from := range []PremiumStatus{PremiumStatusNone, PremiumStatusPending, PremiumStatusApproved, PremiumStatusRejected} {
		if _, ok := premiumTransitions[premiumEdge{from: from, to: to}]; ok {
			sources = append(sources, from)
		}
	}
	return sources
}

// Normalize maps an empty or unknown stored value to none.
func (s PremiumStatus) Normalize() PremiumStatus {
	switch PremiumStatus(strings.ToLower(strings.TrimSpace(string(s)))) {
	case PremiumStatusPending:
		return PremiumStatusPending
	case PremiumStatusApproved:
		return PremiumStatusApproved
	case PremiumStatusRejected:
		return PremiumStatusRejected
	default:
		return PremiumStatusNone
	}
}
