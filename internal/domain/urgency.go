package domain

import "strings"

// Urgency is the discount urgency tier.
type Urgency string

const (
	UrgencyNone   Urgency = "none"
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Confidence qualifies how much to trust an order recommendation.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// OrderPriority drives how aggressively a reorder should be placed.
type OrderPriority string

const (
	PriorityLow    OrderPriority = "LOW"
	PriorityMedium OrderPriority = "MEDIUM"
	PriorityHigh   OrderPriority = "HIGH"
	PriorityUrgent OrderPriority = "URGENT"
)

var urgencies = map[string]Urgency{
	"none":   UrgencyNone,
	"low":    UrgencyLow,
	"medium": UrgencyMedium,
	"high":   UrgencyHigh,
}

// ParseUrgency returns the urgency for a label (case-insensitive).
func ParseUrgency(label string) (Urgency, bool) {
	u, ok := urgencies[strings.ToLower(strings.TrimSpace(label))]

	return u, ok
}

var urgencyRank = map[Urgency]int{
	UrgencyNone:   0,
	UrgencyLow:    1,
	UrgencyMedium: 2,
	UrgencyHigh:   3,
}

// MoreUrgent reports whether a outranks b.
func MoreUrgent(a, b Urgency) bool {
	return urgencyRank[a] > urgencyRank[b]
}
