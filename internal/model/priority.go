package model

import "strings"

// Priority is the coarse class a requester belongs to.  It only decides
// the order in which pending requests reach the seat pool.
type Priority string

const (
	PriorityVIP     Priority = "VIP"
	PriorityRegular Priority = "REGULAR"
)

// ParsePriority maps free-form input onto a priority class.  Anything
// that is not recognisably VIP is treated as REGULAR.
func ParsePriority(s string) Priority {
	if strings.EqualFold(strings.TrimSpace(s), string(PriorityVIP)) {
		return PriorityVIP
	}
	return PriorityRegular
}

// Rank orders classes: higher ranks are drained first.
func (p Priority) Rank() int {
	if p == PriorityVIP {
		return 1
	}
	return 0
}

// Label is the human-readable class name used in outcome messages.
func (p Priority) Label() string {
	if p == PriorityVIP {
		return "VIP"
	}
	return "Regular"
}
