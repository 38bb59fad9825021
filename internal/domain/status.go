package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies which marketplace entity a record describes.
type Kind string

const (
	KindTrip    Kind = "trip"
	KindBooking Kind = "booking"
	KindEarning Kind = "earning"
)

// Kinds lists every record kind in display order.
var Kinds = []Kind{KindTrip, KindBooking, KindEarning}

// Status is a record lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
	StatusAccepted  Status = "accepted"
	StatusAssigned  Status = "assigned"
	StatusInTransit Status = "in-transit"
	StatusDelivered Status = "delivered"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"

	// StatusAll is the filter sentinel that matches every status.
	StatusAll Status = "all"
)

// kindStatuses is the closed status set of each kind.
var kindStatuses = map[Kind][]Status{
	KindTrip: {
		StatusPending, StatusAccepted, StatusAssigned, StatusInTransit,
		StatusDelivered, StatusCompleted, StatusCancelled,
	},
	KindBooking: {
		StatusBooked, StatusConfirmed, StatusAssigned, StatusInTransit,
		StatusCompleted, StatusCancelled,
	},
	KindEarning: {
		StatusPending, StatusCompleted, StatusCancelled,
	},
}

// Statuses returns the statuses a record of this kind may hold.
func (k Kind) Statuses() []Status {
	out := make([]Status, len(kindStatuses[k]))
	copy(out, kindStatuses[k])
	return out
}

// Allows reports whether s belongs to the kind's status set.
func (k Kind) Allows(s Status) bool {
	for _, candidate := range kindStatuses[k] {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	_, ok := kindStatuses[k]
	return ok
}

// Label returns the plural display name of the kind.
func (k Kind) Label() string {
	switch k {
	case KindTrip:
		return "Trips"
	case KindBooking:
		return "Bookings"
	case KindEarning:
		return "Earnings"
	default:
		return string(k)
	}
}

// IsValid reports whether s is a status of at least one kind.
func (s Status) IsValid() bool {
	for _, k := range Kinds {
		if k.Allows(s) {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no action can move a record out of s.
func (s Status) IsTerminal() bool {
	for _, rule := range transitions {
		if rule.allows(s) {
			return false
		}
	}
	return true
}

// Action is a user-requested status change.
type Action string

const (
	ActionAccept   Action = "accept"
	ActionConfirm  Action = "confirm"
	ActionAssign   Action = "assign"
	ActionStart    Action = "start"
	ActionDeliver  Action = "deliver"
	ActionComplete Action = "complete"
	ActionCancel   Action = "cancel"
)

// Actions lists every action in lifecycle order.
var Actions = []Action{
	ActionAccept, ActionConfirm, ActionAssign, ActionStart,
	ActionDeliver, ActionComplete, ActionCancel,
}

type transitionRule struct {
	from []Status
	to   Status
}

func (r transitionRule) allows(s Status) bool {
	for _, f := range r.from {
		if f == s {
			return true
		}
	}
	return false
}

// transitions maps each action to the statuses it may be applied from and
// the status it produces.
var transitions = map[Action]transitionRule{
	ActionAccept:   {from: []Status{StatusPending}, to: StatusAccepted},
	ActionConfirm:  {from: []Status{StatusBooked}, to: StatusConfirmed},
	ActionAssign:   {from: []Status{StatusAccepted, StatusConfirmed}, to: StatusAssigned},
	ActionStart:    {from: []Status{StatusAccepted, StatusAssigned}, to: StatusInTransit},
	ActionDeliver:  {from: []Status{StatusInTransit}, to: StatusDelivered},
	ActionComplete: {from: []Status{StatusInTransit, StatusDelivered}, to: StatusCompleted},
	ActionCancel: {
		from: []Status{StatusBooked, StatusConfirmed, StatusPending, StatusAccepted, StatusAssigned},
		to:   StatusCancelled,
	},
}

// IsValid reports whether a is a known action.
func (a Action) IsValid() bool {
	_, ok := transitions[a]
	return ok
}

// Target returns the status the action produces.
func (a Action) Target() (Status, bool) {
	rule, ok := transitions[a]
	return rule.to, ok
}

// AllowedFrom returns the source statuses of the action.
func (a Action) AllowedFrom() []Status {
	rule := transitions[a]
	out := make([]Status, len(rule.from))
	copy(out, rule.from)
	return out
}

// CanApply reports whether the action may move a record of kind k out of
// status s. The target status must also belong to the kind.
func (a Action) CanApply(k Kind, s Status) bool {
	rule, ok := transitions[a]
	if !ok {
		return false
	}
	return rule.allows(s) && k.Allows(rule.to)
}

// AvailableActions returns the actions applicable to a record, sorted by
// lifecycle order.
func AvailableActions(k Kind, s Status) []Action {
	var out []Action
	for _, a := range Actions {
		if a.CanApply(k, s) {
			out = append(out, a)
		}
	}
	return out
}

// ParseKind parses a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown kind %q (want one of %s)", s, joinKinds())
	}
	return k, nil
}

// ParseStatus parses a status name. "all" and the empty string yield StatusAll.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if st == "" || st == StatusAll {
		return StatusAll, nil
	}
	if !st.IsValid() {
		return "", fmt.Errorf("unknown status %q", s)
	}
	return st, nil
}

// ParseAction parses an action name.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if !a.IsValid() {
		return "", fmt.Errorf("unknown action %q", s)
	}
	return a, nil
}

func joinKinds() string {
	names := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
