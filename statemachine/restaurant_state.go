package statemachine

import (
	"errors"
	"strings"

	"armenu-api/models"
)

// Transition defines a valid status change and the action that names it
type Transition struct {
	From   models.RestaurantStatus `json:"from"`
	To     models.RestaurantStatus `json:"to"`
	Action string                  `json:"action"`
}

// validTransitions is the authoritative state machine definition.
// Both transitions require the manager to re-enter their credentials.
var validTransitions = []Transition{
	{From: models.StatusAvailable, To: models.StatusNotAvailable, Action: "suspend"},
	{From: models.StatusNotAvailable, To: models.StatusAvailable, Action: "activate"},
}

type transitionKey struct {
	From models.RestaurantStatus
	To   models.RestaurantStatus
}

var transitionMap = func() map[transitionKey]Transition {
	m := make(map[transitionKey]Transition)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To}] = t
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RestaurantStatus) []models.RestaurantStatus {
	var nexts []models.RestaurantStatus
	for _, t := range validTransitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// CanTransition checks whether a restaurant may move from one status to another
func CanTransition(from, to models.RestaurantStatus) error {
	if _, ok := transitionMap[transitionKey{From: from, To: to}]; ok {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " → " + string(to) +
			". Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

// Toggle returns the status a restaurant moves to from its current one
// (suspend when available, activate when suspended).
func Toggle(current models.RestaurantStatus) models.RestaurantStatus {
	if current == models.StatusNotAvailable {
		return models.StatusAvailable
	}
	return models.StatusNotAvailable
}

// ActionFor names the transition into the given status
func ActionFor(to models.RestaurantStatus) string {
	for _, t := range validTransitions {
		if t.To == to {
			return t.Action
		}
	}
	return ""
}

func describeValidFrom(status models.RestaurantStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (unknown state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
