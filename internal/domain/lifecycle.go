package domain

import (
	"github.com/google/uuid"
)

// Action is an actor-initiated lifecycle operation on a donation.
type Action string

const (
	ActionPost            Action = "POST"
	ActionClaim           Action = "CLAIM"
	ActionAcceptMission   Action = "ACCEPT_MISSION"
	ActionConfirmPickup   Action = "CONFIRM_PICKUP"
	ActionConfirmDelivery Action = "CONFIRM_DELIVERY"
	ActionDelete          Action = "DELETE"
)

func (a Action) String() string { return string(a) }

// Transition is one edge of the donation state machine. From is empty for
// creation and To is empty for deletion.
type Transition struct {
	Action Action
	From   DonationStatus
	To     DonationStatus
	Actor  UserRole
}

var transitions = map[Action]Transition{
	ActionPost:            {ActionPost, "", DonationStatusAvailable, UserRoleDonor},
	ActionClaim:           {ActionClaim, DonationStatusAvailable, DonationStatusClaimed, UserRoleRecipient},
	ActionAcceptMission:   {ActionAcceptMission, DonationStatusClaimed, DonationStatusClaimed, UserRoleRescuer},
	ActionConfirmPickup:   {ActionConfirmPickup, DonationStatusClaimed, DonationStatusPickedUp, UserRoleRescuer},
	ActionConfirmDelivery: {ActionConfirmDelivery, DonationStatusPickedUp, DonationStatusDelivered, UserRoleRescuer},
	ActionDelete:          {ActionDelete, DonationStatusAvailable, "", UserRoleDonor},
}

// DonationActions lists the actions that apply to an existing donation, in
// lifecycle order.
var DonationActions = []Action{
	ActionClaim, ActionAcceptMission, ActionConfirmPickup, ActionConfirmDelivery, ActionDelete,
}

// TransitionFor returns the edge for action.
func TransitionFor(action Action) (Transition, bool) {
	t, ok := transitions[action]
	return t, ok
}

// Guard returns the conditional-write precondition for applying t as actor.
func (t Transition) Guard(actor uuid.UUID) DonationGuard {
	g := DonationGuard{Status: t.From}
	switch t.Action {
	case ActionAcceptMission:
		g.RescuerUnset = true
	case ActionConfirmPickup, ActionConfirmDelivery:
		g.RescuerID = &actor
	case ActionDelete:
		g.DonorID = &actor
	}
	return g
}

// Patch returns the partial update produced by applying t as actor.
func (t Transition) Patch(actor uuid.UUID, actorName string) DonationPatch {
	p := DonationPatch{}
	if t.To != "" && t.To != t.From {
		to := t.To
		p.Status = &to
	}
	switch t.Action {
	case ActionClaim:
		p.RecipientID = &actor
		p.RecipientName = &actorName
	case ActionAcceptMission:
		p.RescuerID = &actor
		p.RescuerName = &actorName
	}
	return p
}

// Permits checks whether actor (with role) may apply action to d in its
// current state. Authorization is checked before status, so an unrelated
// rescuer gets ErrNotAuthorized even after the donation has moved on.
func Permits(d *Donation, action Action, role UserRole, actor uuid.UUID) error {
	t, ok := transitions[action]
	if !ok || action == ActionPost {
		return ErrInvalidTransition
	}
	if role != t.Actor {
		return ErrNotAuthorized
	}

	switch action {
	case ActionClaim:
		if d.Status != DonationStatusAvailable {
			if d.Status.HasRecipient() {
				return ErrAlreadyClaimed
			}
			return ErrInvalidTransition
		}
	case ActionAcceptMission:
		if d.HasRescuer() {
			return ErrAlreadyClaimed
		}
		if d.Status != t.From {
			return ErrInvalidTransition
		}
	case ActionConfirmPickup, ActionConfirmDelivery:
		if d.HasRescuer() && !d.IsRescuedBy(actor) {
			return ErrNotAuthorized
		}
		if !d.HasRescuer() || d.Status != t.From {
			return ErrInvalidTransition
		}
	case ActionDelete:
		if !d.IsOwnedBy(actor) {
			return ErrNotAuthorized
		}
		if d.Status != t.From {
			return ErrInvalidTransition
		}
	}
	return nil
}

// AllowedActions returns the actions actor may currently apply to d.
func AllowedActions(d *Donation, role UserRole, actor uuid.UUID) []Action {
	var out []Action
	for _, a := range DonationActions {
		if Permits(d, a, role, actor) == nil {
			out = append(out, a)
		}
	}
	return out
}
