package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func donationIn(status DonationStatus, donor uuid.UUID, recipient, rescuer *uuid.UUID) *Donation {
	return &Donation{
		ID:          uuid.New(),
		DonorID:     donor,
		RecipientID: recipient,
		RescuerID:   rescuer,
		Status:      status,
		Items:       []FoodItem{{ID: uuid.New(), Title: "Rice Surplus", Quantity: "5kg"}},
	}
}

func TestPermits(t *testing.T) {
	t.Parallel()

	donor := uuid.New()
	recipient := uuid.New()
	rescuerX := uuid.New()
	rescuerY := uuid.New()

	tests := []struct {
		name   string
		d      *Donation
		action Action
		role   UserRole
		actor  uuid.UUID
		want   error
	}{
		{"claim available", donationIn(DonationStatusAvailable, donor, nil, nil), ActionClaim, UserRoleRecipient, recipient, nil},
		{"claim claimed", donationIn(DonationStatusClaimed, donor, &recipient, nil), ActionClaim, UserRoleRecipient, uuid.New(), ErrAlreadyClaimed},
		{"claim as donor", donationIn(DonationStatusAvailable, donor, nil, nil), ActionClaim, UserRoleDonor, donor, ErrNotAuthorized},
		{"accept open mission", donationIn(DonationStatusClaimed, donor, &recipient, nil), ActionAcceptMission, UserRoleRescuer, rescuerX, nil},
		{"accept bound mission", donationIn(DonationStatusClaimed, donor, &recipient, &rescuerX), ActionAcceptMission, UserRoleRescuer, rescuerY, ErrAlreadyClaimed},
		{"accept unclaimed", donationIn(DonationStatusAvailable, donor, nil, nil), ActionAcceptMission, UserRoleRescuer, rescuerX, ErrInvalidTransition},
		{"accept as recipient", donationIn(DonationStatusClaimed, donor, &recipient, nil), ActionAcceptMission, UserRoleRecipient, recipient, ErrNotAuthorized},
		{"pickup by bound rescuer", donationIn(DonationStatusClaimed, donor, &recipient, &rescuerX), ActionConfirmPickup, UserRoleRescuer, rescuerX, nil},
		{"pickup by other rescuer", donationIn(DonationStatusClaimed, donor, &recipient, &rescuerX), ActionConfirmPickup, UserRoleRescuer, rescuerY, ErrNotAuthorized},
		{"pickup by other rescuer after delivery", donationIn(DonationStatusDelivered, donor, &recipient, &rescuerX), ActionConfirmPickup, UserRoleRescuer, rescuerY, ErrNotAuthorized},
		{"pickup without rescuer", donationIn(DonationStatusClaimed, donor, &recipient, nil), ActionConfirmPickup, UserRoleRescuer, rescuerX, ErrInvalidTransition},
		{"pickup twice", donationIn(DonationStatusPickedUp, donor, &recipient, &rescuerX), ActionConfirmPickup, UserRoleRescuer, rescuerX, ErrInvalidTransition},
		{"deliver before pickup", donationIn(DonationStatusClaimed, donor, &recipient, &rescuerX), ActionConfirmDelivery, UserRoleRescuer, rescuerX, ErrInvalidTransition},
		{"deliver after pickup", donationIn(DonationStatusPickedUp, donor, &recipient, &rescuerX), ActionConfirmDelivery, UserRoleRescuer, rescuerX, nil},
		{"delete own available", donationIn(DonationStatusAvailable, donor, nil, nil), ActionDelete, UserRoleDonor, donor, nil},
		{"delete own claimed", donationIn(DonationStatusClaimed, donor, &recipient, nil), ActionDelete, UserRoleDonor, donor, ErrInvalidTransition},
		{"delete other donor", donationIn(DonationStatusAvailable, donor, nil, nil), ActionDelete, UserRoleDonor, uuid.New(), ErrNotAuthorized},
		{"post is not applicable", donationIn(DonationStatusAvailable, donor, nil, nil), ActionPost, UserRoleDonor, donor, ErrInvalidTransition},
		{"pending user", donationIn(DonationStatusAvailable, donor, nil, nil), ActionClaim, UserRolePending, recipient, ErrNotAuthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Permits(tt.d, tt.action, tt.role, tt.actor)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Permits() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Permits() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTransition_GuardAndPatchFollowTable(t *testing.T) {
	t.Parallel()

	actor := uuid.New()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, action := range []Action{ActionClaim, ActionAcceptMission, ActionConfirmPickup, ActionConfirmDelivery} {
		tr, ok := TransitionFor(action)
		if !ok {
			t.Fatalf("no transition for %s", action)
		}

		var recipient, rescuer *uuid.UUID
		if tr.From.HasRecipient() {
			r := uuid.New()
			recipient = &r
		}
		if action == ActionConfirmPickup || action == ActionConfirmDelivery {
			rescuer = &actor
		}
		d := donationIn(tr.From, uuid.New(), recipient, rescuer)

		if !tr.Guard(actor).Holds(d) {
			t.Errorf("%s: guard should hold on a donation in %s", action, tr.From)
		}
		tr.Patch(actor, "Actor").Apply(d, now)
		if d.Status != tr.To {
			t.Errorf("%s: status = %s, want %s", action, d.Status, tr.To)
		}
		if d.Status.Rank() < tr.From.Rank() {
			t.Errorf("%s: status regressed from %s to %s", action, tr.From, d.Status)
		}
		if !d.UpdatedAt.Equal(now) {
			t.Errorf("%s: UpdatedAt not stamped", action)
		}
		if tr.Guard(actor).Holds(d) && tr.From != tr.To {
			t.Errorf("%s: guard should not hold after the transition", action)
		}
	}
}

func TestTransition_AcceptMissionBindsRescuerOnce(t *testing.T) {
	t.Parallel()

	tr, _ := TransitionFor(ActionAcceptMission)
	recipient := uuid.New()
	x := uuid.New()
	d := donationIn(DonationStatusClaimed, uuid.New(), &recipient, nil)

	tr.Patch(x, "X").Apply(d, time.Now())
	if !d.IsRescuedBy(x) {
		t.Fatal("rescuer X should be bound")
	}
	if d.Status != DonationStatusClaimed {
		t.Fatalf("status = %s, want CLAIMED", d.Status)
	}
	if tr.Guard(uuid.New()).Holds(d) {
		t.Fatal("a second accept should fail the guard")
	}
}

func TestAllowedActions(t *testing.T) {
	t.Parallel()

	donor := uuid.New()
	d := donationIn(DonationStatusAvailable, donor, nil, nil)

	got := AllowedActions(d, UserRoleDonor, donor)
	if len(got) != 1 || got[0] != ActionDelete {
		t.Errorf("donor actions = %v, want [DELETE]", got)
	}
	got = AllowedActions(d, UserRoleRecipient, uuid.New())
	if len(got) != 1 || got[0] != ActionClaim {
		t.Errorf("recipient actions = %v, want [CLAIM]", got)
	}
	if got := AllowedActions(d, UserRoleAdmin, uuid.New()); len(got) != 0 {
		t.Errorf("admin actions = %v, want none", got)
	}
}

func TestDonation_CloneIsDeep(t *testing.T) {
	t.Parallel()

	score := 80
	d := donationIn(DonationStatusAvailable, uuid.New(), nil, nil)
	d.Items[0].SafetyScore = &score
	d.Items[0].Tags = []string{"Hot"}

	c := d.Clone()
	*c.Items[0].SafetyScore = 10
	c.Items[0].Tags[0] = "Cold"

	if *d.Items[0].SafetyScore != 80 || d.Items[0].Tags[0] != "Hot" {
		t.Error("clone shares item memory with the original")
	}
}
