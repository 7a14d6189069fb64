package approval

import (
	"context"
	"log"
	"strings"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// RecipientResolver determines the best available identity to notify
// about a reservation's status change.  Priority: the email on the
// linked requester profile, then the display name stored on the
// reservation, then nothing.  It never returns an error; a failed
// profile lookup just degrades to the next tier.
type RecipientResolver struct {
	profiles ProfileStore
}

// NewRecipientResolver returns a resolver backed by the given profile store.
func NewRecipientResolver(profiles ProfileStore) *RecipientResolver {
	if profiles == nil {
		panic("nil profile store passed to NewRecipientResolver")
	}
	return &RecipientResolver{profiles: profiles}
}

// Resolve returns the recipient identity for a reservation, or the
// empty string when the requester cannot be reached at all.
func (r *RecipientResolver) Resolve(ctx context.Context, res *model.Reservation) string {
	if res.ProfileID != nil {
		email, err := r.profiles.EmailByID(ctx, *res.ProfileID)
		if err == nil && strings.TrimSpace(email) != "" {
			return strings.TrimSpace(email)
		}
		if err != nil {
			log.Printf("approval: reservation %d: profile %d lookup failed, falling back to requester name: %v", res.ID, *res.ProfileID, err)
		}
	}
	// A bare name is still useful in a notification log even if it
	// cannot be delivered to an inbox.
	return strings.TrimSpace(res.RequesterName)
}
