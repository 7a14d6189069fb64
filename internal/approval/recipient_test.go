package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

func TestResolve_PrefersProfileEmail(t *testing.T) {
	profileID := uint64(10)
	resolver := NewRecipientResolver(&fakeProfiles{emails: map[uint64]string{10: " requester@example.edu "}})

	got := resolver.Resolve(context.Background(), &model.Reservation{
		ID:            1,
		ProfileID:     &profileID,
		RequesterName: "Dana Ionescu",
	})
	if got != "requester@example.edu" {
		t.Errorf("Expected trimmed profile email, got %q", got)
	}
}

func TestResolve_FallsBackToRequesterName(t *testing.T) {
	resolver := NewRecipientResolver(&fakeProfiles{emails: map[uint64]string{}})

	// No linked profile at all.
	got := resolver.Resolve(context.Background(), &model.Reservation{
		ID:            1,
		RequesterName: "  Dana Ionescu  ",
	})
	if got != "Dana Ionescu" {
		t.Errorf("Expected trimmed requester name, got %q", got)
	}

	// Linked profile whose lookup fails degrades the same way.
	profileID := uint64(10)
	resolver = NewRecipientResolver(&fakeProfiles{err: errors.New("db down")})
	got = resolver.Resolve(context.Background(), &model.Reservation{
		ID:            2,
		ProfileID:     &profileID,
		RequesterName: "Dana Ionescu",
	})
	if got != "Dana Ionescu" {
		t.Errorf("Expected fallback past failed lookup, got %q", got)
	}
}

func TestResolve_EmptyWhenUnreachable(t *testing.T) {
	resolver := NewRecipientResolver(&fakeProfiles{emails: map[uint64]string{}})

	got := resolver.Resolve(context.Background(), &model.Reservation{ID: 1, RequesterName: "   "})
	if got != "" {
		t.Errorf("Expected empty recipient, got %q", got)
	}
}

func TestResolve_BlankProfileEmailFallsThrough(t *testing.T) {
	profileID := uint64(10)
	resolver := NewRecipientResolver(&fakeProfiles{emails: map[uint64]string{10: "  "}})

	got := resolver.Resolve(context.Background(), &model.Reservation{
		ID:            1,
		ProfileID:     &profileID,
		RequesterName: "Dana Ionescu",
	})
	if got != "Dana Ionescu" {
		t.Errorf("Expected fallback past blank email, got %q", got)
	}
}
