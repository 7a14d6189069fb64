package notify

import (
	"testing"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

func TestMessage_Templates(t *testing.T) {
	got := Message(model.KindRoom, model.StatusApproved, "")
	if got != "Your room reservation was approved." {
		t.Errorf("Unexpected approved message: %q", got)
	}

	got = Message(model.KindAuditorium, model.StatusRejected, "")
	if got != "Your auditorium reservation was rejected." {
		t.Errorf("Unexpected rejected message: %q", got)
	}

	// Unrecognized statuses degrade to a generic verdict rather than
	// failing the dispatch.
	got = Message(model.KindRoom, model.StatusCancelled, "")
	if got != "Your room reservation was updated." {
		t.Errorf("Unexpected fallback message: %q", got)
	}
}

func TestMessage_AppendsComment(t *testing.T) {
	got := Message(model.KindRoom, model.StatusRejected, "no budget")
	if got != "Your room reservation was rejected. no budget" {
		t.Errorf("Expected comment appended, got %q", got)
	}
}
