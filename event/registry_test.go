package event_test

import (
	"testing"

	"github.com/samboyer/flpx/event"
)

func TestNameRoundTripsKnownIDs(t *testing.T) {
	cases := []struct {
		id   event.ID
		name string
	}{
		{0, "FLP_Enabled"},
		{64, "FLP_NewChan"},
		{99, "ArrangementIndex"},
		{128, "FLP_Color"},
		{193, "FLP_Text_PatName"},
		{233, "PlaylistData"},
	}
	for _, c := range cases {
		if got := event.Name(c.id); got != c.name {
			t.Errorf("Name(%d) = %q, want %q", c.id, got, c.name)
		}
		id, ok := event.Lookup(c.name)
		if !ok || id != c.id {
			t.Errorf("Lookup(%q) = (%d, %v), want (%d, true)", c.name, id, ok, c.id)
		}
	}
}

func TestUnknownIDRoundTrip(t *testing.T) {
	name := event.Name(250)
	if name != "UNKNOWN_250" {
		t.Fatalf("Name(250) = %q, want UNKNOWN_250", name)
	}
	id, ok := event.Lookup(name)
	if !ok || id != 250 {
		t.Fatalf("Lookup(%q) = (%d, %v), want (250, true)", name, id, ok)
	}
}

func TestSizeClasses(t *testing.T) {
	cases := []struct {
		id     event.ID
		width  int
		isText bool
	}{
		{0, 1, false},
		{63, 1, false},
		{64, 2, false},
		{127, 2, false},
		{128, 4, false},
		{191, 4, false},
		{192, -1, true},
		{255, -1, true},
	}
	for _, c := range cases {
		if got := c.id.Width(); got != c.width {
			t.Errorf("ID(%d).Width() = %d, want %d", c.id, got, c.width)
		}
		if got := c.id.IsText(); got != c.isText {
			t.Errorf("ID(%d).IsText() = %v, want %v", c.id, got, c.isText)
		}
	}
}
