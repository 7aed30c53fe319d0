package bookings

import "testing"

func TestApply(t *testing.T) {
	cases := []struct {
		action Action
		from   Status
		to     Status
		valid  bool
	}{
		{ActionConfirm, StatusPending, StatusConfirmed, true},
		{ActionConfirm, StatusConfirmed, "", false},
		{ActionConfirm, StatusCancelled, "", false},
		{ActionCancel, StatusPending, StatusCancelled, true},
		{ActionCancel, StatusConfirmed, StatusCancelled, true},
		{ActionCancel, StatusCompleted, "", false},
		{ActionComplete, StatusConfirmed, StatusCompleted, true},
		{ActionComplete, StatusPending, "", false},
		{ActionNoShow, StatusConfirmed, StatusNoShow, true},
		{ActionNoShow, StatusPending, "", false},
		{ActionNoShow, StatusNoShow, "", false},
		{Action("unknown"), StatusPending, "", false},
	}

	for _, tt := range cases {
		got, err := Apply(tt.action, tt.from)
		if tt.valid {
			if err != nil {
				t.Fatalf("Apply(%q, %q) unexpected error: %v", tt.action, tt.from, err)
			}
			if got != tt.to {
				t.Fatalf("Apply(%q, %q)=%q, want %q", tt.action, tt.from, got, tt.to)
			}
			continue
		}
		if err == nil {
			t.Fatalf("Apply(%q, %q) expected error, got %q", tt.action, tt.from, got)
		}
	}
}

func TestCountsAgainstCapacity(t *testing.T) {
	holds := map[Status]bool{
		StatusPending:   true,
		StatusConfirmed: true,
		StatusCompleted: true,
		StatusCancelled: false,
		StatusNoShow:    false,
	}
	for s, want := range holds {
		if got := s.CountsAgainstCapacity(); got != want {
			t.Fatalf("%s.CountsAgainstCapacity()=%v, want %v", s, got, want)
		}
	}
}
