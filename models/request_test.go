package models

import "testing"

func TestRequestStatusPredicates(t *testing.T) {
	cases := []struct {
		status      RequestStatus
		decidable   bool
		deletable   bool
		completable bool
	}{
		{RequestPending, true, true, false},
		{RequestAccepted, false, false, true},
		{RequestRejected, false, true, false},
		{RequestCompleted, false, false, false},
	}

	for _, c := range cases {
		if c.status.Decidable() != c.decidable {
			t.Errorf("%s: Decidable = %v", c.status, !c.decidable)
		}
		if c.status.Deletable() != c.deletable {
			t.Errorf("%s: Deletable = %v", c.status, !c.deletable)
		}
		if c.status.Completable() != c.completable {
			t.Errorf("%s: Completable = %v", c.status, !c.completable)
		}
	}
}
