package enums

import "testing"

func TestCanCapabilityTable(t *testing.T) {
	cases := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleUser, CapViewContacts, false},
		{RoleUser, CapOperate, false},
		{RolePremium, CapViewContacts, true},
		{RolePremium, CapOperate, false},
		{RoleAdmin, CapViewContacts, true},
		{RoleAdmin, CapOperate, true},
		{Role("root"), CapOperate, false},
	}

	for _, tc := range cases {
		if got := Can(tc.role, tc.capability); got != tc.want {
			t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.capability, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if role, ok := ParseRole(" Admin "); !ok || role != RoleAdmin {
		t.Fatalf("unexpected parse result: %q %v", role, ok)
	}
	if role, ok := ParseRole(""); !ok || role != RoleUser {
		t.Fatalf("empty role must default to user, got %q %v", role, ok)
	}
	if _, ok := ParseRole("owner"); ok {
		t.Fatalf("unknown role must be rejected")
	}
}

func TestPremiumTransitions(t *testing.T) {
	if tr, ok := PremiumTransitionFor(PremiumStatusNone, PremiumStatusPending); !ok || tr != TransitionRequest {
		t.Fatalf("none -> pending must be a request, got %q %v", tr, ok)
	}
	if tr, ok := PremiumTransitionFor(PremiumStatusRejected, PremiumStatusPending); !ok || tr != TransitionReRequest {
		t.Fatalf("rejected -> pending must be a re-request, got %q %v", tr, ok)
	}
	if _, ok := PremiumTransitionFor(PremiumStatusApproved, PremiumStatusPending); ok {
		t.Fatalf("approved must be terminal")
	}
	if _, ok := PremiumTransitionFor(PremiumStatusApproved, PremiumStatusRejected); ok {
		t.Fatalf("approved must not be rejectable")
	}
	if _, ok := PremiumTransitionFor(PremiumStatusNone, PremiumStatusApproved); ok {
		t.Fatalf("approval must go through pending")
	}
	if _, ok := PremiumTransitionFor("", PremiumStatusPending); !ok {
		t.Fatalf("missing stored status must behave as none")
	}

	sources := PremiumSources(PremiumStatusPending)
	if len(sources) != 2 || sources[0] != PremiumStatusNone || sources[1] != PremiumStatusRejected {
		t.Fatalf("unexpected pending sources: %v", sources)
	}
	if sources := PremiumSources(PremiumStatusApproved); len(sources) != 1 || sources[0] != PremiumStatusPending {
		t.Fatalf("unexpected approved sources: %v", sources)
	}
}
