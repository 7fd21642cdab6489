package domain

import "testing"

func TestDeriveNavStateOrder(t *testing.T) {
	t.Parallel()
	bundle := &ContextBundle{Sport: SportProfile{SportID: "cricket"}}

	cases := []struct {
		name string
		snap Snapshot
		want NavState
	}{
		{"loading wins over everything", Snapshot{Session: Session{UserID: "u1", Loading: true}, Context: bundle}, StateLoading},
		{"no identity", Snapshot{}, StateUnauthenticated},
		{"identity without sport", Snapshot{Session: Session{UserID: "u1"}}, StateOnboarding},
		{"identity with sport", Snapshot{Session: Session{UserID: "u1"}, Context: bundle}, StateActive},
		{"reload failure still collapses to onboarding", Snapshot{Session: Session{UserID: "u1"}, ReloadFailed: true}, StateOnboarding},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveNavState(tc.snap); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDeriveNavStateIsIdempotent(t *testing.T) {
	t.Parallel()
	snap := Snapshot{Session: Session{UserID: "u1"}, Context: &ContextBundle{Sport: SportProfile{SportID: "table_tennis"}}}
	first := DeriveNavState(snap)
	second := DeriveNavState(snap)
	if first != second {
		t.Fatalf("derivation must be a pure function of the snapshot: %s vs %s", first, second)
	}
}

func TestSkillRequestValidation(t *testing.T) {
	t.Parallel()
	if err := PreserveSkill().Validate(); err != nil {
		t.Fatalf("preserve needs no level: %v", err)
	}
	if err := SetSkill("Beginner").Validate(); err != nil {
		t.Fatalf("explicit level is valid: %v", err)
	}
	if err := SetSkill("  ").Validate(); err == nil {
		t.Fatal("blank level must be rejected")
	}
}
