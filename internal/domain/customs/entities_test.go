package customs

import "testing"

func TestValidDeclarationNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"123456789", true},
		{"000000000", true},
		{"12345678", false},
		{"1234567890", false},
		{"12345678a", false},
		{" 23456789", false},
		{"１23456789", false}, // full-width digit
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidDeclarationNumber(tt.in); got != tt.want {
			t.Errorf("ValidDeclarationNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusVerified, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusUnderReview, true},
		{StatusUnderReview, StatusVerified, true},
		{StatusUnderReview, StatusRejected, true},
		{StatusUnderReview, StatusPending, false},
		{StatusVerified, StatusRejected, false},
		{StatusRejected, StatusVerified, false},
		{StatusVerified, StatusUnderReview, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !StatusVerified.Terminal() || !StatusRejected.Terminal() || StatusUnderReview.Terminal() {
		t.Fatal("terminal set mismatch")
	}
	if Status("x").Valid() || !StatusUnderReview.Valid() {
		t.Fatal("Valid mismatch")
	}
}
