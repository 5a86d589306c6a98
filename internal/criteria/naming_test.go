package criteria

import (
	"context"
	"testing"

	"appaudit/internal/mgmt"
)

// TestNamingConvention verifies the naming predicate across name shapes.
func TestNamingConvention(t *testing.T) {
	cases := []struct {
		name     string
		complies bool
	}{
		{name: "Billing - Invoicing - FR", complies: true},
		{name: "Billing - Invoicing", complies: true},
		{name: "Payments", complies: true},
		{name: "self-service - Portal - DE", complies: true},
		{name: "Portal - DE", complies: true},
		{name: "invalid_name!", complies: false},
		{name: "Billing - Invoicing - fr", complies: false},
		{name: "Billing -- Invoicing", complies: false},
		{name: "Billing Invoicing", complies: false},
		{name: " - Invoicing", complies: false},
		{name: "", complies: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got, err := evaluateNaming(context.Background(), mgmt.Application{Name: tc.name}, Deps{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.complies {
				t.Fatalf("expected complies=%v for %q, got %v", tc.complies, tc.name, got)
			}
		})
	}
}

// TestNamingIsPure verifies repeated evaluation yields the same result.
func TestNamingIsPure(t *testing.T) {
	app := mgmt.Application{Name: "Billing - Invoicing - FR"}
	for i := 0; i < 3; i++ {
		got, err := evaluateNaming(context.Background(), app, Deps{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got {
			t.Fatalf("expected stable true result on attempt %d", i+1)
		}
	}
}
