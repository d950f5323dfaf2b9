package booking

import (
	"reflect"
	"testing"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"
)

func TestNormalizeWorkingDays(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  []string
	}{
		{"nil", nil, []string{}},
		{"string slice", []string{"Monday", "Tuesday"}, []string{"Monday", "Tuesday"}},
		{"any slice", []any{"Monday", "Tuesday"}, []string{"Monday", "Tuesday"}},
		{"any slice with junk", []any{"Monday", 7, ""}, []string{"Monday"}},
		{"json encoded array", `["Monday","Tuesday"]`, []string{"Monday", "Tuesday"}},
		{"comma separated", "Monday, Tuesday,Wednesday", []string{"Monday", "Tuesday", "Wednesday"}},
		{"single day string", "Monday", []string{"Monday"}},
		{"empty string", "", []string{}},
		{"broken json array", `["Monday",`, []string{}},
		{"unsupported type", 42, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWorkingDays(tc.input)
			if got == nil {
				t.Fatal("NormalizeWorkingDays returned nil, want non-nil slice")
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeWorkingDays(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestAsID(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "abc-1", "abc-1"},
		{"json float", float64(42), "42"},
		{"float with fraction", 42.5, "42.5"},
		{"int", 7, "7"},
		{"nil", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := asID(tc.input); got != tc.want {
				t.Errorf("asID(%v) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestBranchFromPayload(t *testing.T) {
	branch := branchFromPayload(&gateway.BranchPayload{
		ID:          float64(12),
		Name:        "Westlands",
		WorkingDays: `["Monday","Friday"]`,
		StoreID:     "7",
	})
	if branch.ID != "12" {
		t.Errorf("ID = %q, want %q", branch.ID, "12")
	}
	if branch.StoreID != "7" {
		t.Errorf("StoreID = %q, want %q", branch.StoreID, "7")
	}
	if !reflect.DeepEqual(branch.WorkingDays, []string{"Monday", "Friday"}) {
		t.Errorf("WorkingDays = %v", branch.WorkingDays)
	}
	if branch.IsSynthetic() {
		t.Error("real branch must not be synthetic")
	}
}

func TestBranchFromStore(t *testing.T) {
	branch := branchFromStore(&models.StoreInfo{
		ID:          float64(7),
		Name:        "Mama Oliech",
		Location:    "Kilimani",
		OpeningTime: "08:00",
		ClosingTime: "20:00",
		WorkingDays: "Monday,Tuesday",
	})
	if branch.ID != "store-7" {
		t.Errorf("ID = %q, want %q", branch.ID, "store-7")
	}
	if !branch.IsSynthetic() {
		t.Error("store-derived branch must be synthetic")
	}
	if !branch.IsMainBranch {
		t.Error("store-derived branch must be the main branch")
	}
	if branch.StoreID != "7" {
		t.Errorf("StoreID = %q, want %q", branch.StoreID, "7")
	}

	unnamed := branchFromStore(&models.StoreInfo{ID: "9"})
	if unnamed.Name != "Main Branch" {
		t.Errorf("Name = %q, want %q", unnamed.Name, "Main Branch")
	}
}
