package booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

func testGateway(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return gateway.NewClient(server.URL, gateway.StaticCredentials("test-token"), 2*time.Second, zap.NewNop())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestResolveBranchDedicatedTier(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/offers/o1/branch" {
			writeJSON(w, http.StatusOK, gateway.BranchResponse{
				Success: true,
				Branch:  &gateway.BranchPayload{ID: "12", Name: "Westlands", StoreID: "7"},
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveBranch(context.Background(), models.BookableEntity{OfferID: "o1", BookingEnabled: true})

	if !res.Success {
		t.Fatal("resolution must succeed via the dedicated tier")
	}
	if res.Source != "dedicated" {
		t.Errorf("Source = %q, want dedicated", res.Source)
	}
	if res.Branch.ID != "12" || res.Branch.IsSynthetic() {
		t.Errorf("Branch = %+v, want real branch 12", res.Branch)
	}
}

func TestResolveBranchFallsBackToEntityStore(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/offers/o1":
			writeJSON(w, http.StatusOK, gateway.OfferResponse{
				Success: true,
				Offer: &gateway.OfferPayload{
					ID:       "o1",
					Discount: 20,
					Service: &gateway.ServicePayload{
						ID: "s1",
						Store: &models.StoreInfo{
							ID:          float64(7),
							Name:        "Mama Oliech",
							Location:    "Kilimani",
							WorkingDays: "Monday,Tuesday",
						},
					},
				},
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveBranch(context.Background(), models.BookableEntity{OfferID: "o1", BookingEnabled: true})

	if !res.Success {
		t.Fatal("resolution must succeed via the entity-store tier")
	}
	if res.Source != "entity-store" {
		t.Errorf("Source = %q, want entity-store", res.Source)
	}
	if res.Branch.ID != "store-7" || !res.Branch.IsSynthetic() {
		t.Errorf("Branch = %+v, want synthetic store-7", res.Branch)
	}
	if !res.Branch.IsMainBranch {
		t.Error("synthesized branch must be the main branch")
	}
}

func TestResolveBranchOfferWalksServiceForStore(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/offers/o1":
			// Offer without an embedded service record, only a reference.
			writeJSON(w, http.StatusOK, gateway.OfferResponse{
				Success: true,
				Offer:   &gateway.OfferPayload{ID: "o1", ServiceID: float64(31)},
			})
		case "/services/31":
			writeJSON(w, http.StatusOK, gateway.ServiceResponse{
				Success: true,
				Service: &gateway.ServicePayload{ID: "31", Store: &models.StoreInfo{ID: "7", Name: "Mama Oliech"}},
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveBranch(context.Background(), models.BookableEntity{OfferID: "o1", BookingEnabled: true})

	if !res.Success || res.Branch.ID != "store-7" {
		t.Fatalf("resolution = %+v, want synthetic store-7 via service walk", res)
	}
}

func TestResolveBranchTodaySlotsTier(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/s1/slots" {
			writeJSON(w, http.StatusOK, gateway.SlotQueryResponse{
				Success:   true,
				StoreInfo: &models.StoreInfo{ID: "7", Name: "Mama Oliech"},
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	resolver := &BranchResolver{
		Gateway: client,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
	res := resolver.ResolveBranch(context.Background(), models.BookableEntity{ServiceID: "s1", BookingEnabled: true})

	if !res.Success {
		t.Fatal("resolution must succeed via the today-slots tier")
	}
	if res.Source != "today-slots" {
		t.Errorf("Source = %q, want today-slots", res.Source)
	}
	if res.Branch.ID != "store-7" {
		t.Errorf("Branch.ID = %q, want store-7", res.Branch.ID)
	}
}

func TestResolveBranchExhaustionIsNonFatal(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveBranch(context.Background(), models.BookableEntity{ServiceID: "s1", BookingEnabled: true})

	if res.Success {
		t.Error("Success must be false when every tier fails")
	}
	if res.Branch != nil {
		t.Errorf("Branch = %+v, want nil", res.Branch)
	}
}

func TestResolveStaffSkipsSyntheticBranchID(t *testing.T) {
	var gotQuery string
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/s1/staff" {
			gotQuery = r.URL.RawQuery
			writeJSON(w, http.StatusOK, gateway.StaffResponse{
				Success: true,
				Staff:   []models.Staff{{ID: "st1", Name: "Alice"}},
			})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveStaff(context.Background(), models.BookableEntity{ServiceID: "s1"}, "store-7")

	if !res.Success || len(res.Staff) != 1 {
		t.Fatalf("resolution = %+v, want one staff member", res)
	}
	if gotQuery != "" {
		t.Errorf("query = %q, synthetic branch ids must not be sent as branchId", gotQuery)
	}
}

func TestResolveStaffSendsRealBranchID(t *testing.T) {
	var gotBranchID string
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/services/s1/staff" {
			gotBranchID = r.URL.Query().Get("branchId")
			writeJSON(w, http.StatusOK, gateway.StaffResponse{Success: true, Staff: []models.Staff{}})
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveStaff(context.Background(), models.BookableEntity{ServiceID: "s1"}, "12")

	if !res.Success {
		t.Fatal("resolution must succeed")
	}
	if gotBranchID != "12" {
		t.Errorf("branchId = %q, want 12", gotBranchID)
	}
}

func TestResolveStaffFailureYieldsEmptyRoster(t *testing.T) {
	client := testGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
	})

	resolver := &BranchResolver{Gateway: client, Logger: zap.NewNop()}
	res := resolver.ResolveStaff(context.Background(), models.BookableEntity{ServiceID: "s1"}, "")

	if res.Success {
		t.Error("Success must be false")
	}
	if res.Staff == nil || len(res.Staff) != 0 {
		t.Errorf("Staff = %v, want empty non-nil roster", res.Staff)
	}
}
