package booking

import (
	"reflect"
	"testing"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestNormalizeSlotResponseClampsCapacity(t *testing.T) {
	raw := &gateway.SlotQueryResponse{
		Success: true,
		DetailedSlots: []models.DetailedSlot{
			{Time: "09:00", Available: 5, Total: 3},
			{Time: "10:00", Available: -1, Total: 3},
			{Time: "11:00", Available: 2, Total: 3},
		},
	}

	result := NormalizeSlotResponse(raw, models.BookingTypeService, 0)
	want := []models.DetailedSlot{
		{Time: "09:00", Available: 3, Total: 3},
		{Time: "10:00", Available: 0, Total: 3},
		{Time: "11:00", Available: 2, Total: 3},
	}
	if !reflect.DeepEqual(result.DetailedSlots, want) {
		t.Errorf("DetailedSlots = %v, want %v", result.DetailedSlots, want)
	}
}

func TestSelectableTimes(t *testing.T) {
	tests := []struct {
		name   string
		result models.SlotResult
		want   []string
	}{
		{
			"detailed slots exclude fully booked",
			models.SlotResult{
				AvailableSlots: []string{"08:00"},
				DetailedSlots: []models.DetailedSlot{
					{Time: "09:00", Available: 2, Total: 3},
					{Time: "10:00", Available: 0, Total: 3},
				},
			},
			[]string{"09:00"},
		},
		{
			"bare list fallback",
			models.SlotResult{AvailableSlots: []string{"09:00", "10:00"}},
			[]string{"09:00", "10:00"},
		},
		{
			"empty result",
			models.SlotResult{},
			[]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.result.SelectableTimes()
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SelectableTimes() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAccessFeeForOffer(t *testing.T) {
	tests := []struct {
		name     string
		quoted   *float64
		discount float64
		want     float64
	}{
		{"quoted fee wins", floatPtr(12.50), 40, 12.50},
		{"derived from discount", nil, 40, 6.00},
		{"derived rounds to cents", nil, 33.33, 5.00},
		{"flat fallback", nil, 0, 5.99},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := accessFeeForOffer(tc.quoted, tc.discount); got != tc.want {
				t.Errorf("accessFeeForOffer(%v, %v) = %v, want %v", tc.quoted, tc.discount, got, tc.want)
			}
		})
	}
}

func TestNormalizeSlotResponseFeeRules(t *testing.T) {
	offer := NormalizeSlotResponse(&gateway.SlotQueryResponse{Success: true}, models.BookingTypeOffer, 40)
	if !offer.RequiresPayment {
		t.Error("offer slots must require payment")
	}
	if offer.AccessFee != 6.00 {
		t.Errorf("offer AccessFee = %v, want 6.00", offer.AccessFee)
	}

	service := NormalizeSlotResponse(&gateway.SlotQueryResponse{Success: true}, models.BookingTypeService, 40)
	if service.RequiresPayment {
		t.Error("service slots must not require payment")
	}
	if service.AccessFee != 0 {
		t.Errorf("service AccessFee = %v, want 0", service.AccessFee)
	}
}

func TestNormalizeSlotResponsePrefersBranchInfo(t *testing.T) {
	raw := &gateway.SlotQueryResponse{
		Success:    true,
		BranchInfo: &gateway.BranchPayload{ID: "12", Name: "Westlands"},
		StoreInfo:  &models.StoreInfo{ID: "7", Name: "Mama Oliech"},
	}
	result := NormalizeSlotResponse(raw, models.BookingTypeService, 0)
	if result.BranchInfo == nil || result.BranchInfo.ID != "12" {
		t.Fatalf("BranchInfo = %+v, want real branch 12", result.BranchInfo)
	}

	storeOnly := NormalizeSlotResponse(&gateway.SlotQueryResponse{
		Success:   true,
		StoreInfo: &models.StoreInfo{ID: "7", Name: "Mama Oliech"},
	}, models.BookingTypeService, 0)
	if storeOnly.BranchInfo == nil || storeOnly.BranchInfo.ID != "store-7" {
		t.Fatalf("BranchInfo = %+v, want synthetic store-7", storeOnly.BranchInfo)
	}
}

// Feeding a normalized result back through normalization must not change it.
func TestNormalizeSlotResponseIdempotent(t *testing.T) {
	raw := &gateway.SlotQueryResponse{
		Success:        true,
		AvailableSlots: []string{"09:00"},
		DetailedSlots: []models.DetailedSlot{
			{Time: "09:00", Available: 5, Total: 3},
		},
		AccessFee: floatPtr(7.25),
	}

	first := NormalizeSlotResponse(raw, models.BookingTypeOffer, 40)
	again := NormalizeSlotResponse(&gateway.SlotQueryResponse{
		Success:        true,
		AvailableSlots: first.AvailableSlots,
		DetailedSlots:  first.DetailedSlots,
		AccessFee:      &first.AccessFee,
	}, models.BookingTypeOffer, 40)

	if !reflect.DeepEqual(first, again) {
		t.Errorf("normalization not idempotent:\nfirst = %+v\nagain = %+v", first, again)
	}
}

// An upstream success with no slots is a valid empty day, not an error.
func TestNormalizeSlotResponseEmptyDay(t *testing.T) {
	result := NormalizeSlotResponse(&gateway.SlotQueryResponse{Success: true}, models.BookingTypeService, 0)
	if result.AvailableSlots == nil || result.DetailedSlots == nil {
		t.Fatal("empty day must yield non-nil empty slices")
	}
	if len(result.SelectableTimes()) != 0 {
		t.Errorf("SelectableTimes() = %v, want empty", result.SelectableTimes())
	}
}
