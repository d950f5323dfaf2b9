package booking

import (
	"context"
	"fmt"
	"math"
	"net/url"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// Access fee policy for offer bookings: 15% of the discount, rounded to
// cents, with a flat fallback when the discount is unknown. The flat value
// mirrors long-standing production behavior and is deliberate.
const (
	accessFeeRate    = 0.15
	defaultAccessFee = 5.99
)

// AvailabilityEngine fetches and normalizes slot availability for a
// bookable entity on a given date.
type AvailabilityEngine struct {
	Gateway *gateway.Client
	Logger  *zap.Logger
}

// FetchSlots resolves the slot query through the ranked endpoint list and
// returns the canonical result. An empty slot list with no error is a valid
// "no slots this day" state.
func (e *AvailabilityEngine) FetchSlots(ctx context.Context, entity models.BookableEntity, date string) (*models.SlotResult, error) {
	bookingType := entity.BookingType()
	entityID := entity.EntityID()

	check := func(resp *gateway.SlotQueryResponse) (*gateway.SlotQueryResponse, error) {
		if resp == nil || !resp.Success {
			msg := "response missing success marker"
			if resp != nil && resp.Message != "" {
				msg = resp.Message
			}
			return nil, fmt.Errorf("slot query rejected: %s", msg)
		}
		return resp, nil
	}

	strategies := []Strategy[*gateway.SlotQueryResponse]{
		{
			Name: "dedicated",
			Run: func(ctx context.Context) (*gateway.SlotQueryResponse, error) {
				var resp gateway.SlotQueryResponse
				path := fmt.Sprintf("/%ss/%s/slots", bookingType, entityID)
				if err := e.Gateway.GetJSON(ctx, path, url.Values{"date": {date}}, &resp); err != nil {
					return nil, err
				}
				return check(&resp)
			},
		},
		{
			Name: "unified",
			Run: func(ctx context.Context) (*gateway.SlotQueryResponse, error) {
				var resp gateway.SlotQueryResponse
				q := url.Values{"entityType": {bookingType}, "entityId": {entityID}, "date": {date}}
				if err := e.Gateway.GetJSON(ctx, "/slots", q, &resp); err != nil {
					return nil, err
				}
				return check(&resp)
			},
		},
		{
			Name: "legacy",
			Run: func(ctx context.Context) (*gateway.SlotQueryResponse, error) {
				var resp gateway.SlotQueryResponse
				path := fmt.Sprintf("/booking/slots/%s/%s", bookingType, entityID)
				if err := e.Gateway.GetJSON(ctx, path, url.Values{"date": {date}}, &resp); err != nil {
					return nil, err
				}
				return check(&resp)
			},
		},
	}

	operation := bookingType + "Slots"
	raw, err := Resolve(ctx, e.Logger, operation, strategies)
	if err != nil {
		return nil, err
	}
	return NormalizeSlotResponse(raw, bookingType, entity.Discount), nil
}

// NormalizeSlotResponse converts a heterogeneous upstream slot response into
// the canonical SlotResult. Detailed slots are clamped so available never
// exceeds total; fee rules depend on the booking type. Normalization is
// idempotent: feeding a result back through produces the same result.
func NormalizeSlotResponse(raw *gateway.SlotQueryResponse, bookingType string, discount float64) *models.SlotResult {
	result := &models.SlotResult{
		AvailableSlots: []string{},
		DetailedSlots:  []models.DetailedSlot{},
		BookingRules:   raw.BookingRules,
	}

	result.AvailableSlots = append(result.AvailableSlots, raw.AvailableSlots...)
	for _, s := range raw.DetailedSlots {
		if s.Available > s.Total {
			s.Available = s.Total
		}
		if s.Available < 0 {
			s.Available = 0
		}
		result.DetailedSlots = append(result.DetailedSlots, s)
	}

	if raw.BranchInfo != nil {
		result.BranchInfo = branchFromPayload(raw.BranchInfo)
	} else if raw.StoreInfo != nil {
		result.BranchInfo = branchFromStore(raw.StoreInfo)
	}

	if bookingType == models.BookingTypeOffer {
		result.RequiresPayment = true
		result.AccessFee = accessFeeForOffer(raw.AccessFee, discount)
	}

	return result
}

// accessFeeForOffer prefers the fee quoted by the upstream, then derives it
// from the discount, then falls back to the flat default.
func accessFeeForOffer(quoted *float64, discount float64) float64 {
	if quoted != nil {
		return *quoted
	}
	if discount > 0 {
		return math.Round(discount*accessFeeRate*100) / 100
	}
	return defaultAccessFee
}
