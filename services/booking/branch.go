package booking

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Roadpeak/D3-client-sub000/gateway"
	"github.com/Roadpeak/D3-client-sub000/models"

	"go.uber.org/zap"
)

// BranchResolver locates the physical branch (and optional staff roster)
// for a bookable entity. Resolution walks four decreasing-confidence tiers;
// total failure is non-fatal to the wizard, which must keep rendering entity
// details and allow a retry.
type BranchResolver struct {
	Gateway *gateway.Client
	Logger  *zap.Logger
	Now     func() time.Time
}

func (r *BranchResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// ResolveBranch attempts, strictly in order:
//  1. the dedicated per-entity branch endpoint,
//  2. the legacy branch-by-entity endpoint,
//  3. fetching the full entity and synthesizing a main branch from its
//     store's address/hours/working days,
//  4. today's slot query, extracting storeInfo/branchInfo from it.
func (r *BranchResolver) ResolveBranch(ctx context.Context, entity models.BookableEntity) models.BranchResolution {
	bookingType := entity.BookingType()
	entityID := entity.EntityID()

	type sourced struct {
		branch *models.Branch
		source string
	}

	checkBranch := func(resp *gateway.BranchResponse, source string) (sourced, error) {
		if resp == nil || !resp.Success || resp.Branch == nil {
			return sourced{}, fmt.Errorf("no branch in response")
		}
		return sourced{branch: branchFromPayload(resp.Branch), source: source}, nil
	}

	strategies := []Strategy[sourced]{
		{
			Name: "dedicated",
			Run: func(ctx context.Context) (sourced, error) {
				var resp gateway.BranchResponse
				path := fmt.Sprintf("/%ss/%s/branch", bookingType, entityID)
				if err := r.Gateway.GetJSON(ctx, path, nil, &resp); err != nil {
					return sourced{}, err
				}
				return checkBranch(&resp, "dedicated")
			},
		},
		{
			Name: "legacy",
			Run: func(ctx context.Context) (sourced, error) {
				var resp gateway.BranchResponse
				path := fmt.Sprintf("/branches/by-%s/%s", bookingType, entityID)
				if err := r.Gateway.GetJSON(ctx, path, nil, &resp); err != nil {
					return sourced{}, err
				}
				return checkBranch(&resp, "legacy")
			},
		},
		{
			Name: "entity-store",
			Run: func(ctx context.Context) (sourced, error) {
				store, err := r.fetchEntityStore(ctx, bookingType, entityID)
				if err != nil {
					return sourced{}, err
				}
				branch := branchFromStore(store)
				if branch == nil {
					return sourced{}, fmt.Errorf("entity has no store data")
				}
				return sourced{branch: branch, source: "entity-store"}, nil
			},
		},
		{
			Name: "today-slots",
			Run: func(ctx context.Context) (sourced, error) {
				var resp gateway.SlotQueryResponse
				today := r.now().Format("2006-01-02")
				path := fmt.Sprintf("/%ss/%s/slots", bookingType, entityID)
				if err := r.Gateway.GetJSON(ctx, path, url.Values{"date": {today}}, &resp); err != nil {
					return sourced{}, err
				}
				if resp.BranchInfo != nil {
					return sourced{branch: branchFromPayload(resp.BranchInfo), source: "today-slots"}, nil
				}
				if resp.StoreInfo != nil {
					return sourced{branch: branchFromStore(resp.StoreInfo), source: "today-slots"}, nil
				}
				return sourced{}, fmt.Errorf("slot response carried no branch or store info")
			},
		},
	}

	operation := "branchFor" + bookingType
	out, err := Resolve(ctx, r.Logger, operation, strategies)
	if err != nil {
		r.Logger.Warn("branch resolution exhausted all tiers",
			zap.String("entityId", entityID),
			zap.String("bookingType", bookingType),
			zap.Error(err))
		return models.BranchResolution{Success: false, Branch: nil}
	}
	return models.BranchResolution{Success: true, Branch: out.branch, Source: out.source}
}

// fetchEntityStore walks offer → service → store (or service → store) and
// returns the store record used to synthesize a branch.
func (r *BranchResolver) fetchEntityStore(ctx context.Context, bookingType, entityID string) (*models.StoreInfo, error) {
	serviceID := entityID
	if bookingType == models.BookingTypeOffer {
		var offerResp gateway.OfferResponse
		if err := r.Gateway.GetJSON(ctx, "/offers/"+entityID, nil, &offerResp); err != nil {
			return nil, err
		}
		if offerResp.Offer == nil {
			return nil, fmt.Errorf("offer %s not found in response", entityID)
		}
		if offerResp.Offer.Service != nil && offerResp.Offer.Service.Store != nil {
			return offerResp.Offer.Service.Store, nil
		}
		serviceID = asID(offerResp.Offer.ServiceID)
		if serviceID == "" {
			return nil, fmt.Errorf("offer %s references no service", entityID)
		}
	}

	var svcResp gateway.ServiceResponse
	if err := r.Gateway.GetJSON(ctx, "/services/"+serviceID, nil, &svcResp); err != nil {
		return nil, err
	}
	if svcResp.Service == nil || svcResp.Service.Store == nil {
		return nil, fmt.Errorf("service %s has no store attached", serviceID)
	}
	return svcResp.Service.Store, nil
}

// ResolveStaff looks up the roster for an (entity, branch) pair. It is
// independent of branch resolution; an empty roster is expected and must
// never block submission; assignment is deferred to the upstream.
func (r *BranchResolver) ResolveStaff(ctx context.Context, entity models.BookableEntity, branchID string) models.StaffResolution {
	bookingType := entity.BookingType()
	entityID := entity.EntityID()

	query := url.Values{}
	if branchID != "" && !strings.HasPrefix(branchID, models.SyntheticBranchPrefix) {
		query.Set("branchId", branchID)
	}

	strategies := []Strategy[[]models.Staff]{
		{
			Name: "dedicated",
			Run: func(ctx context.Context) ([]models.Staff, error) {
				var resp gateway.StaffResponse
				path := fmt.Sprintf("/%ss/%s/staff", bookingType, entityID)
				if err := r.Gateway.GetJSON(ctx, path, query, &resp); err != nil {
					return nil, err
				}
				if !resp.Success {
					return nil, fmt.Errorf("staff query rejected: %s", resp.Message)
				}
				return resp.Staff, nil
			},
		},
		{
			Name: "unified",
			Run: func(ctx context.Context) ([]models.Staff, error) {
				var resp gateway.StaffResponse
				q := url.Values{"entityType": {bookingType}, "entityId": {entityID}}
				if branchID != "" {
					q.Set("branchId", branchID)
				}
				if err := r.Gateway.GetJSON(ctx, "/staff", q, &resp); err != nil {
					return nil, err
				}
				if !resp.Success {
					return nil, fmt.Errorf("staff query rejected: %s", resp.Message)
				}
				return resp.Staff, nil
			},
		},
	}

	operation := "staffFor" + bookingType
	staff, err := Resolve(ctx, r.Logger, operation, strategies)
	if err != nil {
		r.Logger.Warn("staff lookup failed; proceeding without roster",
			zap.String("entityId", entityID),
			zap.Error(err))
		return models.StaffResolution{Success: false, Staff: []models.Staff{}}
	}
	if staff == nil {
		staff = []models.Staff{}
	}
	return models.StaffResolution{Success: true, Staff: staff}
}
