package booking

import (
	"context"
	"sync"
	"time"

	"github.com/Roadpeak/D3-client-sub000/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultWizardService implements WizardService. All state lives in the
// session store; the service itself only holds the poller registry and
// per-session locks that serialize transitions, because the state machine
// is not designed for concurrent mutation.
type DefaultWizardService struct {
	Store        SessionStore
	Availability *AvailabilityEngine
	Branches     *BranchResolver
	Payments     PaymentService
	Reminders    ReminderScheduler
	Logger       *zap.Logger

	PollInterval    time.Duration
	PollMaxAttempts int

	mu      sync.Mutex
	pollers map[string]*pollerHandle
	locks   sync.Map
}

func (s *DefaultWizardService) sessionLock(sessionID string) *sync.Mutex {
	v, _ := s.locks.LoadOrStore(sessionID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// StartSession creates a wizard session for a bookable entity, resolving
// branch and staff up front. A failed branch resolution is non-fatal: the
// session still starts and the UI may retry the lookup.
func (s *DefaultWizardService) StartSession(ctx context.Context, userID string, entity models.BookableEntity, client models.ClientInfo) (*models.WizardSession, error) {
	if entity.EntityID() == "" {
		return nil, NewValidationError("entity", "an offer or service id is required")
	}
	if !entity.BookingEnabled {
		return nil, NewValidationError("entity", "bookings are not enabled for this listing")
	}

	session := &models.WizardSession{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		Entity:       entity,
		ClientInfo:   client,
		Step:         models.StepDateTime,
		FurthestStep: 1,
		CreatedAt:    time.Now(),
	}

	resolution := s.Branches.ResolveBranch(ctx, entity)
	session.BranchLookup = resolution.Success
	branchID := ""
	if resolution.Success {
		session.Branches = []models.Branch{*resolution.Branch}
		branchID = resolution.Branch.ID
	}

	// Staff lookup is independent of branch resolution; an empty roster is
	// a valid outcome.
	staff := s.Branches.ResolveStaff(ctx, entity, branchID)
	session.Staff = staff.Staff

	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	s.Logger.Info("wizard session started",
		zap.String("sessionId", session.SessionID),
		zap.String("entityId", entity.EntityID()),
		zap.String("bookingType", entity.BookingType()),
		zap.Bool("branchResolved", resolution.Success))
	return session, nil
}

func (s *DefaultWizardService) GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.Store.Get(ctx, sessionID)
}

// withSession loads, mutates and saves a session under its lock. Nothing is
// persisted when fn fails.
func (s *DefaultWizardService) withSession(ctx context.Context, sessionID string, fn func(*models.WizardSession) error) (*models.WizardSession, error) {
	mu := s.sessionLock(sessionID)
	mu.Lock()
	defer mu.Unlock()

	session, err := s.Store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(session); err != nil {
		return nil, err
	}
	if err := s.Store.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// LoadSlots fetches availability for a date and caches it on the session.
func (s *DefaultWizardService) LoadSlots(ctx context.Context, sessionID, date string) (*models.WizardSession, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, NewValidationError("date", "date must be in YYYY-MM-DD format")
	}

	var fetchErr error
	session, err := s.withSession(ctx, sessionID, func(session *models.WizardSession) error {
		result, err := s.Availability.FetchSlots(ctx, session.Entity, date)
		if err != nil {
			fetchErr = err
			return err
		}
		session.Slots = result
		session.SlotsDate = date
		// A slot response can carry the branch that resolution missed at
		// session start (e.g. the today-slots tier was rejected because the
		// store was closed that day). Backfill it so branch selection and
		// the location step stay reachable.
		if result.BranchInfo != nil && len(session.Branches) == 0 {
			session.Branches = []models.Branch{*result.BranchInfo}
			session.BranchLookup = true
		}
		session.LastError = ""
		return nil
	})
	if fetchErr != nil {
		return nil, fetchErr
	}
	return session, err
}

// UpdateDraft applies partial draft changes with the reset rules: a new
// date clears the selected time (slots are date-scoped), a new branch
// clears the selected staff (rosters are branch-scoped).
func (s *DefaultWizardService) UpdateDraft(ctx context.Context, sessionID string, update DraftUpdate) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(session *models.WizardSession) error {
		if session.Step == models.StepPaymentPending || session.Step == models.StepConfirmation {
			return NewValidationError("step", "the booking can no longer be edited")
		}

		if update.Date != nil && *update.Date != session.Draft.Date {
			if _, err := time.Parse("2006-01-02", *update.Date); err != nil {
				return NewValidationError("date", "date must be in YYYY-MM-DD format")
			}
			session.Draft.Date = *update.Date
			session.Draft.Time = ""
			if session.SlotsDate != *update.Date {
				session.Slots = nil
				session.SlotsDate = ""
			}
		}

		if update.Time != nil {
			selected := *update.Time
			if selected != "" && session.Slots != nil && session.SlotsDate == session.Draft.Date {
				if !containsTime(session.Slots.SelectableTimes(), selected) {
					return NewValidationError("time", "the selected time is not available")
				}
			}
			session.Draft.Time = selected
		}

		if update.BranchID != nil {
			branch := findBranch(session.Branches, *update.BranchID)
			if branch == nil {
				return NewValidationError("branchId", "unknown branch for this listing")
			}
			session.Draft.Branch = branch
			session.Draft.Staff = nil
		}

		if update.StaffID != nil {
			if *update.StaffID == "" {
				session.Draft.Staff = nil
			} else {
				staff := findStaff(session.Staff, *update.StaffID)
				if staff == nil {
					return NewValidationError("staffId", "unknown staff member")
				}
				session.Draft.Staff = staff
			}
		}

		if update.Notes != nil {
			session.Draft.Notes = *update.Notes
		}
		return nil
	})
}

// Advance moves the wizard forward one step, enforcing entry guards.
// Attempts to move past an unmet guard are rejected as validation errors,
// never treated as crashes.
func (s *DefaultWizardService) Advance(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(session *models.WizardSession) error {
		switch session.Step {
		case models.StepDateTime:
			if session.Draft.Date == "" || session.Draft.Time == "" {
				return NewValidationError("draft", "select a date and time to continue")
			}
			session.Step = models.StepLocationStaff
			// Auto-assign the entity's unique branch.
			if session.Draft.Branch == nil && len(session.Branches) == 1 {
				branch := session.Branches[0]
				session.Draft.Branch = &branch
			}
		case models.StepLocationStaff:
			if session.Draft.Branch == nil {
				return NewValidationError("draft", "select a branch to continue")
			}
			session.Step = models.StepReview
		default:
			return NewValidationError("step", "cannot advance from the current step")
		}

		if n := session.Step.Number(); n > session.FurthestStep {
			session.FurthestStep = n
		}
		session.LastError = ""
		return nil
	})
}

// Back moves the wizard one step backward. Backward navigation is always
// permitted between the numbered steps; it is rejected while a payment is
// in flight or after confirmation.
func (s *DefaultWizardService) Back(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	return s.withSession(ctx, sessionID, func(session *models.WizardSession) error {
		switch session.Step {
		case models.StepLocationStaff:
			session.Step = models.StepDateTime
		case models.StepReview:
			session.Step = models.StepLocationStaff
		case models.StepDateTime:
			// Already at the first step.
		default:
			return NewValidationError("step", "cannot go back from the current step")
		}
		return nil
	})
}

// CancelSession tears the wizard down, cancelling any running payment
// poller before the session is dropped.
func (s *DefaultWizardService) CancelSession(ctx context.Context, sessionID string) error {
	s.cancelPoller(sessionID)
	s.locks.Delete(sessionID)
	return s.Store.Delete(ctx, sessionID)
}

func (s *DefaultWizardService) cancelPoller(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if handle, ok := s.pollers[sessionID]; ok {
		handle.cancel()
		delete(s.pollers, sessionID)
	}
}

func containsTime(times []string, selected string) bool {
	for _, t := range times {
		if t == selected {
			return true
		}
	}
	return false
}

func findBranch(branches []models.Branch, id string) *models.Branch {
	for i := range branches {
		if branches[i].ID == id {
			branch := branches[i]
			return &branch
		}
	}
	return nil
}

func findStaff(staff []models.Staff, id string) *models.Staff {
	for i := range staff {
		if staff[i].ID == id {
			member := staff[i]
			return &member
		}
	}
	return nil
}
