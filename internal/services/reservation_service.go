package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/SAP-F-2025/lab-reservation-service/internal/approval"
	"github.com/SAP-F-2025/lab-reservation-service/internal/cache"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/validator"
)

type reservationService struct {
	repo        repositories.Repository
	cache       *cache.CacheManager
	publisher   events.EventPublisher
	logger      *slog.Logger
	validator   *validator.Validator
	financeMock bool
}

func NewReservationService(
	repo repositories.Repository,
	cm *cache.CacheManager,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *validator.Validator,
	financeMock bool,
) ReservationService {
	return &reservationService{
		repo:        repo,
		cache:       cm,
		publisher:   publisher,
		logger:      logger,
		validator:   validator,
		financeMock: financeMock,
	}
}

// unitOfWork is the transaction-bound repository plus the events to publish
// once it commits.
type unitOfWork struct {
	repo   repositories.Repository
	events []*events.Event
}

func (u *unitOfWork) emit(e *events.Event) {
	u.events = append(u.events, e)
}

// mutateFunc changes r in place and reports the transition it applied.
type mutateFunc func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error)

// ===== LEDGER OPERATIONS =====

func (s *reservationService) Create(ctx context.Context, actor *models.User, req *CreateReservationRequest) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	start, end := req.StartTime.UTC(), req.EndTime.UTC()
	if !start.Before(end) {
		return nil, NewAppError(CodeInvalidRequest, "start_time must be before end_time")
	}

	s.logger.Info("Creating reservation", "user_id", actor.ID, "device_id", req.DeviceID, "start", start, "end", end)

	assignment := approval.Initial(actor.BorrowerType)
	step := assignment.Step
	r := &models.Reservation{
		DeviceID:      req.DeviceID,
		UserID:        actor.ID,
		StartTime:     start,
		EndTime:       end,
		Description:   req.Description,
		Contact:       req.Contact,
		Status:        models.ReservationPending,
		CurrentStep:   &step,
		PaymentStatus: assignment.Payment,
	}

	uow, err := s.inTransaction(ctx, func(uow *unitOfWork) error {
		device, err := uow.repo.Device().GetByIDForUpdate(ctx, req.DeviceID)
		if err != nil {
			return lookupError(err, "device")
		}
		if !device.Status.Reservable() {
			return NewAppError(CodeInvalidRequest, fmt.Sprintf("device %s is not reservable while %s", device.DeviceNo, device.Status))
		}
		if err := s.ensureFree(ctx, uow.repo, r); err != nil {
			return err
		}

		if r.PaymentStatus == models.PaymentPending {
			r.PaymentAmount = device.RentalPrice
		}
		if err := uow.repo.Reservation().Create(ctx, r); err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		outcome := &approval.Outcome{Action: approval.ActionCreate, To: r.Status}
		return s.record(ctx, uow, r, actor, outcome, req.Description)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, uow)
	s.logger.Info("Reservation created", "reservation_id", r.ID, "current_step", *r.CurrentStep, "payment_status", r.PaymentStatus)
	return s.buildResponse(ctx, s.repo, r, actor)
}

func (s *reservationService) Get(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	r, owner, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !approval.CanView(actor, r, owner) {
		return nil, NewPermissionError(actor.ID, id, "reservation", "read", "not owner, advisor or staff")
	}

	return s.respond(ctx, s.repo, r, owner)
}

// List applies the caller's visibility: staff see everything, teachers see
// their own and their advisees' reservations, everyone else only their own.
func (s *reservationService) List(ctx context.Context, actor *models.User, q ReservationListQuery) (*ReservationListResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	scope, err := s.visibleOwners(ctx, actor)
	if err != nil {
		return nil, err
	}

	page := q.normalized()
	items, total, err := s.repo.Reservation().List(ctx, repositories.ReservationFilters{
		Status:   q.Status,
		DeviceID: q.DeviceID,
		UserIDs:  scope,
		Limit:    page.Limit,
		Offset:   page.Skip,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	responses, err := s.respondAll(ctx, items)
	if err != nil {
		return nil, err
	}

	return &ReservationListResponse{Items: responses, Total: total, Skip: page.Skip, Limit: page.Limit}, nil
}

func (s *reservationService) visibleOwners(ctx context.Context, actor *models.User) ([]uint, error) {
	if actor.IsStaff() {
		return nil, nil
	}

	scope := []uint{actor.ID}
	if actor.IsTeacher() && actor.TeacherNo != nil && *actor.TeacherNo != "" {
		students, err := s.repo.User().StudentIDsByAdvisor(ctx, *actor.TeacherNo)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve advisees: %w", err)
		}
		scope = append(scope, students...)
	}
	return scope, nil
}

func (s *reservationService) Update(ctx context.Context, actor *models.User, id uint, req *UpdateReservationRequest) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	patch := approval.Patch{
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		Description:     req.Description,
		Contact:         req.Contact,
		Status:          req.Status,
		CurrentStep:     req.CurrentStep,
		PaymentStatus:   req.PaymentStatus,
		PaymentAmount:   req.PaymentAmount,
		ApproverID:      req.ApproverID,
		ApprovalComment: req.ApprovalComment,
	}

	return s.mutate(ctx, actor, id, string(approval.ActionUpdate), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		allowed, err := approval.AuthorizePatch(actor, r, patch)
		if err != nil {
			return nil, err
		}

		wasOccupying := r.Status.Occupies()
		outcome := approval.ApplyPatch(r, allowed, owner)

		if !r.StartTime.Before(r.EndTime) {
			return nil, NewAppError(CodeInvalidRequest, "start_time must be before end_time")
		}
		if r.Status.Occupies() && (allowed.TimeChanged() || !wasOccupying) {
			if err := s.lockAndEnsureFree(ctx, uow.repo, r); err != nil {
				return nil, err
			}
		}
		return outcome, nil
	})
}

// Delete is an administrative hard delete of a reservation and its trail.
func (s *reservationService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := requireStaff(actor, "reservation", id, "delete"); err != nil {
		return err
	}

	var deleted *models.Reservation
	uow, err := s.inTransaction(ctx, func(uow *unitOfWork) error {
		r, err := uow.repo.Reservation().GetByIDForUpdate(ctx, id)
		if err != nil {
			return lookupError(err, "reservation")
		}
		if err := uow.repo.History().DeleteByReservation(ctx, id); err != nil {
			return fmt.Errorf("failed to delete reservation history: %w", err)
		}
		if err := uow.repo.Reservation().Delete(ctx, id); err != nil {
			return lookupError(err, "reservation")
		}
		deleted = r
		uow.emit(reservationEvent(events.ReservationDeleted, r, actor.ID, r.Status))
		return nil
	})
	if err != nil {
		return err
	}

	s.afterCommit(ctx, uow)
	s.logger.Info("Reservation deleted", "reservation_id", id, "status", deleted.Status, "actor_id", actor.ID)
	return nil
}

// ===== APPROVAL WORKFLOW =====

func (s *reservationService) Approve(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error) {
	return s.decide(ctx, actor, id, req, approval.ActionApprove, approval.Approve)
}

func (s *reservationService) Reject(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error) {
	return s.decide(ctx, actor, id, req, approval.ActionReject, approval.Reject)
}

func (s *reservationService) Return(ctx context.Context, actor *models.User, id uint, req *DecisionRequest) (*ReservationResponse, error) {
	return s.decide(ctx, actor, id, req, approval.ActionReturn, approval.Return)
}

type decisionFunc func(r *models.Reservation, actor, applicant *models.User, comment *string, now time.Time) (*approval.Outcome, error)

func (s *reservationService) decide(ctx context.Context, actor *models.User, id uint, req *DecisionRequest, action approval.Action, apply decisionFunc) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if req == nil {
		req = &DecisionRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, id, string(action), req.Comment, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		return apply(r, actor, owner, req.Comment, nowUTC())
	})
}

// Resubmit puts a returned reservation back at the start of its approval
// chain. The window is re-checked because returned reservations do not hold
// their device.
func (s *reservationService) Resubmit(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, id, string(approval.ActionResubmit), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		outcome, err := approval.Resubmit(r, actor, owner)
		if err != nil {
			return nil, err
		}
		if err := s.lockAndEnsureFree(ctx, uow.repo, r); err != nil {
			return nil, err
		}
		return outcome, nil
	})
}

// ===== PAYMENT AND LOAN LIFECYCLE =====

// ConfirmPayment settles a pending payment through the mock finance
// collaborator, which issues the order number.
func (s *reservationService) ConfirmPayment(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !s.financeMock {
		return nil, NewAppError(CodeBadRequest, "online payment is not available")
	}

	return s.mutate(ctx, actor, id, string(approval.ActionPay), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		return approval.ConfirmPayment(r, actor, newPaymentOrderNo(), nowUTC())
	})
}

func (s *reservationService) WaivePayment(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, string(approval.ActionWaive), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		return approval.WaivePayment(r, actor)
	})
}

func (s *reservationService) Activate(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, string(approval.ActionActivate), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		return approval.Activate(r, actor)
	})
}

func (s *reservationService) Borrow(ctx context.Context, actor *models.User, id uint, req *HandoverRequest) (*ReservationResponse, error) {
	return s.handover(ctx, actor, id, req, approval.ActionBorrow, models.DeviceInUse)
}

func (s *reservationService) Complete(ctx context.Context, actor *models.User, id uint, req *HandoverRequest) (*ReservationResponse, error) {
	return s.handover(ctx, actor, id, req, approval.ActionComplete, models.DeviceIdle)
}

// handover records a borrow or return and moves the device status with it.
func (s *reservationService) handover(ctx context.Context, actor *models.User, id uint, req *HandoverRequest, action approval.Action, deviceStatus models.DeviceStatus) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if req == nil {
		req = &HandoverRequest{}
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	return s.mutate(ctx, actor, id, string(action), req.Note, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		var (
			outcome *approval.Outcome
			err     error
		)
		if action == approval.ActionBorrow {
			outcome, err = approval.Borrow(r, actor, req.Note, nowUTC())
		} else {
			outcome, err = approval.Complete(r, actor, req.Note, nowUTC())
		}
		if err != nil {
			return nil, err
		}

		device, err := uow.repo.Device().GetByIDForUpdate(ctx, r.DeviceID)
		if err != nil {
			return nil, lookupError(err, "device")
		}
		if device.Status != deviceStatus {
			if err := uow.repo.Device().UpdateStatus(ctx, device.ID, deviceStatus); err != nil {
				return nil, fmt.Errorf("failed to update device status: %w", err)
			}
			uow.emit(deviceStatusEvent(device, deviceStatus, actor.ID))
		}
		return outcome, nil
	})
}

func (s *reservationService) Refund(ctx context.Context, actor *models.User, id uint) (*ReservationResponse, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, id, string(approval.ActionRefund), nil, func(ctx context.Context, uow *unitOfWork, r *models.Reservation, owner *models.User) (*approval.Outcome, error) {
		return approval.Refund(r, actor, nowUTC())
	})
}

// ===== READ MODELS =====

func (s *reservationService) History(ctx context.Context, actor *models.User, id uint) ([]*models.ReservationHistory, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	r, owner, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !approval.CanView(actor, r, owner) {
		return nil, NewPermissionError(actor.ID, id, "reservation", "read", "not owner, advisor or staff")
	}

	history, err := s.repo.History().ListByReservation(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservation history: %w", err)
	}
	return history, nil
}

// Summary computes all ledger aggregates from one read-only snapshot.
func (s *reservationService) Summary(ctx context.Context, actor *models.User) (*repositories.ReservationSummary, error) {
	if err := requireStaff(actor, "reservation", 0, "summary"); err != nil {
		return nil, err
	}

	var summary repositories.ReservationSummary
	err := s.cache.Stats.CacheOrExecute(ctx, "reservations", &summary, cache.StatsCacheConfig.TTL, func() (any, error) {
		var out *repositories.ReservationSummary
		err := s.repo.ReadOnly(ctx, func(tx repositories.Repository) error {
			var err error
			out, err = tx.Dashboard().ReservationSummary(ctx)
			return err
		})
		return out, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute reservation summary: %w", err)
	}
	return &summary, nil
}

// ===== HELPERS =====

// mutate runs fn against the reservation inside one transaction, persists
// the result with a history row, and publishes events after commit.
func (s *reservationService) mutate(ctx context.Context, actor *models.User, id uint, action string, comment *string, fn mutateFunc) (*ReservationResponse, error) {
	var (
		r     *models.Reservation
		owner *models.User
	)

	uow, err := s.inTransaction(ctx, func(uow *unitOfWork) error {
		var err error
		r, owner, err = s.loadForUpdate(ctx, uow.repo, id)
		if err != nil {
			return err
		}

		outcome, err := fn(ctx, uow, r, owner)
		if err != nil {
			return translateDomainError(err, actor.ID, id, action)
		}

		if err := uow.repo.Reservation().Update(ctx, r); err != nil {
			return lookupError(err, "reservation")
		}
		return s.record(ctx, uow, r, actor, outcome, comment)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, uow)
	return s.respond(ctx, s.repo, r, owner)
}

func (s *reservationService) inTransaction(ctx context.Context, fn func(uow *unitOfWork) error) (*unitOfWork, error) {
	var uow *unitOfWork
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		uow = &unitOfWork{repo: tx}
		return fn(uow)
	})
	if err != nil {
		return nil, err
	}
	return uow, nil
}

func (s *reservationService) afterCommit(ctx context.Context, uow *unitOfWork) {
	cache.InvalidateReservationCache(ctx, s.cache)
	publishEvents(ctx, s.publisher, s.logger, uow.events...)
}

// load fetches a reservation and its owner. A missing owner is returned as nil.
func (s *reservationService) load(ctx context.Context, repo repositories.Repository, id uint) (*models.Reservation, *models.User, error) {
	r, err := repo.Reservation().GetByID(ctx, id)
	if err != nil {
		return nil, nil, lookupError(err, "reservation")
	}
	return s.withOwner(ctx, repo, r)
}

// loadForUpdate is load with the reservation row locked, so concurrent
// mutations of the same reservation apply one after another on fresh state.
func (s *reservationService) loadForUpdate(ctx context.Context, repo repositories.Repository, id uint) (*models.Reservation, *models.User, error) {
	r, err := repo.Reservation().GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, nil, lookupError(err, "reservation")
	}
	return s.withOwner(ctx, repo, r)
}

func (s *reservationService) withOwner(ctx context.Context, repo repositories.Repository, r *models.Reservation) (*models.Reservation, *models.User, error) {
	owner, err := repo.User().GetByID(ctx, r.UserID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return r, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to get reservation owner: %w", err)
	}
	return r, owner, nil
}

// lockAndEnsureFree serializes on the device row, then checks the window.
func (s *reservationService) lockAndEnsureFree(ctx context.Context, repo repositories.Repository, r *models.Reservation) error {
	device, err := repo.Device().GetByIDForUpdate(ctx, r.DeviceID)
	if err != nil {
		return lookupError(err, "device")
	}
	if !device.Status.Reservable() {
		return NewAppError(CodeInvalidRequest, fmt.Sprintf("device %s is not reservable while %s", device.DeviceNo, device.Status))
	}
	return s.ensureFree(ctx, repo, r)
}

// ensureFree must run while the device row is locked.
func (s *reservationService) ensureFree(ctx context.Context, repo repositories.Repository, r *models.Reservation) error {
	overlap, err := repo.Reservation().HasOverlap(ctx, r.DeviceID, r.StartTime, r.EndTime, r.ID)
	if err != nil {
		return fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if overlap {
		return &AppError{
			Code:    CodeConflict,
			Message: "device is already reserved for an overlapping time window",
			Details: map[string]any{
				"device_id":  r.DeviceID,
				"start_time": r.StartTime,
				"end_time":   r.EndTime,
			},
		}
	}
	return nil
}

// record appends the history row and queues the matching event.
func (s *reservationService) record(ctx context.Context, uow *unitOfWork, r *models.Reservation, actor *models.User, outcome *approval.Outcome, comment *string) error {
	snapshot, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to snapshot reservation: %w", err)
	}

	entry := &models.ReservationHistory{
		ReservationID: r.ID,
		ActorID:       actor.ID,
		Action:        string(outcome.Action),
		FromStatus:    outcome.From,
		ToStatus:      outcome.To,
		Comment:       comment,
		Snapshot:      datatypes.JSON(snapshot),
	}
	if err := uow.repo.History().Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record reservation history: %w", err)
	}

	uow.emit(reservationEvent(eventTypeFor(outcome.Action), r, actor.ID, outcome.From))

	s.logger.Info("Reservation transition",
		"reservation_id", r.ID,
		"action", outcome.Action,
		"from", outcome.From,
		"to", outcome.To,
		"actor_id", actor.ID)
	return nil
}

func (s *reservationService) buildResponse(ctx context.Context, repo repositories.Repository, r *models.Reservation, actor *models.User) (*ReservationResponse, error) {
	owner := actor
	if actor == nil || actor.ID != r.UserID {
		var err error
		if owner, err = repo.User().GetByID(ctx, r.UserID); err != nil && !repositories.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to get reservation owner: %w", err)
		}
	}
	return s.respond(ctx, repo, r, owner)
}

func (s *reservationService) respond(ctx context.Context, repo repositories.Repository, r *models.Reservation, owner *models.User) (*ReservationResponse, error) {
	resp := &ReservationResponse{
		Reservation: r,
		NextAction:  approval.NextFor(r, owner),
	}
	if owner != nil {
		resp.ApplicantName = owner.Name
		resp.BorrowerType = owner.BorrowerType
	}

	device, err := repo.Device().GetByID(ctx, r.DeviceID)
	switch {
	case err == nil:
		resp.DeviceNo = device.DeviceNo
	case !repositories.IsNotFoundError(err):
		return nil, fmt.Errorf("failed to get reservation device: %w", err)
	}
	return resp, nil
}

// respondAll builds responses for a page with two batched lookups.
func (s *reservationService) respondAll(ctx context.Context, items []*models.Reservation) ([]*ReservationResponse, error) {
	userIDs := make([]uint, 0, len(items))
	deviceIDs := make([]uint, 0, len(items))
	for _, r := range items {
		userIDs = append(userIDs, r.UserID)
		deviceIDs = append(deviceIDs, r.DeviceID)
	}

	owners, err := s.repo.User().GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation owners: %w", err)
	}
	devices, err := s.repo.Device().GetByIDs(ctx, deviceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservation devices: %w", err)
	}

	out := make([]*ReservationResponse, 0, len(items))
	for _, r := range items {
		owner := owners[r.UserID]
		resp := &ReservationResponse{Reservation: r, NextAction: approval.NextFor(r, owner)}
		if owner != nil {
			resp.ApplicantName = owner.Name
			resp.BorrowerType = owner.BorrowerType
		}
		if d := devices[r.DeviceID]; d != nil {
			resp.DeviceNo = d.DeviceNo
		}
		out = append(out, resp)
	}
	return out, nil
}

func newPaymentOrderNo() string {
	return "PAY-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}

func eventTypeFor(action approval.Action) events.EventType {
	switch action {
	case approval.ActionCreate:
		return events.ReservationCreated
	case approval.ActionApprove:
		return events.ReservationApproved
	case approval.ActionReject:
		return events.ReservationRejected
	case approval.ActionReturn:
		return events.ReservationReturned
	case approval.ActionResubmit:
		return events.ReservationResubmitted
	case approval.ActionCancel:
		return events.ReservationCancelled
	case approval.ActionPay:
		return events.ReservationPaid
	case approval.ActionWaive:
		return events.ReservationWaived
	case approval.ActionActivate:
		return events.ReservationActivated
	case approval.ActionBorrow:
		return events.ReservationBorrowed
	case approval.ActionComplete:
		return events.ReservationCompleted
	case approval.ActionRefund:
		return events.ReservationRefunded
	case approval.ActionUpdate:
		return events.ReservationUpdated
	}
	return events.ReservationUpdated
}

func reservationEvent(t events.EventType, r *models.Reservation, actorID uint, from models.ReservationStatus) *events.Event {
	data := events.ReservationEventData{
		ReservationID: r.ID,
		DeviceID:      r.DeviceID,
		UserID:        r.UserID,
		ActorID:       actorID,
		FromStatus:    string(from),
		ToStatus:      string(r.Status),
		PaymentStatus: string(r.PaymentStatus),
	}
	if r.CurrentStep != nil {
		data.CurrentStep = string(*r.CurrentStep)
	}
	return events.NewEvent(t, data)
}
