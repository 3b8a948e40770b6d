package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/cart"
	"github.com/mnavarro-dev/storefront-backend/internal/location"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
	"github.com/mnavarro-dev/storefront-backend/pkg/upstream"
)

// CartGateway is the slice of the cart service checkout consumes: snapshot
// at submit time, clear after a confirmed acceptance.
type CartGateway interface {
	Snapshot(ctx context.Context, sessionID uuid.UUID) (cart.Snapshot, error)
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// Submitter forwards the finished order payload to the backend. A false
// return without error means the backend rejected the order.
type Submitter interface {
	SubmitOrder(ctx context.Context, payload upstream.OrderPayload) (bool, error)
}

// Notifier surfaces user-visible alerts.
type Notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string)
}

// OrderLog persists accepted orders for later listing.
type OrderLog interface {
	Record(ctx context.Context, record *models.OrderRecord) error
}

type sessionDeps struct {
	carts     CartGateway
	submitter Submitter
	notifier  Notifier
	orders    OrderLog
	logg      *logger.Logger
}

// Session is one checkout attempt's state machine. It is created fresh each
// time the checkout view opens and closed on success or dismissal; a closed
// session never applies results that resolve after the close.
type Session struct {
	id        uuid.UUID
	sessionID uuid.UUID
	policy    enums.LocationPolicy
	strategy  *location.Strategy
	chatID    *string
	openedAt  time.Time
	deps      sessionDeps

	mu         sync.Mutex
	state      enums.CheckoutState
	form       Form
	closed     bool
	lastReason *enums.LocationFailureReason
}

func newSession(sessionID uuid.UUID, phone string, policy enums.LocationPolicy, strategy *location.Strategy, chatID *string, deps sessionDeps) *Session {
	return &Session{
		id:        uuid.New(),
		sessionID: sessionID,
		policy:    policy,
		strategy:  strategy,
		chatID:    chatID,
		openedAt:  time.Now(),
		deps:      deps,
		state:     enums.CheckoutStateIdle,
		form:      NewForm(phone),
	}
}

// Status is the externally visible view of a checkout session.
type Status struct {
	ID              uuid.UUID                    `json:"id"`
	State           enums.CheckoutState          `json:"state"`
	Submitting      bool                         `json:"submitting"`
	Closed          bool                         `json:"closed"`
	Form            Form                         `json:"form"`
	Policy          enums.LocationPolicy         `json:"locationPolicy"`
	LocationFailure *enums.LocationFailureReason `json:"locationFailure,omitempty"`
	ChatID          *string                      `json:"chatId,omitempty"`
	OpenedAt        time.Time                    `json:"openedAt"`
}

// Status reports the session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Session) statusLocked() Status {
	return Status{
		ID:              s.id,
		State:           s.state,
		Submitting:      s.state.InFlight(),
		Closed:          s.closed,
		Form:            s.form,
		Policy:          s.policy,
		LocationFailure: s.lastReason,
		ChatID:          s.chatID,
		OpenedAt:        s.openedAt,
	}
}

// UpdateForm applies field edits. Edits are refused while a submission is in
// flight and after the session has closed.
func (s *Session) UpdateForm(patch FormPatch) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.statusLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is closed")
	}
	if s.state.InFlight() {
		return s.statusLocked(), pkgerrors.New(pkgerrors.CodeStateConflict, "submission in flight")
	}
	if err := s.form.Apply(patch); err != nil {
		return s.statusLocked(), err
	}
	return s.statusLocked(), nil
}

// Submit runs one submission attempt. Invoking it while an attempt is in
// flight is a no-op that returns the current status. devicePoint carries
// coordinates the client already resolved on its side; when nil the
// configured acquisition strategy runs instead.
func (s *Session) Submit(ctx context.Context, devicePoint *types.GeoPoint) (Status, error) {
	return s.attempt(ctx, devicePoint, false)
}

// RetryLocation re-enters acquisition after a strict-policy location failure.
func (s *Session) RetryLocation(ctx context.Context, devicePoint *types.GeoPoint) (Status, error) {
	return s.attempt(ctx, devicePoint, true)
}

// Close dismisses the session. In-flight work is not cancelled; its result
// is discarded when it lands.
func (s *Session) Close() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.statusLocked()
}

func (s *Session) attempt(ctx context.Context, devicePoint *types.GeoPoint, retry bool) (Status, error) {
	s.mu.Lock()
	if s.closed {
		st := s.statusLocked()
		s.mu.Unlock()
		return st, pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is closed")
	}
	if s.state.InFlight() || s.state == enums.CheckoutStateSucceeded {
		st := s.statusLocked()
		s.mu.Unlock()
		return st, nil
	}
	if retry && s.state != enums.CheckoutStateLocationError {
		st := s.statusLocked()
		s.mu.Unlock()
		return st, pkgerrors.New(pkgerrors.CodeStateConflict, "no location failure to retry")
	}
	s.state = enums.CheckoutStateValidating
	s.lastReason = nil
	form := s.form
	s.mu.Unlock()

	ctx = s.deps.logg.WithSessionID(ctx, s.sessionID.String())

	if err := form.Validate(); err != nil {
		s.deps.notifier.Notify(ctx, s.sessionID, enums.AlertKindError, "Please fill in all required fields")
		return s.settle(enums.CheckoutStateIdle), err
	}

	snap, err := s.deps.carts.Snapshot(ctx, s.sessionID)
	if err != nil {
		return s.settle(enums.CheckoutStateIdle), pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart for submission")
	}
	if len(snap.Lines) == 0 {
		return s.settle(enums.CheckoutStateIdle), pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	s.transition(enums.CheckoutStateAcquiringLocation)
	point := devicePoint.Clone()
	if point == nil {
		acquired, acquireErr := s.strategy.Acquire(ctx)
		switch {
		case acquireErr == nil:
			point = acquired
		case s.policy.Blocking():
			fail := location.Classify(acquireErr)
			s.mu.Lock()
			if !s.closed {
				s.state = enums.CheckoutStateLocationError
				reason := fail.Reason
				s.lastReason = &reason
			}
			st := s.statusLocked()
			s.mu.Unlock()
			return st, pkgerrors.Wrap(pkgerrors.CodeLocation, acquireErr, "location acquisition failed").
				WithDetails(map[string]string{"reason": fail.Reason.String()})
		default:
			s.deps.logg.Warn(
				s.deps.logg.WithField(ctx, "reason", location.Classify(acquireErr).Reason.String()),
				"submitting without a position fix",
			)
		}
	}

	request := buildOrderRequest(form, snap, point, s.chatID)
	s.transition(enums.CheckoutStateSubmitting)

	accepted, submitErr := s.deps.submitter.SubmitOrder(ctx, request.Payload())

	s.mu.Lock()
	discarded := s.closed
	s.mu.Unlock()
	if discarded {
		return s.Status(), pkgerrors.New(pkgerrors.CodeStateConflict, "checkout session is closed")
	}

	if submitErr != nil || !accepted {
		s.deps.notifier.Notify(ctx, s.sessionID, enums.AlertKindError, "Failed to submit order. Please try again.")
		st := s.settle(enums.CheckoutStateSubmissionFailed)
		if submitErr != nil {
			return st, pkgerrors.Wrap(pkgerrors.CodeDependency, submitErr, "submit order")
		}
		return st, pkgerrors.New(pkgerrors.CodeDependency, "order rejected by backend")
	}

	s.finalize(ctx, request)

	s.mu.Lock()
	s.state = enums.CheckoutStateSucceeded
	s.closed = true
	st := s.statusLocked()
	s.mu.Unlock()
	return st, nil
}

// finalize applies the side effects of an accepted order. The order is
// already committed upstream, so local failures are logged, never surfaced.
func (s *Session) finalize(ctx context.Context, request OrderRequest) {
	if err := s.deps.carts.Clear(ctx, s.sessionID); err != nil {
		s.deps.logg.Error(ctx, "clear cart after accepted order", err)
	}
	if s.deps.orders != nil {
		if err := s.deps.orders.Record(ctx, s.orderRecord(request)); err != nil {
			s.deps.logg.Error(ctx, "record accepted order", err)
		}
	}
	s.deps.notifier.Notify(ctx, s.sessionID, enums.AlertKindSuccess, "Order submitted successfully!")
}

func (s *Session) orderRecord(request OrderRequest) *models.OrderRecord {
	record := &models.OrderRecord{
		ID:             uuid.New(),
		SessionID:      s.sessionID,
		CustomerName:   request.CustomerName,
		CustomerPhone:  request.CustomerPhone,
		CustomerType:   request.CustomerType,
		Total:          request.Total,
		TotalOffer:     request.TotalOffer,
		ExternalChatID: request.ChatID,
	}
	if request.Location != nil {
		lat, lng := request.Location.Latitude, request.Location.Longitude
		record.Latitude = &lat
		record.Longitude = &lng
	}
	record.Items = make([]models.OrderItemSnapshot, 0, len(request.Items))
	for _, line := range request.Items {
		record.Items = append(record.Items, models.OrderItemSnapshot{
			ProductID:  line.Product.ID,
			Name:       line.Product.Name,
			Price:      line.Product.Price,
			Category:   line.Product.Category,
			Image:      line.Product.Image,
			Quantity:   line.Quantity,
			OfferPrice: line.OfferPrice,
		})
	}
	return record
}

// transition moves to the next in-flight state unless the session closed
// underneath the attempt.
func (s *Session) transition(next enums.CheckoutState) {
	s.mu.Lock()
	if !s.closed {
		s.state = next
	}
	s.mu.Unlock()
}

// settle parks the session in a resting state and returns the status.
func (s *Session) settle(next enums.CheckoutState) Status {
	s.mu.Lock()
	if !s.closed {
		s.state = next
	}
	st := s.statusLocked()
	s.mu.Unlock()
	return st
}
