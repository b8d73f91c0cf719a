//go:build unit

package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"booking-engine/internal/domain/booking"
	"booking-engine/internal/domain/resource"
	"booking-engine/internal/domain/user"
	"booking-engine/internal/infra"
	"booking-engine/internal/pkg/clock"
	"booking-engine/internal/usecase"
	"booking-engine/tests/common/builder"
	usecasemock "booking-engine/tests/mock/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingCommandsTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	settings *usecasemock.MockSettingsProvider
	store    *usecasemock.MockStore
	notifier *usecasemock.MockNotificationSink
	audit    *usecasemock.MockAuditSink
	clock    *clock.MockClock
	commands usecase.BookingCommands

	now time.Time
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.settings = usecasemock.NewMockSettingsProvider(s.ctrl)
	s.store = usecasemock.NewMockStore(s.ctrl)
	s.notifier = usecasemock.NewMockNotificationSink(s.ctrl)
	s.audit = usecasemock.NewMockAuditSink(s.ctrl)

	s.now = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	s.clock = clock.NewMockClock(s.now)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.commands = usecase.NewBookingCommands(s.settings, s.store, s.notifier, s.audit, s.clock, logger)
}

func (s *BookingCommandsTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *BookingCommandsTestSuite) snapshot() *usecase.SettingsSnapshot {
	return &usecase.SettingsSnapshot{
		Config: usecase.OperationalConfig{
			MinBookingNoticeMinutes: 15,
			MaxBookingDurationHours: 8,
			MaxAdvanceDays:          60,
		},
		Weights: booking.DefaultPriorityWeights(),
	}
}

func (s *BookingCommandsTestSuite) expectSettings(snap *usecase.SettingsSnapshot) {
	s.settings.EXPECT().Current(gomock.Any()).Return(snap, nil)
}

// params 48 hours out: clears notice, duration and advance limits.
func (s *BookingCommandsTestSuite) validParams(resourceID uuid.UUID) usecase.CreateBookingParams {
	return usecase.CreateBookingParams{
		ResourceID: resourceID,
		StartTime:  s.now.Add(48 * time.Hour),
		EndTime:    s.now.Add(50 * time.Hour),
		Urgency:    string(booking.UrgencyMedium),
		Title:      "Review session",
	}
}

func (s *BookingCommandsTestSuite) exclusiveResource() *resource.Resource {
	return builder.NewResourceBuilder().BuildDomain()
}

func (s *BookingCommandsTestSuite) blockerAt(start time.Time, score int) *booking.Reservation {
	return builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.StartTime = start
		b.EndTime = start.Add(2 * time.Hour)
		b.Score = score
		b.CreatedAt = s.now.Add(-24 * time.Hour)
	}).BuildApproved()
}

// ================================================================================
// Validation failures
// ================================================================================

func (s *BookingCommandsTestSuite) TestValidationFailures() {
	cases := []struct {
		name   string
		mutate func(snap *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, role *user.Role)
		errIs  error
	}{
		{
			name: "maintenance mode blocks everything",
			mutate: func(snap *usecase.SettingsSnapshot, _ *usecase.CreateBookingParams, _ *user.Role) {
				snap.Config.MaintenanceMode = true
			},
			errIs: usecase.ErrMaintenanceMode,
		},
		{
			name: "viewer cannot book",
			mutate: func(_ *usecase.SettingsSnapshot, _ *usecase.CreateBookingParams, role *user.Role) {
				*role = user.RoleViewer
			},
			errIs: usecase.ErrRoleCannotBook,
		},
		{
			name: "unknown urgency",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.Urgency = "mild"
			},
			errIs: usecase.ErrInvalidUrgency,
		},
		{
			name: "end before start",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.EndTime = params.StartTime.Add(-time.Hour)
			},
			errIs: usecase.ErrInvalidTimeSlot,
		},
		{
			name: "start in the past",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.StartTime = s.now.Add(-time.Hour)
				params.EndTime = s.now.Add(time.Hour)
			},
			errIs: usecase.ErrInvalidTimeSlot,
		},
		{
			name: "insufficient notice",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.StartTime = s.now.Add(10 * time.Minute)
				params.EndTime = s.now.Add(70 * time.Minute)
			},
			errIs: usecase.ErrInsufficientNotice,
		},
		{
			name: "duration over the cap",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.EndTime = params.StartTime.Add(9 * time.Hour)
			},
			errIs: usecase.ErrDurationTooLong,
		},
		{
			name: "too far in advance",
			mutate: func(_ *usecase.SettingsSnapshot, params *usecase.CreateBookingParams, _ *user.Role) {
				params.StartTime = s.now.AddDate(0, 0, 61)
				params.EndTime = params.StartTime.Add(time.Hour)
			},
			errIs: usecase.ErrTooFarInAdvance,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			snap := s.snapshot()
			params := s.validParams(uuid.New())
			role := user.RoleStaff
			tc.mutate(snap, &params, &role)

			s.expectSettings(snap)

			result, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), role)
			s.Nil(result)
			s.ErrorIs(err, tc.errIs)
		})
	}
}

func (s *BookingCommandsTestSuite) TestSettingsFailure() {
	s.settings.EXPECT().Current(gomock.Any()).Return(nil, errors.New("connection reset"))

	_, err := s.commands.CreateBooking(context.Background(), s.validParams(uuid.New()), uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrStorageFailure)
}

// ================================================================================
// Resource resolution
// ================================================================================

func (s *BookingCommandsTestSuite) TestResourceNotFound() {
	s.expectSettings(s.snapshot())
	params := s.validParams(uuid.New())
	s.store.EXPECT().GetResource(gomock.Any(), params.ResourceID).
		Return(nil, infra.WrapRepoErr("resource not found", errors.New("no rows"), infra.KindNotFound))

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrResourceNotFound)
}

func (s *BookingCommandsTestSuite) TestResourceRetiredBeforeSlotEnd() {
	s.expectSettings(s.snapshot())

	retire := s.now.Add(49 * time.Hour)
	res := builder.NewResourceBuilder().With(func(r *builder.ResourceBuilder) {
		r.DeleteAfter = &retire
	}).BuildDomain()
	params := s.validParams(res.ID())
	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrResourceUnavailable)
}

func (s *BookingCommandsTestSuite) TestQuantityOverCapacity() {
	s.expectSettings(s.snapshot())

	res := builder.NewResourceBuilder().With(func(r *builder.ResourceBuilder) {
		r.Kind = resource.KindQuantity
		r.CapacityUnits = 5
	}).BuildDomain()
	params := s.validParams(res.ID())
	quantity := 6
	params.Quantity = &quantity
	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrInvalidQuantity)
}

// ================================================================================
// Commit paths
// ================================================================================

func (s *BookingCommandsTestSuite) TestCreateBookingWithoutConflict() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	params := s.validParams(res.ID())
	requesterID := uuid.New()
	newID := uuid.New()

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).Return(nil, nil)
	s.store.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Nil()).
		DoAndReturn(func(_ context.Context, entity *booking.Reservation, _ []*booking.Reservation) (uuid.UUID, error) {
			s.Equal(res.ID(), entity.ResourceID())
			s.Equal(requesterID, entity.RequesterID())
			s.Equal(20, entity.Score()) // staff + medium
			s.Equal(1, entity.Quantity())
			return newID, nil
		})
	s.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.commands.CreateBooking(context.Background(), params, requesterID, user.RoleStaff)
	s.NoError(err)
	s.Equal(newID, result.ReservationID)
	s.Equal(20, result.Score)
	s.Zero(result.Preempted)
}

func (s *BookingCommandsTestSuite) TestCreateBookingPreemptsWeakerBlocker() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	params := s.validParams(res.ID())
	requesterID := uuid.New()
	newID := uuid.New()
	blocker := s.blockerAt(params.StartTime, 10) // below staff+medium=20

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	s.store.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *booking.Reservation, victims []*booking.Reservation) (uuid.UUID, error) {
			s.Require().Len(victims, 1)
			s.Equal(blocker.ID(), victims[0].ID())
			return newID, nil
		})
	// One created event plus one per victim.
	s.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.notifier.EXPECT().Notify(gomock.Any(), blocker.RequesterID(), gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.commands.CreateBooking(context.Background(), params, requesterID, user.RoleStaff)
	s.NoError(err)
	s.Equal(1, result.Preempted)
}

func (s *BookingCommandsTestSuite) TestNotificationFailureDoesNotFailBooking() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	params := s.validParams(res.ID())
	blocker := s.blockerAt(params.StartTime, 10)

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	s.store.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).Return(uuid.New(), nil)
	s.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("broker down"))

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.NoError(err)
}

func (s *BookingCommandsTestSuite) TestCommitStaleStateSurfacesAsRetryable() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	params := s.validParams(res.ID())

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).Return(nil, nil)
	s.store.EXPECT().Commit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.Nil, infra.WrapRepoErr("victim version changed", errors.New("0 rows"), infra.KindStaleState))

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrStaleState)
}

// ================================================================================
// Rejections
// ================================================================================

func (s *BookingCommandsTestSuite) TestRejectionWhenBlockerOutscoresRequester() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	params := s.validParams(res.ID())
	blocker := s.blockerAt(params.StartTime, 50) // admin territory

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	// Horizon scan for alternative slots.
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	s.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	result, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.Nil(result)
	s.ErrorIs(err, usecase.ErrCapacityRejected)

	var rejection *usecase.ConflictRejection
	s.Require().ErrorAs(err, &rejection)
	s.Equal([]int{50}, rejection.BlockingScores)
	s.NotEmpty(rejection.Alternatives)
}

func (s *BookingCommandsTestSuite) TestRejectionWhenWeakerBlockerIsFrozen() {
	s.expectSettings(s.snapshot())

	res := s.exclusiveResource()
	// Starting 30 minutes out clears the 15 minute notice but puts the
	// blocker inside its same-day freeze window.
	params := s.validParams(res.ID())
	params.StartTime = s.now.Add(30 * time.Minute)
	params.EndTime = s.now.Add(90 * time.Minute)
	blocker := s.blockerAt(params.StartTime, 10)

	s.store.EXPECT().GetResource(gomock.Any(), res.ID()).Return(res, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	s.store.EXPECT().ListApproved(gomock.Any(), res.ID(), gomock.Any()).
		Return([]*booking.Reservation{blocker}, nil)
	s.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	_, err := s.commands.CreateBooking(context.Background(), params, uuid.New(), user.RoleStaff)
	s.ErrorIs(err, usecase.ErrProtectedConflict)
}
