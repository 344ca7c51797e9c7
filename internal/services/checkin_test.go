package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activitycheckin/internal/domain"
)

type checkInFixture struct {
	svc      *checkInService
	regs     *fakeRegistrationRepo
	logs     *fakeLogRepo
	notifier *fakeNotifier
}

func newCheckInFixture() checkInFixture {
	f := checkInFixture{
		regs: &fakeRegistrationRepo{regs: []*domain.Registration{
			{ID: "R123", ActivityID: "A1", FullName: "Somchai", NationalID: "1234567890123", VisitorID: strPtr("U1"), Status: domain.StatusRegistered, RegisteredAt: fixedNow},
			{ID: "R-admin", ActivityID: "A1", FullName: "Walk In", NationalID: "2222222222222", Status: domain.StatusRegistered, RegisteredAt: fixedNow},
			{ID: "R-done", ActivityID: "A1", FullName: "Early Bird", NationalID: "3333333333333", Status: domain.StatusCheckedIn, SeatNumber: strPtr("A1"), RegisteredAt: fixedNow},
		}},
		logs:     &fakeLogRepo{},
		notifier: &fakeNotifier{},
	}
	f.svc = &checkInService{
		registrationRepo: f.regs,
		activityRepo:     &fakeActivityRepo{activities: map[string]*domain.Activity{"A1": {ID: "A1", Name: "Orientation", Capacity: 2}}},
		logRepo:          f.logs,
		notifier:         f.notifier,
		logger:           discardLogger(),
	}
	return f
}

func TestCheckInService_ScanAndConfirm(t *testing.T) {
	ctx := context.Background()
	f := newCheckInFixture()

	res, err := f.svc.Resolve(ctx, "  R123 ")
	require.NoError(t, err)
	assert.Equal(t, "R123", res.Registration.ID)
	assert.Equal(t, "Orientation", res.ActivityName)
	assert.Equal(t, 1, res.Matches)

	updated, err := f.svc.ConfirmCheckIn(ctx, "op-1", res, " B7 ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCheckedIn, updated.Status)
	assert.Equal(t, "B7", *updated.SeatNumber)

	stored, _ := f.regs.GetByID(ctx, "R123")
	assert.Equal(t, domain.StatusCheckedIn, stored.Status)
	assert.Equal(t, "B7", *stored.SeatNumber)

	require.Len(t, f.logs.entries, 1)
	entry := f.logs.entries[0]
	assert.Equal(t, "R123", entry.RegistrationID)
	assert.Equal(t, "Somchai", entry.StudentName)
	assert.Equal(t, "Orientation", entry.ActivityName)
	assert.Equal(t, "B7", entry.AssignedSeat)
	assert.Equal(t, "op-1", entry.OperatorID)

	assert.Equal(t, []string{"U1|Orientation|B7"}, f.notifier.checkedIn)
}

func TestCheckInService_ConfirmCheckIn(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		token        string
		seat         string
		setup        func(f checkInFixture)
		wantErr      error
		wantWrites   int
		wantLogs     int
		wantNotified int
	}{
		{
			name: "notification failure does not fail check-in", token: "R123", seat: "B7",
			setup:      func(f checkInFixture) { f.notifier.err = errors.New("line down") },
			wantWrites: 1, wantLogs: 1, wantNotified: 1,
		},
		{
			name: "log failure does not fail check-in", token: "R123", seat: "B7",
			setup:      func(f checkInFixture) { f.logs.err = errors.New("insert failed") },
			wantWrites: 1, wantLogs: 0, wantNotified: 1,
		},
		{
			name: "admin registration is not notified", token: "R-admin", seat: "C3",
			wantWrites: 1, wantLogs: 1, wantNotified: 0,
		},
		{
			name: "blank seat is rejected before any write", token: "R123", seat: "   ",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "already checked in", token: "R-done", seat: "B7",
			wantErr: domain.ErrAlreadyCheckedIn,
		},
		{
			name: "store failure surfaces and skips the rest", token: "R123", seat: "B7",
			setup:   func(f checkInFixture) { f.regs.markErr = errors.New("db down") },
			wantErr: errors.New("mark checked in"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCheckInFixture()
			if tt.setup != nil {
				tt.setup(f)
			}
			res, err := f.svc.Resolve(ctx, tt.token)
			require.NoError(t, err)

			_, err = f.svc.ConfirmCheckIn(ctx, "op-1", res, tt.seat)
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, domain.ErrInvalidInput), errors.Is(tt.wantErr, domain.ErrAlreadyCheckedIn):
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.ErrorContains(t, err, tt.wantErr.Error())
			}
			assert.Equal(t, tt.wantWrites, f.regs.writes, "registration writes")
			assert.Len(t, f.logs.entries, tt.wantLogs, "log entries")
			assert.Len(t, f.notifier.checkedIn, tt.wantNotified, "notifications")
		})
	}
}

func TestCheckInService_Resolve_Errors(t *testing.T) {
	ctx := context.Background()
	f := newCheckInFixture()

	_, err := f.svc.Resolve(ctx, "does-not-exist")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.Resolve(ctx, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, f.regs.writes)
	assert.Empty(t, f.logs.entries)
	assert.Empty(t, f.notifier.checkedIn)
}

func TestCheckInService_Resolve_MissingActivityLeavesNameBlank(t *testing.T) {
	f := newCheckInFixture()
	f.regs.regs = append(f.regs.regs, &domain.Registration{ID: "orphan", ActivityID: "gone", Status: domain.StatusRegistered})

	res, err := f.svc.Resolve(context.Background(), "orphan")
	require.NoError(t, err)
	assert.Equal(t, "", res.ActivityName)
}

func TestCheckInService_ResolveByNationalID(t *testing.T) {
	ctx := context.Background()

	t.Run("single match", func(t *testing.T) {
		f := newCheckInFixture()
		res, err := f.svc.ResolveByNationalID(ctx, "A1", "1234567890123")
		require.NoError(t, err)
		assert.Equal(t, "R123", res.Registration.ID)
		assert.Equal(t, 1, res.Matches)
		assert.Equal(t, "Orientation", res.ActivityName)
	})

	t.Run("ambiguous takes earliest", func(t *testing.T) {
		f := newCheckInFixture()
		f.regs.regs = append(f.regs.regs, &domain.Registration{
			ID: "R-earlier", ActivityID: "A1", NationalID: "1234567890123", Status: domain.StatusRegistered,
			RegisteredAt: fixedNow.Add(-time.Hour),
		})
		res, err := f.svc.ResolveByNationalID(ctx, "A1", "1234567890123")
		require.NoError(t, err)
		assert.Equal(t, "R-earlier", res.Registration.ID)
		assert.Equal(t, 2, res.Matches)
	})

	t.Run("no match", func(t *testing.T) {
		f := newCheckInFixture()
		_, err := f.svc.ResolveByNationalID(ctx, "A1", "9999999999999")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wrong activity", func(t *testing.T) {
		f := newCheckInFixture()
		_, err := f.svc.ResolveByNationalID(ctx, "A2", "1234567890123")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newCheckInFixture()
		_, err := f.svc.ResolveByNationalID(ctx, "", "1234567890123")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
