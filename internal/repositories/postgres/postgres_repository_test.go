package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/repositories"
	"github.com/SAP-F-2025/lab-reservation-service/internal/testutil"
)

func newTestRepository(t *testing.T) (*PostgreSQLRepository, *testutil.Fixture) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewPostgreSQLRepository(RepositoryConfig{DB: db}), testutil.NewFixture(t, db)
}

func TestReservationRepository_HasOverlap(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	device := fx.Device("A-01", models.DeviceIdle, 0)
	other := fx.Device("A-02", models.DeviceIdle, 0)
	owner := fx.Teacher("T001")
	existing := fx.Reservation(device, owner, testutil.Day(10, 0), testutil.Day(12, 0), models.ReservationEffective)
	fx.Reservation(device, owner, testutil.Day(14, 0), testutil.Day(16, 0), models.ReservationCancelled)

	tests := []struct {
		name     string
		deviceID uint
		from, to int
		exclude  uint
		want     bool
	}{
		{"overlapping tail", device.ID, 11, 13, 0, true},
		{"touching boundary", device.ID, 12, 14, 0, false},
		{"cancelled does not occupy", device.ID, 14, 15, 0, false},
		{"other device", other.ID, 10, 12, 0, false},
		{"excluding self", device.ID, 10, 12, existing.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Reservation().HasOverlap(ctx, tt.deviceID, testutil.Day(tt.from, 0), testutil.Day(tt.to, 0), tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReservationRepository_ListScopesAndOrders(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	device := fx.Device("A-01", models.DeviceIdle, 0)
	teacher := fx.Teacher("T001")
	student := fx.Student("S001", "T001")
	stranger := fx.Student("S002", "T999")

	first := fx.Reservation(device, teacher, testutil.Day(8, 0), testutil.Day(9, 0), models.ReservationPending)
	second := fx.Reservation(device, student, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationPending)
	fx.Reservation(device, stranger, testutil.Day(10, 0), testutil.Day(11, 0), models.ReservationPending)

	items, total, err := repo.Reservation().List(ctx, repositories.ReservationFilters{
		UserIDs: []uint{teacher.ID, student.ID},
		Limit:   10,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)

	items, total, err = repo.Reservation().List(ctx, repositories.ReservationFilters{UserIDs: []uint{}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)

	status := models.ReservationPending
	_, total, err = repo.Reservation().List(ctx, repositories.ReservationFilters{Status: &status, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
}

func TestUserRepository_StudentIDsByAdvisor(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	fx.Teacher("T001")
	s1 := fx.Student("S001", "T001")
	s2 := fx.Student("S002", "T001")
	fx.Student("S003", "T002")

	ids, err := repo.User().StudentIDsByAdvisor(ctx, "T001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{s1.ID, s2.ID}, ids)

	exists, err := repo.User().ExistsTeacherNo(ctx, "T001")
	require.NoError(t, err)
	assert.True(t, exists)

	u, err := repo.User().GetByAccount(ctx, "S002")
	require.NoError(t, err)
	assert.Equal(t, s2.ID, u.ID)

	_, err = repo.User().GetByAccount(ctx, "missing")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestDeviceRepository_ListFilters(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	a1 := fx.Device("A-01", models.DeviceIdle, 10)
	a2 := fx.Device("a-02", models.DeviceMaintenance, 20)
	fx.Device("B-01", models.DeviceIdle, 30)

	items, total, err := repo.Device().List(ctx, repositories.DeviceFilters{ZonePrefix: "A", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, a2.ID, items[0].ID)
	assert.Equal(t, a1.ID, items[1].ID)

	_, total, err = repo.Device().List(ctx, repositories.DeviceFilters{Keyword: "m-b", Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	dup, err := repo.Device().ExistsDeviceNo(ctx, "A-01", a1.ID)
	require.NoError(t, err)
	assert.False(t, dup)
	dup, err = repo.Device().ExistsDeviceNo(ctx, "A-01", 0)
	require.NoError(t, err)
	assert.True(t, dup)
}

func TestDashboardRepository_Summaries(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	device := fx.Device("A-01", models.DeviceIdle, 50)
	fx.Device("A-02", models.DeviceScrapped, 25)
	owner := fx.External("13800000000")

	paid := fx.Reservation(device, owner, testutil.Day(8, 0), testutil.Day(9, 0), models.ReservationCompleted)
	paid.PaymentStatus = models.PaymentPaid
	paid.PaymentAmount = 50
	require.NoError(t, repo.Reservation().Update(ctx, paid))
	fx.Reservation(device, owner, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationCancelled)

	var summary *repositories.ReservationSummary
	require.NoError(t, repo.ReadOnly(ctx, func(tx repositories.Repository) error {
		var err error
		summary, err = tx.Dashboard().ReservationSummary(ctx)
		return err
	}))
	assert.EqualValues(t, 2, summary.Total)
	assert.EqualValues(t, 1, summary.ByStatus[models.ReservationCompleted])
	assert.EqualValues(t, 0, summary.ByStatus[models.ReservationPending])
	assert.EqualValues(t, 1, summary.ByPaymentStatus[models.PaymentPaid])
	assert.InDelta(t, 50, summary.TotalPaymentAmount, 0.001)

	stats, err := repo.Dashboard().DeviceStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[models.DeviceScrapped])
	assert.InDelta(t, 75, stats.TotalRentalValue, 0.001)

	report, err := repo.Dashboard().ReportSummary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, report.TotalReservations)
	assert.EqualValues(t, 1, report.Completed)
	assert.EqualValues(t, 1, report.Cancelled)
	assert.InDelta(t, 50, report.TotalPayment, 0.001)
}

func TestWithTransaction_RollsBackOnError(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()
	device := fx.Device("A-01", models.DeviceIdle, 0)

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Device().UpdateStatus(ctx, device.ID, models.DeviceInUse); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := repo.Device().GetByID(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceIdle, got.Status)
}

func TestReservationRepository_LockedLoadAndUpdate(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	device := fx.Device("A-01", models.DeviceIdle, 0)
	owner := fx.Teacher("T001")
	res := fx.Reservation(device, owner, testutil.Day(10, 0), testutil.Day(12, 0), models.ReservationPending)

	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		locked, err := tx.Reservation().GetByIDForUpdate(ctx, res.ID)
		if err != nil {
			return err
		}
		locked.StartTime = testutil.Day(14, 0)
		locked.EndTime = testutil.Day(16, 0)
		locked.Status = models.ReservationApproved
		locked.CurrentStep = nil
		return tx.Reservation().Update(ctx, locked)
	})
	require.NoError(t, err)

	got, err := repo.Reservation().GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.True(t, got.StartTime.Equal(testutil.Day(14, 0)))
	assert.Equal(t, models.ReservationApproved, got.Status)
	assert.Nil(t, got.CurrentStep)

	_, err = repo.Reservation().GetByIDForUpdate(ctx, 999)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestReservationRepository_UpdateDoesNotResurrectDeleted(t *testing.T) {
	repo, fx := newTestRepository(t)
	ctx := context.Background()

	device := fx.Device("A-01", models.DeviceIdle, 0)
	owner := fx.Teacher("T001")
	res := fx.Reservation(device, owner, testutil.Day(10, 0), testutil.Day(12, 0), models.ReservationPending)

	stale, err := repo.Reservation().GetByID(ctx, res.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Reservation().Delete(ctx, res.ID))

	stale.Status = models.ReservationApproved
	err = repo.Reservation().Update(ctx, stale)
	require.Error(t, err)
	assert.True(t, repositories.IsNotFoundError(err))

	items, total, err := repo.Reservation().List(ctx, repositories.ReservationFilters{DeviceID: &device.ID, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
