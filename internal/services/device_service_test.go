package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/availability"
	"github.com/SAP-F-2025/lab-reservation-service/internal/events"
	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/internal/testutil"
)

func TestDeviceService_Registry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Device()

	admin := env.fx.Staff("admin", models.RoleAdmin)
	teacher := env.fx.Teacher("T001")

	_, err := svc.Create(ctx, teacher, &CreateDeviceRequest{DeviceNo: "A-01"})
	assertCode(t, err, CodePermissionDenied)

	device, err := svc.Create(ctx, admin, &CreateDeviceRequest{DeviceNo: " A-01 ", Model: testutil.Ptr("Oscilloscope"), RentalPrice: 12.5})
	require.NoError(t, err)
	assert.Equal(t, "A-01", device.DeviceNo)
	assert.Equal(t, models.DeviceIdle, device.Status)

	_, err = svc.Create(ctx, admin, &CreateDeviceRequest{DeviceNo: "A-01"})
	assertCode(t, err, CodeConflict)

	_, err = svc.Create(ctx, admin, &CreateDeviceRequest{DeviceNo: "A-02", RentalPrice: -1})
	assertCode(t, err, CodeValidation)

	maintenance := models.DeviceMaintenance
	updated, err := svc.Update(ctx, admin, device.ID, &UpdateDeviceRequest{Status: &maintenance, RentalPrice: testutil.Ptr(20.0)})
	require.NoError(t, err)
	assert.Equal(t, models.DeviceMaintenance, updated.Status)
	assert.Equal(t, 20.0, updated.RentalPrice)
	assert.Equal(t, []events.EventType{events.DeviceStatusChanged}, env.publisher.Types())

	_, err = svc.Update(ctx, admin, device.ID, &UpdateDeviceRequest{RentalPrice: testutil.Ptr(25.0)})
	require.NoError(t, err)
	assert.Len(t, env.publisher.Types(), 1, "no status change, no event")

	got, err := svc.Get(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, 25.0, got.RentalPrice)

	_, err = svc.Get(ctx, 999)
	assertCode(t, err, CodeNotFound)

	list, err := svc.List(ctx, DeviceListQuery{Status: &maintenance})
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Total)
}

func TestDeviceService_DeleteBlockedByActiveReservations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Device()

	admin := env.fx.Staff("admin", models.RoleAdmin)
	owner := env.fx.Teacher("T001")
	busy := env.fx.Device("A-01", models.DeviceIdle, 0)
	free := env.fx.Device("A-02", models.DeviceIdle, 0)

	env.fx.Reservation(busy, owner, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationApproved)
	env.fx.Reservation(free, owner, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationCompleted)

	err := svc.Delete(ctx, admin, busy.ID)
	assertCode(t, err, CodeConflict)

	err = svc.Delete(ctx, owner, free.ID)
	assertCode(t, err, CodePermissionDenied)

	require.NoError(t, svc.Delete(ctx, admin, free.ID))

	_, err = svc.Get(ctx, free.ID)
	assertCode(t, err, CodeNotFound)

	err = svc.Delete(ctx, admin, free.ID)
	assertCode(t, err, CodeNotFound)
}

func TestDeviceService_Availability(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Device()
	reservations := env.services.Reservation()

	owner := env.fx.Teacher("T001")
	booked := env.fx.Device("A-01", models.DeviceIdle, 0)
	free := env.fx.Device("A-02", models.DeviceIdle, 0)
	env.fx.Device("B-01", models.DeviceMaintenance, 0)
	env.fx.Device("C-01", models.DeviceScrapped, 0)
	env.fx.Reservation(booked, owner, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationApproved)
	env.fx.Reservation(free, owner, testutil.Day(9, 0), testutil.Day(10, 0), models.ReservationRejected)

	page, err := svc.Availability(ctx, &AvailabilityQuery{Date: "2025-06-01", Slot: "09:30-11:00"})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.True(t, testutil.Day(9, 30).Equal(page.StartTime))

	labels := make(map[string]string, len(page.Items))
	for _, item := range page.Items {
		labels[item.DeviceNo] = item.Status
	}
	assert.Equal(t, map[string]string{
		"A-01": availability.LabelOccupied.Status,
		"A-02": availability.LabelAvailable.Status,
		"B-01": availability.LabelMaintenance.Status,
		"C-01": availability.LabelRetired.Status,
	}, labels)

	page, err = svc.Availability(ctx, &AvailabilityQuery{Date: "2025-06-01", Slot: "10:00-11:00", Zone: "a"})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, item := range page.Items {
		assert.Equal(t, availability.LabelAvailable.Status, item.Status, item.DeviceNo)
		assert.Equal(t, "A区", item.Zone)
	}

	// A new booking must show up even though the page above was cached.
	_, err = reservations.Create(ctx, owner, reserve(free.ID, 10, 11))
	require.NoError(t, err)

	page, err = svc.Availability(ctx, &AvailabilityQuery{Date: "2025-06-01", Slot: "10:00-11:00", Zone: "a"})
	require.NoError(t, err)
	for _, item := range page.Items {
		if item.DeviceNo == "A-02" {
			assert.Equal(t, availability.LabelOccupied.Status, item.Status)
		}
	}

	_, err = svc.Availability(ctx, &AvailabilityQuery{Date: "2025-06-01", Slot: "11:00-10:00"})
	assertCode(t, err, CodeInvalidRequest)

	_, err = svc.Availability(ctx, &AvailabilityQuery{Date: "06/01/2025", Slot: "10:00-11:00"})
	assertCode(t, err, CodeInvalidRequest)
}

func TestDeviceService_Stats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.services.Device()

	admin := env.fx.Staff("admin", models.RoleAdmin)
	env.fx.Device("A-01", models.DeviceIdle, 10)
	env.fx.Device("A-02", models.DeviceMaintenance, 5)

	stats, err := svc.Stats(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.ByStatus[models.DeviceIdle])
	assert.EqualValues(t, 0, stats.ByStatus[models.DeviceInUse])
	assert.Equal(t, 15.0, stats.TotalRentalValue)

	_, err = svc.Stats(ctx, env.fx.Teacher("T001"))
	assertCode(t, err, CodePermissionDenied)
}
