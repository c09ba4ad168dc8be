package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

func TestParseSlot(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)

	tests := []struct {
		name    string
		date    string
		slot    string
		wantErr error
	}{
		{"ok", "2025-06-01", "09:00-10:00", nil},
		{"ok with spaces", "2025-06-01", " 09:00 - 10:00 ", nil},
		{"inverted", "2025-06-01", "10:00-09:00", ErrSlotRange},
		{"empty range", "2025-06-01", "10:00-10:00", ErrSlotRange},
		{"unparsable time", "2025-06-01", "0900-1000", ErrSlotTimeFormat},
		{"missing dash", "2025-06-01", "09:00", ErrSlotFormat},
		{"bad date", "2025/06/01", "09:00-10:00", ErrDateFormat},
		{"missing date", "", "09:00-10:00", ErrDateRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseSlot(tt.date, tt.slot, shanghai)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC), w.Start)
			assert.Equal(t, time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC), w.End)
			assert.Equal(t, time.UTC, w.Start.Location())
		})
	}
}

func at(hour int) time.Time {
	return time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC)
}

func TestEvaluate(t *testing.T) {
	devices := []models.Device{{ID: 1, DeviceNo: "A-100", Status: models.DeviceIdle}}
	booked := []models.Reservation{{DeviceID: 1, Status: models.ReservationEffective, StartTime: at(10), EndTime: at(12)}}

	t.Run("no reservations is available", func(t *testing.T) {
		items := Evaluate(Window{at(10), at(12)}, devices, nil)
		require.Len(t, items, 1)
		assert.Equal(t, "可用", items[0].Status)
		assert.Equal(t, "chip-good", items[0].StatusClass)
	})

	t.Run("overlap is occupied", func(t *testing.T) {
		items := Evaluate(Window{at(11), at(13)}, devices, booked)
		assert.Equal(t, "已占用", items[0].Status)
		assert.Equal(t, "chip-warn", items[0].StatusClass)
	})

	t.Run("touching boundary is available", func(t *testing.T) {
		items := Evaluate(Window{at(12), at(14)}, devices, booked)
		assert.Equal(t, "可用", items[0].Status)

		items = Evaluate(Window{at(8), at(10)}, devices, booked)
		assert.Equal(t, "可用", items[0].Status)
	})

	t.Run("inactive reservations do not occupy", func(t *testing.T) {
		for _, status := range []models.ReservationStatus{
			models.ReservationRejected, models.ReservationReturned, models.ReservationCompleted, models.ReservationCancelled,
		} {
			res := []models.Reservation{{DeviceID: 1, Status: status, StartTime: at(10), EndTime: at(12)}}
			items := Evaluate(Window{at(10), at(12)}, devices, res)
			assert.Equal(t, "可用", items[0].Status, status)
		}
	})

	t.Run("every active status occupies", func(t *testing.T) {
		for _, status := range models.ActiveReservationStatuses {
			res := []models.Reservation{{DeviceID: 1, Status: status, StartTime: at(10), EndTime: at(12)}}
			items := Evaluate(Window{at(9), at(11)}, devices, res)
			assert.Equal(t, "已占用", items[0].Status, status)
		}
	})

	t.Run("static status wins", func(t *testing.T) {
		maint := []models.Device{{ID: 2, DeviceNo: "B-1", Status: models.DeviceMaintenance}}
		items := Evaluate(Window{at(10), at(12)}, maint, nil)
		assert.Equal(t, "检修", items[0].Status)
		assert.Equal(t, "chip-alert", items[0].StatusClass)

		scrapped := []models.Device{{ID: 3, DeviceNo: "C-1", Status: models.DeviceScrapped}}
		items = Evaluate(Window{at(10), at(12)}, scrapped, nil)
		assert.Equal(t, "停用", items[0].Status)

		inUse := []models.Device{{ID: 4, DeviceNo: "X-1", Status: models.DeviceInUse}}
		items = Evaluate(Window{at(10), at(12)}, inUse, nil)
		assert.Equal(t, "已占用", items[0].Status)
	})

	t.Run("identical input gives identical output", func(t *testing.T) {
		w := Window{at(11), at(13)}
		assert.Equal(t, Evaluate(w, devices, booked), Evaluate(w, devices, booked))
	})
}

func TestZone(t *testing.T) {
	assert.Equal(t, "A区", Zone("a-001"))
	assert.Equal(t, "B区", Zone("B17"))
	assert.Equal(t, "C区", Zone(" C-9"))
	assert.Equal(t, "未知", Zone("D-1"))
	assert.Equal(t, "未知", Zone(""))
	assert.Equal(t, "A", ZonePrefix("A区"))
}

func TestItemText(t *testing.T) {
	model := "XR-7"
	maker := "Keysight"
	items := Evaluate(Window{at(1), at(2)}, []models.Device{
		{ID: 1, DeviceNo: "A-1", Model: &model, Manufacturer: &maker},
		{ID: 2, DeviceNo: "A-2"},
	}, nil)

	assert.Equal(t, "A-1 XR-7", items[0].Name)
	assert.Equal(t, "Keysight | 设备编号 A-1", items[0].Meta)
	assert.Equal(t, "A-2", items[1].Name)
	assert.Equal(t, "设备 | 设备编号 A-2", items[1].Meta)
}
