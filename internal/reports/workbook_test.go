package reports

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

func TestRender(t *testing.T) {
	start := time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC)
	rows := []*models.Reservation{
		{
			ID: 3, DeviceID: 9, UserID: 4,
			StartTime: start, EndTime: start.Add(2 * time.Hour),
			Status: models.ReservationCompleted, PaymentStatus: models.PaymentPaid, PaymentAmount: 120,
		},
	}

	buf, err := Render(Monthly, rows, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"月报"}, f.GetSheetList())

	got, err := f.GetRows("月报")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"预约ID", "设备ID", "用户ID", "开始时间", "结束时间", "状态", "支付状态", "金额"}, got[0])
	assert.Equal(t, []string{"3", "9", "4", "2025-06-02 01:00", "2025-06-02 03:00", "completed", "paid", "120"}, got[1])
}

func TestRender_EmptyLedger(t *testing.T) {
	buf, err := Render(Weekly, nil, time.UTC)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("周报")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestKind_Windows(t *testing.T) {
	// Wednesday
	now := time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		kind     Kind
		from, to time.Time
		summary  time.Time
	}{
		{Weekly, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), now.AddDate(0, 0, -7)},
		{Monthly, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			from, to := tt.kind.Window(now, time.UTC)
			assert.True(t, tt.from.Equal(from), "from %s", from)
			assert.True(t, tt.to.Equal(to), "to %s", to)
			assert.True(t, tt.summary.Equal(tt.kind.SummaryStart(now, time.UTC)))
		})
	}

	sunday := time.Date(2025, 6, 8, 23, 0, 0, 0, time.UTC)
	from, _ := Weekly.Window(sunday, time.UTC)
	assert.True(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).Equal(from))
}

func TestParseKindAndNames(t *testing.T) {
	k, ok := ParseKind("yearly")
	assert.True(t, ok)
	assert.Equal(t, Yearly, k)

	_, ok = ParseKind("daily")
	assert.False(t, ok)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "weekly_report_2025-06-01.xlsx", Weekly.FileName(day))
	assert.Equal(t, "实验设备年报_2025-06-01.xlsx", Yearly.DisplayName(day))
	assert.Equal(t, "reports/monthly/2025-06-01.xlsx", ArchiveKey(Monthly, day))
}

func TestMockArchiver(t *testing.T) {
	m := NewMockArchiver()
	key, err := m.Archive(context.Background(), "reports/weekly/x.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, "reports/weekly/x.xlsx", key)
	assert.Equal(t, []string{key}, m.Keys())

	key, err = NoopArchiver{}.Archive(context.Background(), "k", nil)
	require.NoError(t, err)
	assert.Empty(t, key)
}
