// Package testutil builds in-memory stores and fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
	"github.com/SAP-F-2025/lab-reservation-service/pkg"
)

// NewTestDB opens a migrated in-memory sqlite database private to t. The pool
// is limited to one connection so every query sees the same memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, pkg.Migrate(db))
	return db
}

func Ptr[T any](v T) *T { return &v }

// Fixture inserts related records with predictable values.
type Fixture struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	return &Fixture{t: t, db: db}
}

func (f *Fixture) create(v any) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

func (f *Fixture) Staff(account string, role models.UserRole) *models.User {
	u := &models.User{Account: account, Role: role, Name: account, IsActive: true}
	f.create(u)
	return u
}

func (f *Fixture) Teacher(teacherNo string) *models.User {
	u := &models.User{
		Account:      teacherNo,
		Role:         models.RoleBorrower,
		BorrowerType: Ptr(models.BorrowerTeacher),
		Name:         "teacher " + teacherNo,
		TeacherNo:    Ptr(teacherNo),
		College:      Ptr("Physics"),
		IsActive:     true,
	}
	f.create(u)
	return u
}

func (f *Fixture) Student(studentNo, advisorNo string) *models.User {
	u := &models.User{
		Account:      studentNo,
		Role:         models.RoleBorrower,
		BorrowerType: Ptr(models.BorrowerStudent),
		Name:         "student " + studentNo,
		StudentNo:    Ptr(studentNo),
		AdvisorNo:    Ptr(advisorNo),
		College:      Ptr("Physics"),
		IsActive:     true,
	}
	f.create(u)
	return u
}

func (f *Fixture) External(contact string) *models.User {
	u := &models.User{
		Account:      contact,
		Role:         models.RoleBorrower,
		BorrowerType: Ptr(models.BorrowerExternal),
		Name:         "external " + contact,
		Contact:      Ptr(contact),
		OrgName:      Ptr("Acme"),
		IsActive:     true,
	}
	f.create(u)
	return u
}

func (f *Fixture) Device(deviceNo string, status models.DeviceStatus, price float64) *models.Device {
	d := &models.Device{DeviceNo: deviceNo, Model: Ptr("M-" + deviceNo), Status: status, RentalPrice: price}
	f.create(d)
	return d
}

// Reservation inserts a reservation directly, bypassing workflow rules.
func (f *Fixture) Reservation(device *models.Device, owner *models.User, start, end time.Time, status models.ReservationStatus) *models.Reservation {
	r := &models.Reservation{
		DeviceID:      device.ID,
		UserID:        owner.ID,
		StartTime:     start.UTC(),
		EndTime:       end.UTC(),
		Status:        status,
		PaymentStatus: models.PaymentNotRequired,
	}
	if status.InApproval() {
		r.CurrentStep = Ptr(models.StepAdmin)
	}
	f.create(r)
	return r
}

// Day returns hh:mm on 2025-06-01 UTC.
func Day(hh, mm int) time.Time {
	return time.Date(2025, 6, 1, hh, mm, 0, 0, time.UTC)
}
