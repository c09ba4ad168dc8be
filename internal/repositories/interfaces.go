package repositories

import (
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role         *models.UserRole     `json:"role"`
	BorrowerType *models.BorrowerType `json:"borrower_type"`
	Keyword      string               `json:"keyword"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

type DeviceFilters struct {
	Status     *models.DeviceStatus `json:"status"`
	Keyword    string               `json:"keyword"`     // device_no, model or manufacturer
	ZonePrefix string               `json:"zone_prefix"` // leading letter of device_no
	Limit      int                  `json:"limit"`
	Offset     int                  `json:"offset"`
}

type ReservationFilters struct {
	Status   *models.ReservationStatus `json:"status"`
	DeviceID *uint                     `json:"device_id"`
	// UserIDs restricts results to reservations owned by these users.
	// Nil means no restriction; an empty slice matches nothing.
	UserIDs []uint `json:"user_ids"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ReservationSummary struct {
	Total              int64                              `json:"total"`
	ByStatus           map[models.ReservationStatus]int64 `json:"by_status"`
	ByPaymentStatus    map[models.PaymentStatus]int64     `json:"by_payment_status"`
	TotalPaymentAmount float64                            `json:"total_payment_amount"`
}

type DeviceStats struct {
	Total            int64                         `json:"total"`
	ByStatus         map[models.DeviceStatus]int64 `json:"by_status"`
	TotalRentalValue float64                       `json:"total_rental_value"`
}

type ReportSummary struct {
	TotalReservations int64   `json:"total_reservations"`
	Completed         int64   `json:"completed"`
	Cancelled         int64   `json:"cancelled"`
	Borrowed          int64   `json:"borrowed"`
	TotalPayment      float64 `json:"total_payment"`
}

// Period is a half-open creation-time range used by periodic reports.
type Period struct {
	From time.Time
	To   time.Time
}
