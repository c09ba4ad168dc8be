package models

import (
	"time"
)

type DeviceStatus string

const (
	DeviceIdle        DeviceStatus = "idle"
	DeviceInUse       DeviceStatus = "in_use"
	DeviceMaintenance DeviceStatus = "maintenance"
	DeviceScrapped    DeviceStatus = "scrapped"
)

// AllDeviceStatuses lists every device status in display order.
var AllDeviceStatuses = []DeviceStatus{DeviceIdle, DeviceInUse, DeviceMaintenance, DeviceScrapped}

func (s DeviceStatus) IsValid() bool {
	switch s {
	case DeviceIdle, DeviceInUse, DeviceMaintenance, DeviceScrapped:
		return true
	}
	return false
}

// Reservable reports whether new reservations may be placed on a device in this status.
func (s DeviceStatus) Reservable() bool {
	switch s {
	case DeviceIdle, DeviceInUse:
		return true
	case DeviceMaintenance, DeviceScrapped:
		return false
	}
	return false
}

type Device struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	DeviceNo     string       `json:"device_no" gorm:"not null;size:64;uniqueIndex"`
	Model        *string      `json:"model" gorm:"size:128"`
	PurchaseDate *time.Time   `json:"purchase_date" gorm:"type:date"`
	Manufacturer *string      `json:"manufacturer" gorm:"size:128"`
	Usage        *string      `json:"usage" gorm:"type:text"`
	RentalPrice  float64      `json:"rental_price" gorm:"not null;default:0"`
	Status       DeviceStatus `json:"status" gorm:"not null;size:16;default:idle;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Device) TableName() string {
	return "devices"
}
