// Package availability decides, for a snapshot of devices and reservations,
// which devices are free in a half-open time window and how to label them.
package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

var (
	ErrDateRequired   = errors.New("date is required")
	ErrSlotFormat     = errors.New("slot must be formatted as HH:MM-HH:MM")
	ErrDateFormat     = errors.New("date must be formatted as YYYY-MM-DD")
	ErrSlotTimeFormat = errors.New("slot time must be formatted as HH:MM")
	ErrSlotRange      = errors.New("slot time range invalid")
)

// Window is a half-open UTC interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether [start, end) intersects w.
func (w Window) Overlaps(start, end time.Time) bool {
	return start.Before(w.End) && end.After(w.Start)
}

// ParseSlot combines a YYYY-MM-DD date with an "HH:MM-HH:MM" slot in loc and
// returns the window in UTC. A nil loc means time.Local.
func ParseSlot(date, slot string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	date = strings.TrimSpace(date)
	if date == "" {
		return Window{}, ErrDateRequired
	}
	if slot == "" || !strings.Contains(slot, "-") {
		return Window{}, ErrSlotFormat
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return Window{}, ErrDateFormat
	}

	startRaw, endRaw, _ := strings.Cut(slot, "-")
	startClock, err := time.Parse("15:04", strings.TrimSpace(startRaw))
	if err != nil {
		return Window{}, ErrSlotTimeFormat
	}
	endClock, err := time.Parse("15:04", strings.TrimSpace(endRaw))
	if err != nil {
		return Window{}, ErrSlotTimeFormat
	}
	if !startClock.Before(endClock) {
		return Window{}, ErrSlotRange
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), startClock.Hour(), startClock.Minute(), 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), endClock.Hour(), endClock.Minute(), 0, 0, loc)

	return Window{Start: start.UTC(), End: end.UTC()}, nil
}

// Label is the display state of a device in a window.
type Label struct {
	Status string `json:"status"`
	Class  string `json:"status_class"`
}

var (
	LabelMaintenance = Label{Status: "检修", Class: "chip-alert"}
	LabelRetired     = Label{Status: "停用", Class: "chip-neutral"}
	LabelOccupied    = Label{Status: "已占用", Class: "chip-warn"}
	LabelAvailable   = Label{Status: "可用", Class: "chip-good"}
)

// Resolve labels a device. Maintenance and retirement win over bookings.
func Resolve(device *models.Device, occupied bool) Label {
	switch device.Status {
	case models.DeviceMaintenance:
		return LabelMaintenance
	case models.DeviceScrapped:
		return LabelRetired
	case models.DeviceInUse:
		return LabelOccupied
	case models.DeviceIdle:
	}

	if occupied {
		return LabelOccupied
	}
	return LabelAvailable
}

// Zone derives the lab zone from the first letter of a device number.
func Zone(deviceNo string) string {
	prefix := ZonePrefix(deviceNo)
	switch prefix {
	case "A", "B", "C":
		return prefix + "区"
	}
	return "未知"
}

// ZonePrefix returns the upper-cased first character of s, or "" when s is blank.
func ZonePrefix(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0]))
}

// Occupied returns the ids of devices holding at least one occupying
// reservation that overlaps w.
func Occupied(w Window, reservations []models.Reservation) map[uint]bool {
	occupied := make(map[uint]bool)
	for i := range reservations {
		r := &reservations[i]
		if !r.Status.Occupies() {
			continue
		}
		if w.Overlaps(r.StartTime, r.EndTime) {
			occupied[r.DeviceID] = true
		}
	}
	return occupied
}

// Item is one row of the availability board.
type Item struct {
	ID          uint   `json:"id"`
	DeviceNo    string `json:"device_no"`
	Name        string `json:"name"`
	Meta        string `json:"meta"`
	Status      string `json:"status"`
	StatusClass string `json:"status_class"`
	Zone        string `json:"zone"`
}

// Evaluate builds board items for devices, in the given order.
func Evaluate(w Window, devices []models.Device, reservations []models.Reservation) []Item {
	occupied := Occupied(w, reservations)

	items := make([]Item, 0, len(devices))
	for i := range devices {
		d := &devices[i]
		label := Resolve(d, occupied[d.ID])
		items = append(items, Item{
			ID:          d.ID,
			DeviceNo:    d.DeviceNo,
			Name:        displayName(d),
			Meta:        fmt.Sprintf("%s | 设备编号 %s", metaSource(d), d.DeviceNo),
			Status:      label.Status,
			StatusClass: label.Class,
			Zone:        Zone(d.DeviceNo),
		})
	}
	return items
}

func displayName(d *models.Device) string {
	model := ""
	if d.Model != nil {
		model = *d.Model
	}
	return strings.TrimSpace(d.DeviceNo + " " + model)
}

func metaSource(d *models.Device) string {
	for _, s := range []*string{d.Manufacturer, d.Usage, d.Model} {
		if s != nil && *s != "" {
			return *s
		}
	}
	return "设备"
}
