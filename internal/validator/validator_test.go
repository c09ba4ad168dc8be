package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

func strPtr(s string) *string { return &s }

func TestValidateRegister(t *testing.T) {
	bv := New().GetBusinessValidator()

	tests := []struct {
		name   string
		req    RegisterRequest
		fields []string
	}{
		{
			name: "teacher complete",
			req: RegisterRequest{BorrowerType: models.BorrowerTeacher, Name: "T", Contact: "t@lab.edu",
				TeacherNo: strPtr("T001"), College: strPtr("Physics")},
		},
		{
			name:   "teacher missing number and college",
			req:    RegisterRequest{BorrowerType: models.BorrowerTeacher, Name: "T", Contact: "t@lab.edu"},
			fields: []string{"teacher_no", "college"},
		},
		{
			name:   "student missing advisor",
			req:    RegisterRequest{BorrowerType: models.BorrowerStudent, Name: "S", Contact: "s@lab.edu", StudentNo: strPtr("S1"), College: strPtr("Physics")},
			fields: []string{"advisor_no"},
		},
		{
			name:   "external missing org",
			req:    RegisterRequest{BorrowerType: models.BorrowerExternal, Name: "E", Contact: "13800000000"},
			fields: []string{"org_name"},
		},
		{
			name:   "unknown borrower type",
			req:    RegisterRequest{BorrowerType: "alien", Name: "X", Contact: "x@x.x"},
			fields: []string{"borrower_type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateRegister(&tt.req)
			got := make([]string, 0, len(errs))
			for _, e := range errs {
				got = append(got, e.Field)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}

func TestValidateUsesJSONNames(t *testing.T) {
	v := New()
	err := v.Validate(&CreateDeviceRequest{RentalPrice: -1})
	require.Error(t, err)

	var fields []string
	for _, e := range err.(ValidationErrors) {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"device_no", "rental_price"}, fields)
}

func TestValidateReservationWindow(t *testing.T) {
	bv := New().GetBusinessValidator()
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	assert.Empty(t, bv.ValidateReservationWindow(start, start.Add(time.Hour)))
	assert.Len(t, bv.ValidateReservationWindow(start, start), 1)
	assert.Len(t, bv.ValidateReservationWindow(start.Add(time.Hour), start), 1)
}
