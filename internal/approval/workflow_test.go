package approval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/lab-reservation-service/internal/models"
)

func borrowerType(bt models.BorrowerType) *models.BorrowerType { return &bt }
func stepPtr(s models.ApprovalStep) *models.ApprovalStep       { return &s }
func strPtr(s string) *string                                  { return &s }

func TestInitial(t *testing.T) {
	tests := []struct {
		name    string
		bt      *models.BorrowerType
		step    models.ApprovalStep
		payment models.PaymentStatus
	}{
		{"student goes to advisor", borrowerType(models.BorrowerStudent), models.StepAdvisor, models.PaymentNotRequired},
		{"external pays", borrowerType(models.BorrowerExternal), models.StepAdmin, models.PaymentPending},
		{"teacher goes to admin", borrowerType(models.BorrowerTeacher), models.StepAdmin, models.PaymentNotRequired},
		{"no borrower type", nil, models.StepAdmin, models.PaymentNotRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Initial(tt.bt)
			assert.Equal(t, tt.step, got.Step)
			assert.Equal(t, tt.payment, got.Payment)
		})
	}
}

func TestNext(t *testing.T) {
	all := []*models.BorrowerType{
		borrowerType(models.BorrowerStudent),
		borrowerType(models.BorrowerExternal),
		borrowerType(models.BorrowerTeacher),
		nil,
	}

	t.Run("advisor step is independent of borrower type", func(t *testing.T) {
		for _, bt := range all {
			got := Next(models.ReservationPending, stepPtr(models.StepAdvisor), bt)
			require.NotNil(t, got)
			assert.Equal(t, models.ReservationAdvisorApproved, got.Status)
			require.NotNil(t, got.CurrentStep)
			assert.Equal(t, models.StepAdmin, *got.CurrentStep)
		}
	})

	t.Run("admin step branches on external", func(t *testing.T) {
		got := Next(models.ReservationPending, stepPtr(models.StepAdmin), borrowerType(models.BorrowerExternal))
		require.NotNil(t, got)
		assert.Equal(t, models.ReservationAdminApproved, got.Status)
		assert.Equal(t, models.StepHead, *got.CurrentStep)

		for _, bt := range []*models.BorrowerType{borrowerType(models.BorrowerStudent), borrowerType(models.BorrowerTeacher), nil} {
			got := Next(models.ReservationAdvisorApproved, stepPtr(models.StepAdmin), bt)
			require.NotNil(t, got)
			assert.Equal(t, models.ReservationApproved, got.Status)
			assert.Equal(t, models.StepFinal, *got.CurrentStep)
		}
	})

	t.Run("head, payment and final", func(t *testing.T) {
		ext := borrowerType(models.BorrowerExternal)

		got := Next(models.ReservationAdminApproved, stepPtr(models.StepHead), ext)
		assert.Equal(t, models.ReservationHeadApproved, got.Status)
		assert.Equal(t, models.StepPayment, *got.CurrentStep)

		got = Next(models.ReservationHeadApproved, stepPtr(models.StepPayment), ext)
		assert.Equal(t, models.ReservationApproved, got.Status)
		assert.Equal(t, models.StepFinal, *got.CurrentStep)

		got = Next(models.ReservationPending, stepPtr(models.StepFinal), ext)
		assert.Equal(t, models.ReservationApproved, got.Status)
		assert.Nil(t, got.CurrentStep)
	})

	t.Run("undefined outside approval statuses", func(t *testing.T) {
		for _, status := range models.AllReservationStatuses {
			if status.InApproval() {
				continue
			}
			for _, step := range []models.ApprovalStep{models.StepAdvisor, models.StepAdmin, models.StepHead, models.StepPayment, models.StepFinal} {
				assert.Nil(t, Next(status, stepPtr(step), nil), "status %s step %s", status, step)
			}
		}
		assert.Nil(t, Next(models.ReservationPending, nil, nil))
	})
}

func newUsers() (admin, head, teacher, student, stranger, external *models.User) {
	admin = &models.User{ID: 1, Role: models.RoleAdmin}
	head = &models.User{ID: 2, Role: models.RoleHead}
	teacher = &models.User{ID: 3, Role: models.RoleBorrower, BorrowerType: borrowerType(models.BorrowerTeacher), TeacherNo: strPtr("T001")}
	student = &models.User{ID: 4, Role: models.RoleBorrower, BorrowerType: borrowerType(models.BorrowerStudent), StudentNo: strPtr("S001"), AdvisorNo: strPtr("T001")}
	stranger = &models.User{ID: 5, Role: models.RoleBorrower, BorrowerType: borrowerType(models.BorrowerTeacher), TeacherNo: strPtr("T999")}
	external = &models.User{ID: 6, Role: models.RoleBorrower, BorrowerType: borrowerType(models.BorrowerExternal)}
	return
}

func submitted(owner *models.User) *models.Reservation {
	a := Initial(owner.BorrowerType)
	return &models.Reservation{
		ID:            10,
		UserID:        owner.ID,
		Status:        models.ReservationPending,
		CurrentStep:   &a.Step,
		PaymentStatus: a.Payment,
		PaymentAmount: 50,
	}
}

func TestApprove_StudentPath(t *testing.T) {
	admin, _, teacher, student, stranger, _ := newUsers()
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	r := submitted(student)

	_, err := Approve(r, stranger, student, nil, now)
	assert.ErrorIs(t, err, ErrNotApprover)

	out, err := Approve(r, teacher, student, strPtr("ok"), now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, out.From)
	assert.Equal(t, models.ReservationAdvisorApproved, r.Status)
	assert.Equal(t, models.StepAdmin, *r.CurrentStep)
	assert.Equal(t, teacher.ID, *r.AdvisorID)
	assert.Equal(t, "ok", *r.AdvisorComment)

	_, err = Approve(r, teacher, student, nil, now)
	assert.ErrorIs(t, err, ErrNotApprover, "advisor cannot decide the admin step")

	_, err = Approve(r, admin, student, nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationApproved, r.Status)
	assert.Nil(t, r.CurrentStep)
	assert.Equal(t, admin.ID, *r.ApproverID)

	_, err = Approve(r, admin, student, nil, now)
	assert.ErrorIs(t, err, ErrNotInApproval)
}

func TestApprove_ExternalPathRequiresPayment(t *testing.T) {
	admin, head, _, _, _, external := newUsers()
	now := time.Now()
	r := submitted(external)

	_, err := Approve(r, admin, external, nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationAdminApproved, r.Status)

	_, err = Approve(r, head, external, strPtr("fine"), now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationHeadApproved, r.Status)
	assert.Equal(t, models.StepPayment, *r.CurrentStep)
	assert.Equal(t, head.ID, *r.HeadID)

	_, err = Approve(r, admin, external, nil, now)
	assert.ErrorIs(t, err, ErrPaymentOutstanding)

	_, err = ConfirmPayment(r, external, "PAY-1", now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, r.PaymentStatus)

	_, err = Approve(r, admin, external, nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationApproved, r.Status)
	assert.Nil(t, r.CurrentStep)

	_, err = Activate(r, admin)
	require.NoError(t, err)
	_, err = Borrow(r, admin, strPtr("handed over"), now)
	require.NoError(t, err)
	_, err = Complete(r, admin, nil, now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCompleted, r.Status)
	assert.True(t, r.Status.IsTerminal())
}

func TestRejectAndReturn(t *testing.T) {
	admin, _, teacher, student, _, _ := newUsers()
	now := time.Now()

	r := submitted(student)
	out, err := Reject(r, teacher, student, strPtr("no"), now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationRejected, out.To)
	assert.Nil(t, r.CurrentStep)

	_, err = Reject(r, admin, student, nil, now)
	assert.ErrorIs(t, err, ErrNotInApproval)

	r = submitted(student)
	_, err = Return(r, admin, student, strPtr("add details"), now)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationReturned, r.Status)

	_, err = Resubmit(r, admin, student)
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = Resubmit(r, student, student)
	require.NoError(t, err)
	assert.Equal(t, models.ReservationPending, r.Status)
	assert.Equal(t, models.StepAdvisor, *r.CurrentStep)
}

func TestRefund(t *testing.T) {
	admin, _, _, _, _, external := newUsers()
	now := time.Now()
	r := submitted(external)

	_, err := Refund(r, admin, now)
	assert.ErrorIs(t, err, ErrRefundNotApplicable)

	_, err = ConfirmPayment(r, external, "PAY-2", now)
	require.NoError(t, err)
	r.Status = models.ReservationCancelled

	_, err = Refund(r, external, now)
	assert.ErrorIs(t, err, ErrStaffOnly)

	_, err = Refund(r, admin, now)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentRefunded, r.PaymentStatus)
	assert.Equal(t, 50.0, *r.RefundAmount)
}
