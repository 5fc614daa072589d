package org

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realty/backend/internal/domain/shared"
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.Code)
}

func TestNewBranch(t *testing.T) {
	b, err := NewBranch("  spr-01 ", "Springfield Office", "Springfield")
	require.NoError(t, err)
	assert.Equal(t, "SPR-01", b.Code)
	assert.True(t, b.Enabled)
	assert.False(t, b.IsDefault)

	_, err = NewBranch("", "n", "c")
	assertDomainCode(t, err, "INVALID_CODE")

	_, err = NewBranch("C", "", "c")
	assertDomainCode(t, err, "INVALID_NAME")
}

func TestBranchEnableDisable(t *testing.T) {
	b, err := NewBranch("A", "Alpha", "Springfield")
	require.NoError(t, err)

	assertDomainCode(t, b.Enable(), "INVALID_STATE")
	require.NoError(t, b.Disable())
	assertDomainCode(t, b.Disable(), "INVALID_STATE")
	assertDomainCode(t, b.MarkDefault(), "INVALID_STATE")

	require.NoError(t, b.Enable())
	require.NoError(t, b.MarkDefault())
	assertDomainCode(t, b.Disable(), "INVALID_STATE")

	b.UnmarkDefault()
	require.NoError(t, b.Disable())
}

func newTestEmployee(t *testing.T) *Employee {
	t.Helper()
	e, err := NewEmployee(uuid.New(), uuid.New(), "Loan Officer", decimal.NewFromInt(5200), time.Now())
	require.NoError(t, err)
	return e
}

func TestNewEmployeeValidation(t *testing.T) {
	_, err := NewEmployee(uuid.Nil, uuid.New(), "p", decimal.NewFromInt(1), time.Now())
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewEmployee(uuid.New(), uuid.New(), "", decimal.NewFromInt(1), time.Now())
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewEmployee(uuid.New(), uuid.New(), "p", decimal.Zero, time.Now())
	assertDomainCode(t, err, "INVALID_SALARY")
}

func TestEmployeeLifecycle(t *testing.T) {
	e := newTestEmployee(t)

	require.NoError(t, e.Promote("Senior Loan Officer", decimal.NewFromInt(6100)))
	assert.Equal(t, "Senior Loan Officer", e.Position)

	require.NoError(t, e.StartLeave())
	assertDomainCode(t, e.StartLeave(), "INVALID_STATE")
	require.NoError(t, e.EndLeave())

	newBranch := uuid.New()
	require.NoError(t, e.Transfer(newBranch))
	assert.Equal(t, newBranch, e.BranchID)

	require.NoError(t, e.Terminate(time.Now()))
	assertDomainCode(t, e.Terminate(time.Now()), "INVALID_STATE")
	assertDomainCode(t, e.Transfer(uuid.New()), "INVALID_STATE")
	assertDomainCode(t, e.Promote("x", decimal.NewFromInt(1)), "INVALID_STATE")
}

func TestNewPayroll(t *testing.T) {
	p, err := NewPayroll(uuid.New(), "2026-08", decimal.NewFromInt(5200), decimal.NewFromInt(900), decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, p.Net.Equal(decimal.NewFromInt(4600)))
	assert.Equal(t, PayrollStatusDraft, p.Status)

	_, err = NewPayroll(uuid.New(), "August 2026", decimal.NewFromInt(1), decimal.Zero, decimal.Zero)
	assertDomainCode(t, err, "INVALID_PERIOD")

	_, err = NewPayroll(uuid.New(), "2026-08", decimal.NewFromInt(100), decimal.NewFromInt(200), decimal.Zero)
	assertDomainCode(t, err, "INVALID_AMOUNT")
}

func TestPayrollApproveAndPay(t *testing.T) {
	p, err := NewPayroll(uuid.New(), "2026-08", decimal.NewFromInt(5200), decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assertDomainCode(t, p.MarkPaid(time.Now()), "INVALID_STATE")
	assertDomainCode(t, p.Approve(uuid.Nil), "INVALID_INPUT")

	approver := uuid.New()
	require.NoError(t, p.Approve(approver))
	assert.Equal(t, &approver, p.ApprovedBy)
	assertDomainCode(t, p.Approve(approver), "INVALID_STATE")

	require.NoError(t, p.MarkPaid(time.Now()))
	assert.Equal(t, PayrollStatusPaid, p.Status)
	assert.NotNil(t, p.PaidAt)
}
