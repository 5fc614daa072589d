package lending

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLoan(t *testing.T) *Loan {
	t.Helper()
	l, err := NewLoan(uuid.New(), nil, decimal.NewFromInt(300000), 360, "home purchase")
	require.NoError(t, err)
	return l
}

func TestNewLoanValidation(t *testing.T) {
	_, err := NewLoan(uuid.Nil, nil, decimal.NewFromInt(1), 12, "")
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewLoan(uuid.New(), nil, decimal.Zero, 12, "")
	assertDomainCode(t, err, "INVALID_AMOUNT")

	_, err = NewLoan(uuid.New(), nil, decimal.NewFromInt(1), 0, "")
	assertDomainCode(t, err, "INVALID_TERM")

	_, err = NewLoan(uuid.New(), nil, decimal.NewFromInt(1), 481, "")
	assertDomainCode(t, err, "INVALID_TERM")
}

func TestLoanHappyPath(t *testing.T) {
	l := newTestLoan(t)
	assert.Equal(t, LoanStatusDraft, l.Status)

	require.NoError(t, l.Submit())
	assert.NotNil(t, l.SubmittedAt)

	reviewer := uuid.New()
	require.NoError(t, l.StartReview(reviewer))
	assert.Equal(t, &reviewer, l.ReviewerID)

	require.NoError(t, l.Approve(decimal.NewFromFloat(6.5)))
	assert.Equal(t, LoanStatusApproved, l.Status)
	assert.True(t, l.MonthlyPayment.IsPositive())

	require.NoError(t, l.Disburse())
	assert.Equal(t, LoanStatusActive, l.Status)
	assert.True(t, l.Outstanding.Equal(l.Principal))

	require.NoError(t, l.ApplyPayment(decimal.NewFromInt(100000)))
	require.NoError(t, l.ApplyPayment(decimal.NewFromInt(200000)))
	assert.Equal(t, LoanStatusPaidOff, l.Status)
	assert.NotNil(t, l.ClosedAt)
	assert.True(t, l.Outstanding.IsZero())
}

func TestLoanInvalidTransitions(t *testing.T) {
	l := newTestLoan(t)

	assertDomainCode(t, l.StartReview(uuid.New()), "INVALID_STATE")
	assertDomainCode(t, l.Approve(decimal.NewFromInt(5)), "INVALID_STATE")
	assertDomainCode(t, l.Disburse(), "INVALID_STATE")
	assertDomainCode(t, l.ApplyPayment(decimal.NewFromInt(1)), "INVALID_STATE")

	require.NoError(t, l.Submit())
	assertDomainCode(t, l.Submit(), "INVALID_STATE")
	assertDomainCode(t, l.StartReview(uuid.Nil), "INVALID_INPUT")
}

func TestLoanRejectAndCancel(t *testing.T) {
	l := newTestLoan(t)
	require.NoError(t, l.Submit())
	require.NoError(t, l.Reject("insufficient income"))
	assert.Equal(t, LoanStatusRejected, l.Status)
	assert.Equal(t, "insufficient income", l.RejectReason)
	assertDomainCode(t, l.Cancel(), "INVALID_STATE")

	l = newTestLoan(t)
	require.NoError(t, l.Submit())
	require.NoError(t, l.StartReview(uuid.New()))
	require.NoError(t, l.Approve(decimal.NewFromInt(5)))
	require.NoError(t, l.Cancel())
	assert.Equal(t, LoanStatusCancelled, l.Status)

	// active loans cannot be cancelled
	l = newTestLoan(t)
	require.NoError(t, l.Submit())
	require.NoError(t, l.StartReview(uuid.New()))
	require.NoError(t, l.Approve(decimal.NewFromInt(5)))
	require.NoError(t, l.Disburse())
	assertDomainCode(t, l.Cancel(), "INVALID_STATE")
}

func TestApplyPaymentBounds(t *testing.T) {
	l := newTestLoan(t)
	require.NoError(t, l.Submit())
	require.NoError(t, l.StartReview(uuid.New()))
	require.NoError(t, l.Approve(decimal.NewFromInt(5)))
	require.NoError(t, l.Disburse())

	assertDomainCode(t, l.ApplyPayment(decimal.Zero), "INVALID_AMOUNT")
	assertDomainCode(t, l.ApplyPayment(l.Principal.Add(decimal.NewFromInt(1))), "INVALID_AMOUNT")
}

func TestAmortizedPayment(t *testing.T) {
	// 300000 at 6% over 360 months is roughly 1798.65
	m := AmortizedPayment(decimal.NewFromInt(300000), decimal.NewFromInt(6), 360)
	assert.True(t, m.GreaterThan(decimal.NewFromInt(1798)), m.String())
	assert.True(t, m.LessThan(decimal.NewFromInt(1800)), m.String())

	// zero rate divides evenly
	m = AmortizedPayment(decimal.NewFromInt(12000), decimal.Zero, 12)
	assert.True(t, m.Equal(decimal.NewFromInt(1000)))

	assert.True(t, AmortizedPayment(decimal.NewFromInt(1), decimal.NewFromInt(1), 0).IsZero())
}
