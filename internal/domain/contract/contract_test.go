package contract

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

func TestNewSaleContractValidation(t *testing.T) {
	party := uuid.New()
	price := decimal.NewFromInt(400000)

	_, err := NewSaleContract(uuid.Nil, uuid.New(), uuid.New(), uuid.New(), nil, price)
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewSaleContract(uuid.New(), party, party, uuid.New(), nil, price)
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewSaleContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, decimal.Zero)
	assertDomainCode(t, err, "INVALID_PRICE")
}

func TestSaleContractLifecycle(t *testing.T) {
	c, err := NewSaleContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, decimal.NewFromInt(400000))
	require.NoError(t, err)
	assert.Equal(t, SaleContractStatusDraft, c.Status)

	require.NoError(t, c.AttachDocument("contracts/2026/abc.pdf"))
	assertDomainCode(t, c.AttachDocument(""), "INVALID_INPUT")

	require.NoError(t, c.Sign())
	assert.NotNil(t, c.SignedAt)
	assertDomainCode(t, c.Sign(), "INVALID_STATE")
	assertDomainCode(t, c.Cancel(), "INVALID_STATE")

	c2, err := NewSaleContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), nil, decimal.NewFromInt(1))
	require.NoError(t, err)
	require.NoError(t, c2.Cancel())
	assert.Equal(t, SaleContractStatusCancelled, c2.Status)
}

func newTestLease(t *testing.T) *RentalContract {
	t.Helper()
	start := time.Now()
	c, err := NewRentalContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(1800), decimal.NewFromInt(3600), start, start.AddDate(1, 0, 0))
	require.NoError(t, err)
	return c
}

func TestNewRentalContractValidation(t *testing.T) {
	start := time.Now()
	rent := decimal.NewFromInt(1800)

	_, err := NewRentalContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), decimal.Zero, decimal.Zero, start, start.AddDate(1, 0, 0))
	assertDomainCode(t, err, "INVALID_PRICE")

	_, err = NewRentalContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), rent, decimal.NewFromInt(-1), start, start.AddDate(1, 0, 0))
	assertDomainCode(t, err, "INVALID_PRICE")

	_, err = NewRentalContract(uuid.New(), uuid.New(), uuid.New(), uuid.New(), rent, decimal.Zero, start, start)
	assertDomainCode(t, err, "INVALID_PERIOD")
}

func TestRentalContractLifecycle(t *testing.T) {
	c := newTestLease(t)

	assertDomainCode(t, c.Terminate(), "INVALID_STATE")
	require.NoError(t, c.Sign())
	assert.Equal(t, RentalContractStatusActive, c.Status)

	assertDomainCode(t, c.MarkExpired(time.Now()), "INVALID_STATE")
	require.NoError(t, c.MarkExpired(c.EndDate.Add(time.Hour)))
	assert.Equal(t, RentalContractStatusExpired, c.Status)

	c2 := newTestLease(t)
	require.NoError(t, c2.Sign())
	require.NoError(t, c2.Terminate())
	assert.Equal(t, RentalContractStatusTerminated, c2.Status)
	assert.NotNil(t, c2.TerminatedAt)
}
