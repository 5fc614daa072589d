package listing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOffer(t *testing.T) *Offer {
	t.Helper()
	o, err := NewOffer(uuid.New(), uuid.New(), decimal.NewFromInt(430000), "flexible on closing date", nil)
	require.NoError(t, err)
	return o
}

func TestNewOffer(t *testing.T) {
	o := newTestOffer(t)
	assert.Equal(t, OfferStatusPending, o.Status)
	assert.Nil(t, o.DecidedAt)
	assert.False(t, o.IsExpired())
}

func TestNewOfferValidation(t *testing.T) {
	past := time.Now().Add(-time.Hour)

	_, err := NewOffer(uuid.Nil, uuid.New(), decimal.NewFromInt(1), "", nil)
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewOffer(uuid.New(), uuid.New(), decimal.Zero, "", nil)
	assertDomainCode(t, err, "INVALID_AMOUNT")

	_, err = NewOffer(uuid.New(), uuid.New(), decimal.NewFromInt(1), "", &past)
	assertDomainCode(t, err, "INVALID_INPUT")
}

func TestOfferDecisions(t *testing.T) {
	o := newTestOffer(t)
	require.NoError(t, o.Accept())
	assert.Equal(t, OfferStatusAccepted, o.Status)
	assert.NotNil(t, o.DecidedAt)
	assertDomainCode(t, o.Accept(), "INVALID_STATE")
	assertDomainCode(t, o.Reject(), "INVALID_STATE")

	o = newTestOffer(t)
	require.NoError(t, o.Reject())
	assert.Equal(t, OfferStatusRejected, o.Status)

	o = newTestOffer(t)
	require.NoError(t, o.Withdraw())
	assert.Equal(t, OfferStatusWithdrawn, o.Status)
	assertDomainCode(t, o.Withdraw(), "INVALID_STATE")
}

func TestOfferExpiry(t *testing.T) {
	o := newTestOffer(t)
	assertDomainCode(t, o.MarkExpired(), "INVALID_STATE")

	past := time.Now().Add(-time.Minute)
	o.ExpiresAt = &past
	assert.True(t, o.IsExpired())
	assertDomainCode(t, o.Accept(), "INVALID_STATE")

	require.NoError(t, o.MarkExpired())
	assert.Equal(t, OfferStatusExpired, o.Status)
}
