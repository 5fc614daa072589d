package lending

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyWith(userID uuid.UUID, types ...CreditEventType) CreditHistory {
	events := make([]CreditEvent, 0, len(types))
	for _, ty := range types {
		events = append(events, CreditEvent{
			UserID:     userID,
			Type:       ty,
			OccurredAt: time.Now().Add(-time.Hour),
		})
	}
	return CreditHistory{UserID: userID, Events: events}
}

func TestScoreBaseline(t *testing.T) {
	score := Score(CreditHistory{UserID: uuid.New()})
	assert.Equal(t, 600, score)
}

func TestScoreRewardsAndPenalties(t *testing.T) {
	userID := uuid.New()

	good := historyWith(userID, CreditEventOnTimePayment, CreditEventOnTimePayment, CreditEventOnTimePayment)
	bad := historyWith(userID, CreditEventLatePayment, CreditEventMissedPayment)

	assert.Greater(t, Score(good), 600)
	assert.Less(t, Score(bad), 600)
	assert.Less(t, Score(historyWith(userID, CreditEventDefault)), Score(bad))
}

func TestScoreDebtAndOpenLoans(t *testing.T) {
	userID := uuid.New()

	heavyDebt := CreditHistory{UserID: userID, OutstandingDebt: decimal.NewFromInt(600000)}
	assert.Equal(t, 560, Score(heavyDebt))

	manyLoans := CreditHistory{UserID: userID, OpenLoans: 6}
	assert.Equal(t, 570, Score(manyLoans))
}

func TestScoreAccountAge(t *testing.T) {
	userID := uuid.New()
	oldest := time.Now().AddDate(-20, 0, 0)

	h := CreditHistory{UserID: userID, OldestAccount: &oldest}
	// age bonus caps at 10 years
	assert.Equal(t, 650, Score(h))
}

func TestScoreStaysInRange(t *testing.T) {
	types := []CreditEventType{
		CreditEventOnTimePayment, CreditEventLatePayment, CreditEventMissedPayment,
		CreditEventDefault, CreditEventInquiry, CreditEventAccountOpened,
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		h := CreditHistory{
			UserID:          uuid.New(),
			OpenLoans:       rng.Intn(20),
			OutstandingDebt: decimal.NewFromInt(rng.Int63n(2000000)),
		}
		for j := 0; j < rng.Intn(40); j++ {
			h.Events = append(h.Events, CreditEvent{
				Type:       types[rng.Intn(len(types))],
				OccurredAt: time.Now().Add(-time.Duration(rng.Intn(100000)) * time.Hour),
			})
		}
		if rng.Intn(2) == 0 {
			oldest := time.Now().AddDate(-rng.Intn(30), 0, 0)
			h.OldestAccount = &oldest
		}

		score := Score(h)
		assert.GreaterOrEqual(t, score, ScoreFloor)
		assert.LessOrEqual(t, score, ScoreCeiling)
	}
}

func TestNewCreditEventValidation(t *testing.T) {
	_, err := NewCreditEvent(uuid.Nil, CreditEventInquiry, decimal.Zero, time.Now(), "")
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewCreditEvent(uuid.New(), CreditEventType("bankruptcy"), decimal.Zero, time.Now(), "")
	assertDomainCode(t, err, "INVALID_TYPE")

	_, err = NewCreditEvent(uuid.New(), CreditEventInquiry, decimal.NewFromInt(-1), time.Now(), "")
	assertDomainCode(t, err, "INVALID_AMOUNT")
}

func TestCreditScoreSnapshot(t *testing.T) {
	s, err := NewCreditScore(uuid.New(), 720)
	require.NoError(t, err)
	assert.Equal(t, "good", s.Band())

	_, err = NewCreditScore(uuid.New(), 200)
	assertDomainCode(t, err, "INVALID_SCORE")

	bands := map[int]string{810: "excellent", 750: "very_good", 700: "good", 600: "fair", 450: "poor"}
	for value, band := range bands {
		s, err := NewCreditScore(uuid.New(), value)
		require.NoError(t, err)
		assert.Equal(t, band, s.Band())
	}
}
