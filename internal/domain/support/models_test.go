package support

import (
	"testing"

	"github.com/google/uuid"
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

func TestNewCustomerInput(t *testing.T) {
	in, err := NewCustomerInput("Pat@Example.COM", "  Pat Doyle ", " 555-0101 ")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", in.Email)
	assert.Equal(t, "Pat Doyle", in.Name)
	assert.Equal(t, "555-0101", in.Phone)

	_, err = NewCustomerInput("nope", "Pat", "")
	assertDomainCode(t, err, "INVALID_EMAIL")

	_, err = NewCustomerInput("a@b.com", "   ", "")
	assertDomainCode(t, err, "INVALID_NAME")
}

func TestNewTicketInput(t *testing.T) {
	in, err := NewTicketInput(uuid.New(), " Login fails ", "details", "")
	require.NoError(t, err)
	assert.Equal(t, "Login fails", in.Subject)
	assert.Equal(t, TicketPriorityMedium, in.Priority)

	_, err = NewTicketInput(uuid.Nil, "s", "", TicketPriorityLow)
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewTicketInput(uuid.New(), "", "", TicketPriorityLow)
	assertDomainCode(t, err, "INVALID_INPUT")

	_, err = NewTicketInput(uuid.New(), "s", "", TicketPriority("critical"))
	assertDomainCode(t, err, "INVALID_PRIORITY")
}

func TestTicketTransitions(t *testing.T) {
	assert.True(t, CanTransition(TicketStatusOpen, TicketStatusInProgress))
	assert.True(t, CanTransition(TicketStatusInProgress, TicketStatusResolved))
	assert.True(t, CanTransition(TicketStatusResolved, TicketStatusClosed))
	assert.True(t, CanTransition(TicketStatusResolved, TicketStatusOpen))

	assert.False(t, CanTransition(TicketStatusOpen, TicketStatusResolved))
	assert.False(t, CanTransition(TicketStatusClosed, TicketStatusOpen))
	assert.False(t, CanTransition(TicketStatusClosed, TicketStatusClosed))
}

func TestNewFeedbackInput(t *testing.T) {
	ticketID := uuid.New()
	in, err := NewFeedbackInput(uuid.New(), &ticketID, 4, " great service ")
	require.NoError(t, err)
	assert.Equal(t, 4, in.Rating)
	assert.Equal(t, "great service", in.Comment)

	_, err = NewFeedbackInput(uuid.Nil, nil, 3, "")
	assertDomainCode(t, err, "INVALID_INPUT")

	for _, r := range []int{0, 6, -1} {
		_, err = NewFeedbackInput(uuid.New(), nil, r, "")
		assertDomainCode(t, err, "INVALID_RATING")
	}
}
