package audit

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realty/backend/internal/domain/shared"
)

func TestNewEntry(t *testing.T) {
	e, err := NewEntry(uuid.New(), "manager", "loan.approve", "loan", uuid.NewString(), `{"rate":"6.5"}`, "10.0.0.4")
	require.NoError(t, err)
	assert.Equal(t, "loan.approve", e.Action)
	assert.False(t, e.OccurredAt.IsZero())

	e, err = NewEntry(uuid.New(), "agent", "property.create", "property", "x", "", "")
	require.NoError(t, err)
	assert.Equal(t, "{}", e.Payload)
}

func TestNewEntryValidation(t *testing.T) {
	var derr *shared.DomainError

	_, err := NewEntry(uuid.Nil, "ceo", "a", "b", "c", "", "")
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)

	_, err = NewEntry(uuid.New(), "ceo", "", "b", "c", "", "")
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_INPUT", derr.Code)
}
