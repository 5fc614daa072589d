package identity

import (
	"testing"

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
