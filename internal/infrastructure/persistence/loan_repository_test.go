package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/realty/backend/internal/domain/lending"
	"github.com/realty/backend/internal/domain/shared"
)

func TestGormLoanRepository_FindByID(t *testing.T) {
	t.Run("finds existing loan", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLoanRepository(db)

		loanID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "borrower_id", "principal", "term_months", "status", "outstanding"}).
			AddRow(loanID, uuid.New(), decimal.NewFromInt(250000), 240, "active", decimal.NewFromInt(198000))

		mock.ExpectQuery(`SELECT \* FROM "loans" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(loanID, 1).
			WillReturnRows(rows)

		loan, err := repo.FindByID(context.Background(), loanID)

		assert.NoError(t, err)
		require.NotNil(t, loan)
		assert.Equal(t, lending.LoanStatusActive, loan.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing loan", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLoanRepository(db)

		loanID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "loans" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(loanID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		loan, err := repo.FindByID(context.Background(), loanID)

		assert.Nil(t, loan)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLoanRepository_CountActiveByBorrower(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormLoanRepository(db)

	borrowerID := uuid.New()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "loans" WHERE borrower_id = \$1 AND status IN \(\$2,\$3,\$4,\$5\)`).
		WithArgs(borrowerID,
			lending.LoanStatusSubmitted,
			lending.LoanStatusUnderReview,
			lending.LoanStatusApproved,
			lending.LoanStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountActiveByBorrower(context.Background(), borrowerID)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreditScoreRepository_FindLatestByUser(t *testing.T) {
	t.Run("returns newest snapshot", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCreditScoreRepository(db)

		userID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "user_id", "value"}).
			AddRow(uuid.New(), userID, 715)

		mock.ExpectQuery(`SELECT \* FROM "credit_scores" WHERE user_id = \$1 ORDER BY computed_at DESC,.* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnRows(rows)

		score, err := repo.FindLatestByUser(context.Background(), userID)

		assert.NoError(t, err)
		require.NotNil(t, score)
		assert.Equal(t, 715, score.Value)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing snapshot to ErrNotFound", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormCreditScoreRepository(db)

		userID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "credit_scores" WHERE user_id = \$1 ORDER BY computed_at DESC,.* LIMIT .*`).
			WithArgs(userID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		score, err := repo.FindLatestByUser(context.Background(), userID)

		assert.Nil(t, score)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
