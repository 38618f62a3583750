package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirasaad/minibank/pkg/domain"
	"github.com/amirasaad/minibank/pkg/domain/account"
	"github.com/amirasaad/minibank/pkg/domain/customer"
	"github.com/amirasaad/minibank/pkg/money"
	pkgrepo "github.com/amirasaad/minibank/pkg/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDb.Close() })
	dialector := postgres.New(postgres.Config{
		Conn:       mockDb,
		DriverName: "postgres",
	})
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func customerColumns() []string {
	return []string{"id", "code", "name", "email", "date_of_birth", "created_at", "updated_at"}
}

func accountColumns() []string {
	return []string{"id", "code", "customer_id", "customer_code", "balance", "created_at", "updated_at"}
}

func TestCustomerRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepository(db)
	c := &customer.Customer{
		Code:        uuid.New(),
		Name:        "Alex",
		Email:       "alex@example.com",
		DateOfBirth: time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers" (.+) VALUES (.+) RETURNING "id"`).
		WithArgs(c.Code, c.Name, c.Email, c.DateOfBirth, now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), c))
	assert.Equal(t, uint(7), c.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "customers"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_customers_email"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &customer.Customer{Code: uuid.New(), Email: "alex@example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_GetByCode(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepository(db)
	code := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE code = $1 ORDER BY "customers"."id" LIMIT`)).
		WillReturnRows(sqlmock.NewRows(customerColumns()).
			AddRow(3, code.String(), "Alex", "alex@example.com", time.Date(2000, 5, 1, 0, 0, 0, 0, time.UTC), now, now))

	c, err := repo.GetByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, uint(3), c.ID)
	assert.Equal(t, code, c.Code)
	assert.Equal(t, "alex@example.com", c.Email)

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE code = \$1`).
		WillReturnRows(sqlmock.NewRows(customerColumns()))
	_, err = repo.GetByCode(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerRepository_Update(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCustomerRepository(db)
	c := &customer.Customer{ID: 3, Name: "Alexandra", Email: "alex@example.com", DateOfBirth: time.Date(2000, 5, 2, 0, 0, 0, 0, time.UTC), UpdatedAt: now}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "customers" SET "date_of_birth"=$1,"email"=$2,"name"=$3,"updated_at"=$4 WHERE id = $5`)).
		WithArgs(c.DateOfBirth, c.Email, c.Name, now, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, repo.Update(context.Background(), c))

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "customers"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	assert.ErrorIs(t, repo.Update(context.Background(), c), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts" WHERE code IN ($1,$2) ORDER BY id FOR UPDATE`)).
		WithArgs(a, b).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(1, b.String(), 10, uuid.NewString(), 500, now, now).
			AddRow(2, a.String(), 11, uuid.NewString(), 0, now, now))

	got, err := repo.GetForUpdate(context.Background(), a, b)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, money.Amount(500), got[b].Balance)
	assert.Equal(t, uint(2), got[a].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_GetForUpdate_DeadlockIsRetryable(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(&pgconn.PgError{Code: "40P01"})
	_, err := repo.GetForUpdate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_CreateSecondAccount(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "accounts" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_accounts_customer_id"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &account.Account{Code: uuid.New(), CustomerID: 1, CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepository_UpdateBalance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "accounts" SET "balance"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(int64(1250), now, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateBalance(context.Background(), &account.Account{ID: 4, Balance: 1250, UpdatedAt: now})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepository_CreateAndList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTransactionRepository(db)
	senderID := uint(1)
	senderCode := uuid.New()
	tx := &account.Transaction{
		Code:              uuid.New(),
		Kind:              account.KindTransfer,
		SenderAccountID:   &senderID,
		SenderCode:        &senderCode,
		ReceiverAccountID: 2,
		ReceiverCode:      uuid.New(),
		Amount:            money.MustFromMajor(5),
		Status:            account.StatusCompleted,
		CreatedAt:         now,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "transactions" (.+) VALUES (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()
	require.NoError(t, repo.Create(context.Background(), tx))
	assert.Equal(t, uint(9), tx.ID)

	cols := []string{"id", "code", "kind", "sender_account_id", "sender_code", "receiver_account_id", "receiver_code", "amount", "status", "created_at"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transactions" WHERE sender_account_id = $1 AND kind = $2 ORDER BY id`)).
		WithArgs(1, "transfer").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(9, tx.Code.String(), "transfer", 1, senderCode.String(), 2, tx.ReceiverCode.String(), 500, "completed", now))
	sent, err := repo.ListSent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, tx.Code, sent[0].Code)
	assert.Equal(t, senderCode, *sent[0].SenderCode)
	assert.Equal(t, money.MustFromMajor(5), sent[0].Amount)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "transactions" WHERE sender_account_id = $1 OR receiver_account_id = $2 ORDER BY id DESC`)).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(10, uuid.NewString(), "deposit", nil, nil, 2, tx.ReceiverCode.String(), 100, "completed", now).
			AddRow(9, tx.Code.String(), "transfer", 1, senderCode.String(), 2, tx.ReceiverCode.String(), 500, "completed", now))
	all, err := repo.ListByAccount(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, account.KindDeposit, all[0].Kind)
	assert.Nil(t, all[0].SenderAccountID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_CommitAndRollback(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "accounts"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(u pkgrepo.UnitOfWork) error {
		repo, err := u.AccountRepository()
		require.NoError(t, err)
		return repo.UpdateBalance(context.Background(), &account.Account{ID: 1, Balance: 100, UpdatedAt: now})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectRollback()
	err = uow.Do(context.Background(), func(u pkgrepo.UnitOfWork) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(&pgconn.PgError{Code: "40001"})
	err = uow.Do(context.Background(), func(u pkgrepo.UnitOfWork) error { return nil })
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUoW_NestedDoJoinsTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	uow := NewUoW(db)

	mock.ExpectBegin()
	mock.ExpectCommit()
	calls := 0
	err := uow.Do(context.Background(), func(outer pkgrepo.UnitOfWork) error {
		return outer.Do(context.Background(), func(inner pkgrepo.UnitOfWork) error {
			calls++
			assert.Same(t, outer, inner)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.NoError(t, mock.ExpectationsWereMet())
}
