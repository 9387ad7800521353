package customer

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "customer-manager-api/internal/domain/customer"
)

var cols = []string{"id", "created", "updated", "full_name", "email", "phone", "is_active"}

func strPtr(s string) *string { return &s }

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, &Repository{db: mock}
}

func q(s string) string { return regexp.QuoteMeta(s) }

func TestRepository_FindByID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m pgxmock.PgxPoolIface)
		want    *domain.Customer
		wantErr bool
	}{
		{
			name: "found inactive row",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(q(SelectCustomerByID)).
					WithArgs(int64(7)).
					WillReturnRows(pgxmock.NewRows(cols).
						AddRow(int64(7), int64(100), int64(200), "John Doe", "john@x.com", strPtr("+1234567890"), false))
			},
			want: &domain.Customer{
				ID: 7, Created: 100, Updated: 200,
				FullName: "John Doe", Email: "john@x.com", Phone: strPtr("+1234567890"), IsActive: false,
			},
		},
		{
			name: "not found",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(q(SelectCustomerByID)).
					WithArgs(int64(7)).
					WillReturnError(pgx.ErrNoRows)
			},
			want: nil,
		},
		{
			name: "db error",
			setup: func(m pgxmock.PgxPoolIface) {
				m.ExpectQuery(q(SelectCustomerByID)).
					WithArgs(int64(7)).
					WillReturnError(errors.New("conn reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, repo := newMock(t)
			tt.setup(mock)

			got, err := repo.FindByID(context.Background(), 7)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindActiveByID_AppliesActivePredicate(t *testing.T) {
	assert.Contains(t, SelectActiveCustomerByID, activeOnly)
	assert.Contains(t, SelectActiveCustomers, activeOnly)
	assert.NotContains(t, SelectCustomerByID, activeOnly)
	assert.NotContains(t, SelectCustomerByEmail, activeOnly)

	mock, repo := newMock(t)
	mock.ExpectQuery(q(SelectActiveCustomerByID)).
		WithArgs(int64(3)).
		WillReturnError(pgx.ErrNoRows)

	got, err := repo.FindActiveByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByEmail(t *testing.T) {
	mock, repo := newMock(t)
	mock.ExpectQuery(q(SelectCustomerByEmail)).
		WithArgs("a@b.com").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(int64(1), int64(10), int64(10), "Ann", "a@b.com", (*string)(nil), false))

	got, err := repo.FindByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Nil(t, got.Phone)
	assert.False(t, got.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindAllActive(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(SelectActiveCustomers)).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(1), int64(10), int64(10), "Ann", "a@b.com", (*string)(nil), true).
				AddRow(int64(2), int64(20), int64(30), "Bob", "b@b.com", strPtr("+123456"), true))

		got, err := repo.FindAllActive(context.Background())
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, domain.ID(1), got[0].ID)
		assert.Equal(t, "Bob", got[1].FullName)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(SelectActiveCustomers)).
			WillReturnRows(pgxmock.NewRows(cols))

		got, err := repo.FindAllActive(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(SelectActiveCustomers)).
			WillReturnError(errors.New("boom"))

		_, err := repo.FindAllActive(context.Background())
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Save_Insert(t *testing.T) {
	in := domain.Customer{
		Created: 1000, Updated: 1000,
		FullName: "John Doe", Email: "john@x.com", Phone: strPtr("+1234567890"), IsActive: true,
	}

	t.Run("inserted", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(InsertCustomer)).
			WithArgs(int64(1000), int64(1000), "John Doe", "john@x.com", strPtr("+1234567890"), true).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(42), int64(1000), int64(1000), "John Doe", "john@x.com", strPtr("+1234567890"), true))

		got, err := repo.Save(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, domain.ID(42), got.ID)
		assert.Equal(t, got.Created, got.Updated)
		assert.True(t, got.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(InsertCustomer)).
			WithArgs(int64(1000), int64(1000), "John Doe", "john@x.com", strPtr("+1234567890"), true).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_email_key"})

		got, err := repo.Save(context.Background(), in)
		require.ErrorIs(t, err, ErrEmailAlreadyExists)
		assert.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Save_Update(t *testing.T) {
	in := domain.Customer{
		ID: 9, Created: 1000, Updated: 2000,
		FullName: "Jane", Email: "a@b.com", Phone: nil, IsActive: false,
	}

	t.Run("updated", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(UpdateCustomerByID)).
			WithArgs(int64(2000), "Jane", "a@b.com", (*string)(nil), false, int64(9)).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(9), int64(1000), int64(2000), "Jane", "a@b.com", (*string)(nil), false))

		got, err := repo.Save(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, int64(1000), got.Created)
		assert.Equal(t, int64(2000), got.Updated)
		assert.False(t, got.IsActive)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row vanished", func(t *testing.T) {
		mock, repo := newMock(t)
		mock.ExpectQuery(q(UpdateCustomerByID)).
			WithArgs(int64(2000), "Jane", "a@b.com", (*string)(nil), false, int64(9)).
			WillReturnError(pgx.ErrNoRows)

		got, err := repo.Save(context.Background(), in)
		require.NoError(t, err)
		assert.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEnsureSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(q(CreateTable)).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	require.NoError(t, EnsureSchema(context.Background(), mock))
	require.NoError(t, mock.ExpectationsWereMet())
}
