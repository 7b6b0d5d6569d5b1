package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizza-store/internal/common/errors"
	"pizza-store/internal/models"
)

func TestAddUser_DinerRole(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`INSERT INTO users \(name, email, password\) VALUES \(\$1, \$2, \$3\) RETURNING id`).
		WithArgs("pizza diner", "d@test.com", "hashed:diner").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`INSERT INTO user_roles \(user_id, role, object_id\) VALUES \(\$1, \$2, \$3\)`).
		WithArgs(int64(7), "diner", int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := models.User{
		Name:     "pizza diner",
		Email:    "d@test.com",
		Password: "diner",
		Roles:    []models.RoleAssignment{{Role: models.RoleDiner}},
	}

	created, err := s.AddUser(context.Background(), nil, user)
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Empty(t, created.Password, "password must never be returned")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddUser_FranchiseeUnknownFranchise_LeavesUserRow(t *testing.T) {
	s, mock := newTestDB(t)

	// The user insert succeeds; the franchise lookup then fails. No role row
	// is written and nothing rolls back: the partial state is the contract.
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("owner", "o@test.com", "hashed:pw").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectQuery(`SELECT id FROM franchises WHERE name = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	user := models.User{
		Name:     "owner",
		Email:    "o@test.com",
		Password: "pw",
		Roles:    []models.RoleAssignment{{Role: models.RoleFranchisee, Object: "nope"}},
	}

	_, err := s.AddUser(context.Background(), nil, user)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet(), "no role insert and no rollback may follow")
}

func TestAddUser_UnknownRoleRejected(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("x", "x@test.com", "hashed:pw").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(4)))

	user := models.User{
		Name:     "x",
		Email:    "x@test.com",
		Password: "pw",
		Roles:    []models.RoleAssignment{{Role: models.Role("superuser")}},
	}

	_, err := s.AddUser(context.Background(), nil, user)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}

func TestGetUser_Success_NoPasswordReturned(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs("d@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(int64(7), "pizza diner", "d@test.com", "hashed:diner"))
	mock.ExpectQuery(`SELECT role, object_id FROM user_roles WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role", "object_id"}).
			AddRow("diner", int64(0)).
			AddRow("franchisee", int64(2)))

	user, err := s.GetUser(context.Background(), nil, "d@test.com", "diner")
	require.NoError(t, err)
	assert.Empty(t, user.Password)
	require.Len(t, user.Roles, 2)
	assert.Equal(t, models.RoleFranchisee, user.Roles[1].Role)
	assert.Equal(t, int64(2), user.Roles[1].ObjectID)
}

func TestGetUser_UnknownEmail(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs("ghost@test.com").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUser(context.Background(), nil, "ghost@test.com", "pw")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestGetUser_WrongPassword(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs("d@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(int64(7), "pizza diner", "d@test.com", "hashed:diner"))

	_, err := s.GetUser(context.Background(), nil, "d@test.com", "not-the-password")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err), "mismatched password is NotFound, same as unknown email")
}

func TestUpdateUser_PartialFields(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectExec(`UPDATE users SET email = \$1, name = \$2 WHERE id = \$3`).
		WithArgs("new@test.com", "new name", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// The re-read runs on a fresh connection with the updated email.
	mock.ExpectQuery(`SELECT id, name, email, password FROM users WHERE email = \$1`).
		WithArgs("new@test.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password"}).
			AddRow(int64(7), "new name", "new@test.com", "hashed:diner"))
	mock.ExpectQuery(`SELECT role, object_id FROM user_roles WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"role", "object_id"}).AddRow("diner", int64(0)))

	user, err := s.UpdateUser(context.Background(), nil, 7, "new name", "new@test.com", "")
	require.NoError(t, err)
	assert.Equal(t, "new name", user.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.DeleteUser(context.Background(), nil, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUsers_PaginationAndRoleSummary(t *testing.T) {
	s, mock := newTestDB(t)

	// limit 2 fetches 3 rows; the third row only signals `more`.
	mock.ExpectQuery(`SELECT u.id, u.name, u.email, string_agg\(ur.role, ', '\) AS roles`).
		WithArgs("%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "roles"}).
			AddRow(int64(1), "a", "a@test.com", "admin").
			AddRow(int64(2), "b", "b@test.com", "diner, franchisee").
			AddRow(int64(3), "c", "c@test.com", "diner"))

	users, more, err := s.GetUsers(context.Background(), nil, 0, 2, "*")
	require.NoError(t, err)
	assert.True(t, more)
	require.Len(t, users, 2)
	assert.Equal(t, "diner, franchisee", users[1].Roles)
}

func TestGetUsers_NoMore(t *testing.T) {
	s, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT u.id, u.name, u.email, string_agg`).
		WithArgs("ali%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "roles"}).
			AddRow(int64(1), "alice", "a@test.com", "diner"))

	users, more, err := s.GetUsers(context.Background(), nil, 0, 10, "ali*")
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, users, 1)
}

func TestGetUsers_InvalidPagination(t *testing.T) {
	s, _ := newTestDB(t)

	_, _, err := s.GetUsers(context.Background(), nil, -1, 10, "*")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))

	_, _, err = s.GetUsers(context.Background(), nil, 0, 0, "*")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidArgument))
}
