package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, name, email, hashed_password, role, phone, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.Role, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

const getUserByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, id))
}

const listUsers = `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type CreateUserParams struct {
	Name           string
	Email          string
	HashedPassword string
	Role           string
	Phone          pgtype.Text
}

const createUser = `INSERT INTO users (name, email, hashed_password, role, phone)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, createUser,
		arg.Name, arg.Email, arg.HashedPassword, arg.Role, arg.Phone))
}

type UpdateUserParams struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
	Phone pgtype.Text
}

const updateUser = `UPDATE users
SET name = $2, email = $3, role = $4, phone = $5, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUser, arg.ID, arg.Name, arg.Email, arg.Role, arg.Phone))
}

type UpdateUserPasswordParams struct {
	ID             uuid.UUID
	HashedPassword string
}

const updateUserPassword = `UPDATE users
SET hashed_password = $2, updated_at = NOW()
WHERE id = $1
RETURNING id`

func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.db.QueryRow(ctx, updateUserPassword, arg.ID, arg.HashedPassword).Scan(&id)
	return id, err
}

const deleteUser = `DELETE FROM users WHERE id = $1 RETURNING id`

func (q *Queries) DeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteUser, id).Scan(&deleted)
	return deleted, err
}
