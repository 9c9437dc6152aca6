package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/konveksio/api/internal/database"
	"github.com/konveksio/api/internal/enum"
	"github.com/konveksio/api/internal/handler"
	"github.com/konveksio/api/internal/middleware"
	"golang.org/x/crypto/bcrypt"
)

type mockUserStore struct {
	listUsersFn          func(ctx context.Context) ([]database.User, error)
	getUserByIDFn        func(ctx context.Context, id uuid.UUID) (database.User, error)
	createUserFn         func(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	updateUserFn         func(ctx context.Context, arg database.UpdateUserParams) (database.User, error)
	updateUserPasswordFn func(ctx context.Context, arg database.UpdateUserPasswordParams) (uuid.UUID, error)
	deleteUserFn         func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

func (m *mockUserStore) ListUsers(ctx context.Context) ([]database.User, error) {
	return m.listUsersFn(ctx)
}
func (m *mockUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (database.User, error) {
	return m.getUserByIDFn(ctx, id)
}
func (m *mockUserStore) CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
	return m.createUserFn(ctx, arg)
}
func (m *mockUserStore) UpdateUser(ctx context.Context, arg database.UpdateUserParams) (database.User, error) {
	return m.updateUserFn(ctx, arg)
}
func (m *mockUserStore) UpdateUserPassword(ctx context.Context, arg database.UpdateUserPasswordParams) (uuid.UUID, error) {
	return m.updateUserPasswordFn(ctx, arg)
}
func (m *mockUserStore) DeleteUser(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.deleteUserFn(ctx, id)
}

func setupUserRouter(store *mockUserStore) *chi.Mux {
	h := handler.NewUserHandler(store)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Use(middleware.RequireRole(enum.RoleAdmin, enum.RoleSuperAdmin))
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Put("/{id}/password", h.UpdatePassword)
			r.With(middleware.RequireRole(enum.RoleSuperAdmin)).Delete("/{id}", h.Delete)
		})
	})
	return r
}

func TestUserCreate_HashesPassword(t *testing.T) {
	var captured database.CreateUserParams
	store := &mockUserStore{
		createUserFn: func(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
			captured = arg
			return database.User{ID: uuid.New(), Name: arg.Name, Email: arg.Email, Role: arg.Role}, nil
		},
	}

	router := setupUserRouter(store)
	rr := doAuthRequest(t, router, "POST", "/users", map[string]string{
		"name":     "Tukang Jahit",
		"email":    "sewing@test.com",
		"password": "rahasia123",
		"role":     enum.RoleSewing,
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	if captured.HashedPassword == "rahasia123" {
		t.Error("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(captured.HashedPassword), []byte("rahasia123")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestUserCreate_InvalidRole(t *testing.T) {
	router := setupUserRouter(&mockUserStore{})
	rr := doAuthRequest(t, router, "POST", "/users", map[string]string{
		"name":     "X",
		"email":    "x@test.com",
		"password": "rahasia123",
		"role":     "warehouse",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUserCreate_AdminCannotMintSuperAdmin(t *testing.T) {
	router := setupUserRouter(&mockUserStore{})
	rr := doAuthRequest(t, router, "POST", "/users", map[string]string{
		"name":     "Sneaky",
		"email":    "sneaky@test.com",
		"password": "rahasia123",
		"role":     enum.RoleSuperAdmin,
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	store := &mockUserStore{
		createUserFn: func(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
			return database.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}

	router := setupUserRouter(store)
	rr := doAuthRequest(t, router, "POST", "/users", map[string]string{
		"name":     "Dup",
		"email":    "dup@test.com",
		"password": "rahasia123",
		"role":     enum.RoleReseller,
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestUserUpdate_NotFound(t *testing.T) {
	store := &mockUserStore{
		updateUserFn: func(ctx context.Context, arg database.UpdateUserParams) (database.User, error) {
			return database.User{}, pgx.ErrNoRows
		},
	}

	router := setupUserRouter(store)
	rr := doAuthRequest(t, router, "PUT", "/users/"+uuid.New().String(), map[string]string{
		"name":  "Ghost",
		"email": "ghost@test.com",
		"role":  enum.RoleReseller,
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestUserPasswordUpdate_TooShort(t *testing.T) {
	router := setupUserRouter(&mockUserStore{})
	rr := doAuthRequest(t, router, "PUT", "/users/"+uuid.New().String()+"/password",
		map[string]string{"password": "short"}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestUserDelete_SuperAdminOnly(t *testing.T) {
	store := &mockUserStore{
		deleteUserFn: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			return id, nil
		},
	}
	router := setupUserRouter(store)

	rr := doAuthRequest(t, router, "DELETE", "/users/"+uuid.New().String(), nil, claimsFor(enum.RoleAdmin))
	if rr.Code != http.StatusForbidden {
		t.Errorf("admin delete: status = %d, want 403", rr.Code)
	}

	rr = doAuthRequest(t, router, "DELETE", "/users/"+uuid.New().String(), nil, claimsFor(enum.RoleSuperAdmin))
	if rr.Code != http.StatusNoContent {
		t.Errorf("super_admin delete: status = %d, want 204", rr.Code)
	}
}

func TestUserRoutes_ResellerBlocked(t *testing.T) {
	router := setupUserRouter(&mockUserStore{})
	rr := doAuthRequest(t, router, "GET", "/users", nil, claimsFor(enum.RoleReseller))

	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rr.Code)
	}
}
