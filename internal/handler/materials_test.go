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
)

type mockMaterialStore struct {
	listMaterialsFn  func(ctx context.Context) ([]database.Material, error)
	createMaterialFn func(ctx context.Context, arg database.CreateMaterialParams) (database.Material, error)
	updateMaterialFn func(ctx context.Context, arg database.UpdateMaterialParams) (database.Material, error)
	deleteMaterialFn func(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

func (m *mockMaterialStore) ListMaterials(ctx context.Context) ([]database.Material, error) {
	return m.listMaterialsFn(ctx)
}
func (m *mockMaterialStore) CreateMaterial(ctx context.Context, arg database.CreateMaterialParams) (database.Material, error) {
	return m.createMaterialFn(ctx, arg)
}
func (m *mockMaterialStore) UpdateMaterial(ctx context.Context, arg database.UpdateMaterialParams) (database.Material, error) {
	return m.updateMaterialFn(ctx, arg)
}
func (m *mockMaterialStore) DeleteMaterial(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	return m.deleteMaterialFn(ctx, id)
}

func setupMaterialRouter(store *mockMaterialStore) *chi.Mux {
	h := handler.NewMaterialHandler(store)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(testJWTSecret))
		r.Route("/materials", func(r chi.Router) {
			h.RegisterReadRoutes(r)
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enum.RoleAdmin, enum.RoleSuperAdmin))
				h.RegisterWriteRoutes(r)
			})
		})
	})
	return r
}

func TestMaterialCreate_HappyPath(t *testing.T) {
	store := &mockMaterialStore{
		createMaterialFn: func(ctx context.Context, arg database.CreateMaterialParams) (database.Material, error) {
			return database.Material{ID: uuid.New(), Code: arg.Code, Name: arg.Name}, nil
		},
	}

	router := setupMaterialRouter(store)
	rr := doAuthRequest(t, router, "POST", "/materials", map[string]string{
		"code": "HDR",
		"name": "Hydro",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["code"] != "HDR" {
		t.Errorf("code = %v, want HDR", resp["code"])
	}
}

func TestMaterialCreate_MissingFields(t *testing.T) {
	router := setupMaterialRouter(&mockMaterialStore{})
	rr := doAuthRequest(t, router, "POST", "/materials", map[string]string{"code": "HDR"}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestMaterialCreate_DuplicateCode(t *testing.T) {
	store := &mockMaterialStore{
		createMaterialFn: func(ctx context.Context, arg database.CreateMaterialParams) (database.Material, error) {
			return database.Material{}, &pgconn.PgError{Code: "23505", ConstraintName: "materials_code_key"}
		},
	}

	router := setupMaterialRouter(store)
	rr := doAuthRequest(t, router, "POST", "/materials", map[string]string{
		"code": "HDR",
		"name": "Hydro",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestMaterialUpdate_NotFound(t *testing.T) {
	store := &mockMaterialStore{
		updateMaterialFn: func(ctx context.Context, arg database.UpdateMaterialParams) (database.Material, error) {
			return database.Material{}, pgx.ErrNoRows
		},
	}

	router := setupMaterialRouter(store)
	rr := doAuthRequest(t, router, "PUT", "/materials/"+uuid.New().String(), map[string]string{
		"code": "MLK",
		"name": "Milky",
	}, claimsFor(enum.RoleAdmin))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rr.Code)
	}
}

func TestMaterialRoutes_ResellerReadsButCannotWrite(t *testing.T) {
	// Resellers need the bahan codes to place an order, so the list is open
	// to every authenticated role. Writes stay admin-and-up.
	store := &mockMaterialStore{
		listMaterialsFn: func(ctx context.Context) ([]database.Material, error) {
			return []database.Material{{ID: uuid.New(), Code: "HDR", Name: "Hydro"}}, nil
		},
	}
	router := setupMaterialRouter(store)

	rr := doAuthRequest(t, router, "GET", "/materials", nil, claimsFor(enum.RoleReseller))
	if rr.Code != http.StatusOK {
		t.Errorf("reseller list: status = %d, want 200", rr.Code)
	}

	rr = doAuthRequest(t, router, "POST", "/materials", map[string]string{
		"code": "MLK",
		"name": "Milky",
	}, claimsFor(enum.RoleReseller))
	if rr.Code != http.StatusForbidden {
		t.Errorf("reseller create: status = %d, want 403", rr.Code)
	}
}
