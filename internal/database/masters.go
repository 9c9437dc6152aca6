package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Master data queries: materials ("bahan"), garment types ("jenis"),
// sizes ("ukuran"), couriers, designers, learning resources.

// --- Materials ---

const listMaterials = `SELECT id, code, name, created_at FROM materials ORDER BY code`

func (q *Queries) ListMaterials(ctx context.Context) ([]Material, error) {
	rows, err := q.db.Query(ctx, listMaterials)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Material
	for rows.Next() {
		var m Material
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const getMaterialByCode = `SELECT id, code, name, created_at FROM materials WHERE code = $1`

func (q *Queries) GetMaterialByCode(ctx context.Context, code string) (Material, error) {
	var m Material
	err := q.db.QueryRow(ctx, getMaterialByCode, code).Scan(&m.ID, &m.Code, &m.Name, &m.CreatedAt)
	return m, err
}

type CreateMaterialParams struct {
	Code string
	Name string
}

const createMaterial = `INSERT INTO materials (code, name) VALUES ($1, $2)
RETURNING id, code, name, created_at`

func (q *Queries) CreateMaterial(ctx context.Context, arg CreateMaterialParams) (Material, error) {
	var m Material
	err := q.db.QueryRow(ctx, createMaterial, arg.Code, arg.Name).Scan(&m.ID, &m.Code, &m.Name, &m.CreatedAt)
	return m, err
}

type UpdateMaterialParams struct {
	ID   uuid.UUID
	Code string
	Name string
}

const updateMaterial = `UPDATE materials SET code = $2, name = $3 WHERE id = $1
RETURNING id, code, name, created_at`

func (q *Queries) UpdateMaterial(ctx context.Context, arg UpdateMaterialParams) (Material, error) {
	var m Material
	err := q.db.QueryRow(ctx, updateMaterial, arg.ID, arg.Code, arg.Name).Scan(&m.ID, &m.Code, &m.Name, &m.CreatedAt)
	return m, err
}

const deleteMaterial = `DELETE FROM materials WHERE id = $1 RETURNING id`

func (q *Queries) DeleteMaterial(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteMaterial, id).Scan(&deleted)
	return deleted, err
}

// --- Garment types ---

const listGarmentTypes = `SELECT id, code, name, created_at FROM garment_types ORDER BY code`

func (q *Queries) ListGarmentTypes(ctx context.Context) ([]GarmentType, error) {
	rows, err := q.db.Query(ctx, listGarmentTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GarmentType
	for rows.Next() {
		var g GarmentType
		if err := rows.Scan(&g.ID, &g.Code, &g.Name, &g.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}
	return items, rows.Err()
}

const getGarmentTypeByCode = `SELECT id, code, name, created_at FROM garment_types WHERE code = $1`

func (q *Queries) GetGarmentTypeByCode(ctx context.Context, code string) (GarmentType, error) {
	var g GarmentType
	err := q.db.QueryRow(ctx, getGarmentTypeByCode, code).Scan(&g.ID, &g.Code, &g.Name, &g.CreatedAt)
	return g, err
}

type CreateGarmentTypeParams struct {
	Code string
	Name string
}

const createGarmentType = `INSERT INTO garment_types (code, name) VALUES ($1, $2)
RETURNING id, code, name, created_at`

func (q *Queries) CreateGarmentType(ctx context.Context, arg CreateGarmentTypeParams) (GarmentType, error) {
	var g GarmentType
	err := q.db.QueryRow(ctx, createGarmentType, arg.Code, arg.Name).Scan(&g.ID, &g.Code, &g.Name, &g.CreatedAt)
	return g, err
}

type UpdateGarmentTypeParams struct {
	ID   uuid.UUID
	Code string
	Name string
}

const updateGarmentType = `UPDATE garment_types SET code = $2, name = $3 WHERE id = $1
RETURNING id, code, name, created_at`

func (q *Queries) UpdateGarmentType(ctx context.Context, arg UpdateGarmentTypeParams) (GarmentType, error) {
	var g GarmentType
	err := q.db.QueryRow(ctx, updateGarmentType, arg.ID, arg.Code, arg.Name).Scan(&g.ID, &g.Code, &g.Name, &g.CreatedAt)
	return g, err
}

const deleteGarmentType = `DELETE FROM garment_types WHERE id = $1 RETURNING id`

func (q *Queries) DeleteGarmentType(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteGarmentType, id).Scan(&deleted)
	return deleted, err
}

// --- Sizes ---

const listSizes = `SELECT id, name, sort_order, created_at FROM sizes ORDER BY sort_order, name`

func (q *Queries) ListSizes(ctx context.Context) ([]Size, error) {
	rows, err := q.db.Query(ctx, listSizes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Size
	for rows.Next() {
		var s Size
		if err := rows.Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

const getSize = `SELECT id, name, sort_order, created_at FROM sizes WHERE id = $1`

func (q *Queries) GetSize(ctx context.Context, id uuid.UUID) (Size, error) {
	var s Size
	err := q.db.QueryRow(ctx, getSize, id).Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt)
	return s, err
}

type CreateSizeParams struct {
	Name      string
	SortOrder int32
}

const createSize = `INSERT INTO sizes (name, sort_order) VALUES ($1, $2)
RETURNING id, name, sort_order, created_at`

func (q *Queries) CreateSize(ctx context.Context, arg CreateSizeParams) (Size, error) {
	var s Size
	err := q.db.QueryRow(ctx, createSize, arg.Name, arg.SortOrder).Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt)
	return s, err
}

type UpdateSizeParams struct {
	ID        uuid.UUID
	Name      string
	SortOrder int32
}

const updateSize = `UPDATE sizes SET name = $2, sort_order = $3 WHERE id = $1
RETURNING id, name, sort_order, created_at`

func (q *Queries) UpdateSize(ctx context.Context, arg UpdateSizeParams) (Size, error) {
	var s Size
	err := q.db.QueryRow(ctx, updateSize, arg.ID, arg.Name, arg.SortOrder).Scan(&s.ID, &s.Name, &s.SortOrder, &s.CreatedAt)
	return s, err
}

const deleteSize = `DELETE FROM sizes WHERE id = $1 RETURNING id`

func (q *Queries) DeleteSize(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteSize, id).Scan(&deleted)
	return deleted, err
}

// --- Couriers ---

const listCouriers = `SELECT id, code, name, created_at FROM couriers ORDER BY code`

func (q *Queries) ListCouriers(ctx context.Context) ([]Courier, error) {
	rows, err := q.db.Query(ctx, listCouriers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Courier
	for rows.Next() {
		var c Courier
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type CreateCourierParams struct {
	Code string
	Name string
}

const createCourier = `INSERT INTO couriers (code, name) VALUES ($1, $2)
RETURNING id, code, name, created_at`

func (q *Queries) CreateCourier(ctx context.Context, arg CreateCourierParams) (Courier, error) {
	var c Courier
	err := q.db.QueryRow(ctx, createCourier, arg.Code, arg.Name).Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt)
	return c, err
}

type UpdateCourierParams struct {
	ID   uuid.UUID
	Code string
	Name string
}

const updateCourier = `UPDATE couriers SET code = $2, name = $3 WHERE id = $1
RETURNING id, code, name, created_at`

func (q *Queries) UpdateCourier(ctx context.Context, arg UpdateCourierParams) (Courier, error) {
	var c Courier
	err := q.db.QueryRow(ctx, updateCourier, arg.ID, arg.Code, arg.Name).Scan(&c.ID, &c.Code, &c.Name, &c.CreatedAt)
	return c, err
}

const deleteCourier = `DELETE FROM couriers WHERE id = $1 RETURNING id`

func (q *Queries) DeleteCourier(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteCourier, id).Scan(&deleted)
	return deleted, err
}

// --- Designers ---

const listDesigners = `SELECT id, name, phone, link_portfolio, created_at FROM designers ORDER BY name`

func (q *Queries) ListDesigners(ctx context.Context) ([]Designer, error) {
	rows, err := q.db.Query(ctx, listDesigners)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Designer
	for rows.Next() {
		var d Designer
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone, &d.LinkPortfolio, &d.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

type CreateDesignerParams struct {
	Name          string
	Phone         pgtype.Text
	LinkPortfolio pgtype.Text
}

const createDesigner = `INSERT INTO designers (name, phone, link_portfolio) VALUES ($1, $2, $3)
RETURNING id, name, phone, link_portfolio, created_at`

func (q *Queries) CreateDesigner(ctx context.Context, arg CreateDesignerParams) (Designer, error) {
	var d Designer
	err := q.db.QueryRow(ctx, createDesigner, arg.Name, arg.Phone, arg.LinkPortfolio).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LinkPortfolio, &d.CreatedAt)
	return d, err
}

type UpdateDesignerParams struct {
	ID            uuid.UUID
	Name          string
	Phone         pgtype.Text
	LinkPortfolio pgtype.Text
}

const updateDesigner = `UPDATE designers SET name = $2, phone = $3, link_portfolio = $4 WHERE id = $1
RETURNING id, name, phone, link_portfolio, created_at`

func (q *Queries) UpdateDesigner(ctx context.Context, arg UpdateDesignerParams) (Designer, error) {
	var d Designer
	err := q.db.QueryRow(ctx, updateDesigner, arg.ID, arg.Name, arg.Phone, arg.LinkPortfolio).
		Scan(&d.ID, &d.Name, &d.Phone, &d.LinkPortfolio, &d.CreatedAt)
	return d, err
}

const deleteDesigner = `DELETE FROM designers WHERE id = $1 RETURNING id`

func (q *Queries) DeleteDesigner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteDesigner, id).Scan(&deleted)
	return deleted, err
}

// --- Learning resources ---

const listLearnings = `SELECT id, title, url, description, created_at FROM learnings ORDER BY created_at DESC`

func (q *Queries) ListLearnings(ctx context.Context) ([]Learning, error) {
	rows, err := q.db.Query(ctx, listLearnings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Learning
	for rows.Next() {
		var l Learning
		if err := rows.Scan(&l.ID, &l.Title, &l.Url, &l.Description, &l.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

type CreateLearningParams struct {
	Title       string
	Url         string
	Description pgtype.Text
}

const createLearning = `INSERT INTO learnings (title, url, description) VALUES ($1, $2, $3)
RETURNING id, title, url, description, created_at`

func (q *Queries) CreateLearning(ctx context.Context, arg CreateLearningParams) (Learning, error) {
	var l Learning
	err := q.db.QueryRow(ctx, createLearning, arg.Title, arg.Url, arg.Description).
		Scan(&l.ID, &l.Title, &l.Url, &l.Description, &l.CreatedAt)
	return l, err
}

type UpdateLearningParams struct {
	ID          uuid.UUID
	Title       string
	Url         string
	Description pgtype.Text
}

const updateLearning = `UPDATE learnings SET title = $2, url = $3, description = $4 WHERE id = $1
RETURNING id, title, url, description, created_at`

func (q *Queries) UpdateLearning(ctx context.Context, arg UpdateLearningParams) (Learning, error) {
	var l Learning
	err := q.db.QueryRow(ctx, updateLearning, arg.ID, arg.Title, arg.Url, arg.Description).
		Scan(&l.ID, &l.Title, &l.Url, &l.Description, &l.CreatedAt)
	return l, err
}

const deleteLearning = `DELETE FROM learnings WHERE id = $1 RETURNING id`

func (q *Queries) DeleteLearning(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	err := q.db.QueryRow(ctx, deleteLearning, id).Scan(&deleted)
	return deleted, err
}
