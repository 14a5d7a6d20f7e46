package db

import (
	"context"

	"github.com/ertis-service/backend/internal/models"
)

// Categories, specialties and housing organizations: the reference data the
// triage pipeline matches against.

func scanCategory(row interface{ Scan(...any) error }) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt)
	return c, mapErr(err)
}

func (s *Store) CreateCategory(ctx context.Context, c models.Category) (models.Category, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO categories (name, description) VALUES ($1, $2)
		RETURNING id, name, description, created_at`, c.Name, c.Description)
	return scanCategory(row)
}

func (s *Store) GetCategory(ctx context.Context, id int64) (models.Category, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, description, created_at FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func (s *Store) GetCategoryByName(ctx context.Context, name string) (models.Category, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, description, created_at FROM categories WHERE name = $1`, name)
	return scanCategory(row)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.Pool.Query(ctx, `SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateCategory(ctx context.Context, id int64, name, description *string) (models.Category, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE categories
		SET name = COALESCE($2, name), description = COALESCE($3, description)
		WHERE id = $1
		RETURNING id, name, description, created_at`, id, name, description)
	return scanCategory(row)
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateSpecialty(ctx context.Context, sp models.Specialty) (models.Specialty, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO specialties (name, category_id) VALUES ($1, $2)
		RETURNING id, name, category_id, created_at`, sp.Name, sp.CategoryID)
	var out models.Specialty
	err := row.Scan(&out.ID, &out.Name, &out.CategoryID, &out.CreatedAt)
	return out, mapErr(err)
}

func (s *Store) GetSpecialty(ctx context.Context, id int64) (models.Specialty, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, category_id, created_at FROM specialties WHERE id = $1`, id)
	var out models.Specialty
	err := row.Scan(&out.ID, &out.Name, &out.CategoryID, &out.CreatedAt)
	return out, mapErr(err)
}

func (s *Store) ListSpecialtiesByCategory(ctx context.Context, categoryID int64) ([]models.Specialty, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, category_id, created_at FROM specialties
		WHERE category_id = $1 ORDER BY name`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Specialty
	for rows.Next() {
		var sp models.Specialty
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.CategoryID, &sp.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

const orgColumns = `id, name, description, phone, email, address, created_at`

func scanOrganization(row interface{ Scan(...any) error }) (models.Organization, error) {
	var o models.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Description, &o.Phone, &o.Email, &o.Address, &o.CreatedAt)
	return o, mapErr(err)
}

func (s *Store) CreateOrganization(ctx context.Context, o models.Organization) (models.Organization, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO housing_organizations (name, description, phone, email, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orgColumns, o.Name, o.Description, o.Phone, o.Email, o.Address)
	return scanOrganization(row)
}

func (s *Store) GetOrganization(ctx context.Context, id int64) (models.Organization, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+orgColumns+` FROM housing_organizations WHERE id = $1`, id)
	return scanOrganization(row)
}

func (s *Store) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+orgColumns+` FROM housing_organizations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (s *Store) UpdateOrganization(ctx context.Context, id int64, name, description, phone, email, address *string) (models.Organization, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE housing_organizations
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    phone = COALESCE($4, phone),
		    email = COALESCE($5, email),
		    address = COALESCE($6, address)
		WHERE id = $1
		RETURNING `+orgColumns, id, name, description, phone, email, address)
	return scanOrganization(row)
}

func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM housing_organizations WHERE id = $1`, id)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
