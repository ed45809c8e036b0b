package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-conference-manager/internal/model"
)

const institutionColumns = `id, name, address, email, contact_no, membership, created_at, updated_at`

type InstitutionRepository struct {
	pool *pgxpool.Pool
}

func NewInstitutionRepository(pool *pgxpool.Pool) *InstitutionRepository {
	return &InstitutionRepository{pool: pool}
}

func (r *InstitutionRepository) FindByID(ctx context.Context, id int64) (model.Institution, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+institutionColumns+` FROM institutions WHERE id = $1`, id)

	inst, err := scanInstitution(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	if err != nil {
		return model.Institution{}, fmt.Errorf("find institution by id: %w", err)
	}
	return inst, nil
}

func (r *InstitutionRepository) FindByName(ctx context.Context, name string) (model.Institution, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+institutionColumns+` FROM institutions WHERE lower(name) = lower($1)`, strings.TrimSpace(name))

	inst, err := scanInstitution(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	if err != nil {
		return model.Institution{}, fmt.Errorf("find institution by name: %w", err)
	}
	return inst, nil
}

func (r *InstitutionRepository) Create(ctx context.Context, inst model.Institution) (model.Institution, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO institutions (name, address, email, contact_no, membership, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		inst.Name, inst.Address, inst.Email, inst.ContactNo, nullable(inst.Membership), inst.CreatedAt, inst.UpdatedAt).
		Scan(&inst.ID)
	if isUniqueViolation(err) {
		return model.Institution{}, model.ErrDuplicateInstitution
	}
	if err != nil {
		return model.Institution{}, fmt.Errorf("create institution: %w", err)
	}
	return inst, nil
}

func (r *InstitutionRepository) Update(ctx context.Context, inst model.Institution) (model.Institution, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE institutions SET name = $2, address = $3, email = $4, contact_no = $5,
		        membership = $6, updated_at = $7
		 WHERE id = $1`,
		inst.ID, inst.Name, inst.Address, inst.Email, inst.ContactNo, nullable(inst.Membership), inst.UpdatedAt)
	if isUniqueViolation(err) {
		return model.Institution{}, model.ErrDuplicateInstitution
	}
	if err != nil {
		return model.Institution{}, fmt.Errorf("update institution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Institution{}, model.ErrInstitutionNotFound
	}
	return inst, nil
}

// Delete removes the institution; members are detached by the
// ON DELETE SET NULL foreign key.
func (r *InstitutionRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM institutions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete institution: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInstitutionNotFound
	}
	return nil
}

func (r *InstitutionRepository) List(ctx context.Context, page model.Page) ([]model.Institution, error) {
	page = page.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+institutionColumns+` FROM institutions ORDER BY id OFFSET $1 LIMIT $2`, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list institutions: %w", err)
	}
	defer rows.Close()

	institutions := make([]model.Institution, 0)
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan institution: %w", err)
		}
		institutions = append(institutions, inst)
	}
	return institutions, rows.Err()
}

func scanInstitution(row pgx.Row) (model.Institution, error) {
	var (
		inst       model.Institution
		membership *string
	)

	if err := row.Scan(&inst.ID, &inst.Name, &inst.Address, &inst.Email, &inst.ContactNo,
		&membership, &inst.CreatedAt, &inst.UpdatedAt); err != nil {
		return model.Institution{}, err
	}
	inst.Membership = deref(membership)

	return inst, nil
}
