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

const userColumns = `id, name, email, contact_no, title::text, department, password_hash,
	role::text, enabled, institution_id, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email))

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) (model.User, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (name, email, contact_no, title, department, password_hash,
		                    role, enabled, institution_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4::user_title, $5, $6, $7::user_role, $8, $9, $10, $11)
		 RETURNING id`,
		u.Name, u.Email, nullable(u.ContactNo), nullable(u.Title), nullable(u.Department), u.PasswordHash,
		u.Role.String(), u.Enabled, u.InstitutionID, u.CreatedAt, u.UpdatedAt).
		Scan(&u.ID)
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateEmail
	}
	if isForeignKeyViolation(err) {
		return model.User{}, model.ErrInstitutionNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u model.User) (model.User, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name = $2, email = $3, contact_no = $4, title = $5::user_title, department = $6,
		        password_hash = $7, role = $8::user_role, enabled = $9, institution_id = $10,
		        updated_at = $11
		 WHERE id = $1`,
		u.ID, u.Name, u.Email, nullable(u.ContactNo), nullable(u.Title), nullable(u.Department),
		u.PasswordHash, u.Role.String(), u.Enabled, u.InstitutionID, u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.User{}, model.ErrDuplicateEmail
	}
	if isForeignKeyViolation(err) {
		return model.User{}, model.ErrInstitutionNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, page model.Page) ([]model.User, error) {
	page = page.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT $2`, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *UserRepository) ListByInstitution(ctx context.Context, institutionID int64, page model.Page) ([]model.User, error) {
	page = page.Normalize()
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE institution_id = $1 ORDER BY id OFFSET $2 LIMIT $3`,
		institutionID, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list institution users: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]model.User, error) {
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u                            model.User
		contactNo, title, department *string
		role                         string
	)

	if err := row.Scan(&u.ID, &u.Name, &u.Email, &contactNo, &title, &department, &u.PasswordHash,
		&role, &u.Enabled, &u.InstitutionID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, err
	}

	parsed, err := model.ParseRole(role)
	if err != nil {
		return model.User{}, err
	}
	u.Role = parsed
	u.ContactNo = deref(contactNo)
	u.Title = deref(title)
	u.Department = deref(department)

	return u, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
