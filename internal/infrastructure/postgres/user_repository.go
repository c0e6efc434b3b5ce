package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/intesigroup/user-registry/internal/domain/entity"
	"github.com/intesigroup/user-registry/internal/domain/repository"
)

const userColumns = `id, username, email, codice_fiscale, nome, cognome, roles, status, created_at, updated_at`

// UserRepository is the pgx-backed record store. The uk_users_email and
// uk_users_codice_fiscale constraints are the final authority on uniqueness;
// violations are translated to the repository conflict sentinels.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var roles []string
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.CodiceFiscale, &u.Nome,
		&u.Cognome, &roles, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	u.Roles = make([]entity.Role, 0, len(roles))
	for _, r := range roles {
		u.Roles = append(u.Roles, entity.Role(r))
	}
	return u, nil
}

func rolesToStrings(roles []entity.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}

// mapConflict translates a unique-violation (SQLSTATE 23505) into the
// field-specific conflict sentinel based on the constraint name.
func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "uk_users_email":
			return repository.ErrEmailTaken
		case "uk_users_codice_fiscale":
			return repository.ErrCodiceFiscaleTaken
		}
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *UserRepository) FindByCodiceFiscale(ctx context.Context, cf string) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE codice_fiscale = $1`, cf)
	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, email, codice_fiscale, nome, cognome, roles, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.Username, u.Email, u.CodiceFiscale, u.Nome, u.Cognome,
		rolesToStrings(u.Roles), string(u.Status), u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET username = $1, codice_fiscale = $2, nome = $3, cognome = $4,
		    roles = $5, status = $6, updated_at = $7
		WHERE id = $8
	`, u.Username, u.CodiceFiscale, u.Nome, u.Cognome,
		rolesToStrings(u.Roles), string(u.Status), u.UpdatedAt, u.ID)
	if err != nil {
		return mapConflict(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ListExcludingStatus(ctx context.Context, status entity.Status, page repository.Page) ([]*entity.User, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM users WHERE status <> $1`, string(status)).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE status <> $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3
	`, string(status), page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, page.Size)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
