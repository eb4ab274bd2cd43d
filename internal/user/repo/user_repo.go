package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

// UserRepo provides data access for users table using sqlx.
type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// EnsureTable creates the users table and its unique email index (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'basic',
  created_at ` + database.TimestampType(r.db.DriverName()) + ` NOT NULL
)`
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (email)`)
	return err
}

// Create inserts a new user row. A taken email surfaces as a unique violation.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	q := r.db.Rebind(`INSERT INTO users (id, name, email, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt)
	return err
}

// GetByEmail returns a user matched by (already normalized) email or sql.ErrNoRows.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	q := r.db.Rebind(`SELECT id, name, email, password_hash, role, created_at FROM users WHERE email = ?`)
	var u entity.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}
