package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type AccountRow struct {
	ID           uint32
	Name         string
	PasswordHash string
	FamilyName   string
	AccessLevel  int16
	Banned       bool
	Online       bool
	CreatedAt    time.Time
	LastActive   *time.Time
}

type AccountRepo struct {
	db *DB
}

func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// Load fetches one account by name. Returns (nil, nil) when absent.
func (r *AccountRepo) Load(ctx context.Context, name string) (*AccountRow, error) {
	row := &AccountRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id, name, password_hash, family_name, access_level,
		        banned, online, created_at, last_active
		 FROM accounts WHERE name = $1`, name,
	).Scan(
		&row.ID, &row.Name, &row.PasswordHash, &row.FamilyName, &row.AccessLevel,
		&row.Banned, &row.Online, &row.CreatedAt, &row.LastActive,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *AccountRepo) Create(ctx context.Context, name, rawPassword string) (*AccountRow, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	row := &AccountRow{
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	err = r.db.Pool.QueryRow(ctx,
		`INSERT INTO accounts (name, password_hash) VALUES ($1, $2) RETURNING id`,
		row.Name, row.PasswordHash,
	).Scan(&row.ID)
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (r *AccountRepo) ValidatePassword(hash string, rawPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(rawPassword)) == nil
}

// SetFamilyName claims the account-wide family name. Returns false when the
// name is already taken by another account.
func (r *AccountRepo) SetFamilyName(ctx context.Context, accountID uint32, familyName string) (bool, error) {
	var taken bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE family_name = $1 AND id <> $2)`,
		familyName, accountID,
	).Scan(&taken)
	if err != nil {
		return false, err
	}
	if taken {
		return false, nil
	}
	_, err = r.db.Pool.Exec(ctx,
		`UPDATE accounts SET family_name = $2 WHERE id = $1`,
		accountID, familyName,
	)
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccountRepo) SetOnline(ctx context.Context, accountID uint32, online bool) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE accounts SET online = $2, last_active = NOW() WHERE id = $1`,
		accountID, online,
	)
	return err
}
