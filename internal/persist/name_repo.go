package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// Random name kinds.
const (
	NameKindMaleFirst   int16 = 0
	NameKindFemaleFirst int16 = 1
	NameKindFamily      int16 = 2
)

type NameRepo struct {
	db *DB
}

func NewNameRepo(db *DB) *NameRepo {
	return &NameRepo{db: db}
}

// Random returns one random name of the given kind, or "" when the pool for
// that kind is empty.
func (r *NameRepo) Random(ctx context.Context, kind int16) (string, error) {
	var name string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT name FROM random_names WHERE kind = $1 ORDER BY random() LIMIT 1`,
		kind,
	).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
