package persist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type CreatureTypeRow struct {
	ID              uint32
	ClassID         int32
	Name            string
	NpcMissions     []int32
	VendorPackageID *int32
	Auctioneer      bool
}

type CreatureRow struct {
	ID             uint32
	CreatureTypeID uint32
	MapContextID   uint32
	PosX           float64
	PosY           float64
	PosZ           float64
	Rotation       float64
	Faction        int32
	Level          int32
	MaxHitPoints   int32
	NameID         int32
}

type CreatureStatsRow struct {
	Level  int32
	Body   int32
	Mind   int32
	Spirit int32
	Health int32
	Armor  int32
}

type CreatureRepo struct {
	db *DB
}

func NewCreatureRepo(db *DB) *CreatureRepo {
	return &CreatureRepo{db: db}
}

// LoadTypes fetches all creature type definitions.
func (r *CreatureRepo) LoadTypes(ctx context.Context) ([]*CreatureTypeRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, class_id, name, npc_missions, vendor_package_id, auctioneer
		 FROM creature_types ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CreatureTypeRow
	for rows.Next() {
		t := &CreatureTypeRow{}
		if err := rows.Scan(&t.ID, &t.ClassID, &t.Name, &t.NpcMissions, &t.VendorPackageID, &t.Auctioneer); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LoadByMap fetches the creature spawns of one map context.
func (r *CreatureRepo) LoadByMap(ctx context.Context, mapContextID uint32) ([]*CreatureRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, creature_type_id, map_context_id, pos_x, pos_y, pos_z, rotation,
		        faction, level, max_hit_points, name_id
		 FROM creatures WHERE map_context_id = $1 ORDER BY id`,
		mapContextID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CreatureRow
	for rows.Next() {
		c := &CreatureRow{}
		if err := rows.Scan(
			&c.ID, &c.CreatureTypeID, &c.MapContextID, &c.PosX, &c.PosY, &c.PosZ, &c.Rotation,
			&c.Faction, &c.Level, &c.MaxHitPoints, &c.NameID,
		); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetStats fetches the per-level stat seed row. Returns (nil, nil) when no
// row exists for the level.
func (r *CreatureRepo) GetStats(ctx context.Context, level int32) (*CreatureStatsRow, error) {
	s := &CreatureStatsRow{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT level, body, mind, spirit, health, armor FROM creature_stats WHERE level = $1`,
		level,
	).Scan(&s.Level, &s.Body, &s.Mind, &s.Spirit, &s.Health, &s.Armor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
