package persist

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

type CharacterRow struct {
	ID           uint32
	AccountID    uint32
	Slot         int16
	Name         string
	Gender       int16
	Scale        float64
	RaceID       int32
	ClassID      int32
	MapContextID uint32
	PosX         float64
	PosY         float64
	PosZ         float64
	Rotation     float64
	Level        int16
	Experience   int32
	Body         int32
	Mind         int32
	Spirit       int32
	Credits      int32
	Prestige     int32
	ActiveDrawer int16
	NumLogins    int32
	CreatedAt    time.Time
	LastLogin    *time.Time
}

type CharacterSkillRow struct {
	SkillID    int32
	AbilityID  int32
	SkillLevel int32
}

type CharacterAbilityRow struct {
	SlotID       int32
	AbilityID    int32
	AbilityLevel int32
}

type CharacterAppearanceRow struct {
	SlotID  int32
	ClassID int32
	Color   int32
}

type CharacterMissionRow struct {
	MissionID    int32
	MissionState int32
	Completed    bool
}

type CharacterRepo struct {
	db *DB
}

func NewCharacterRepo(db *DB) *CharacterRepo {
	return &CharacterRepo{db: db}
}

const characterColumns = `id, account_id, slot, name, gender, scale, race_id, class_id,
	map_context_id, pos_x, pos_y, pos_z, rotation, level, experience,
	body, mind, spirit, credits, prestige, active_drawer, num_logins,
	created_at, last_login`

func scanCharacter(row pgx.Row) (*CharacterRow, error) {
	c := &CharacterRow{}
	err := row.Scan(
		&c.ID, &c.AccountID, &c.Slot, &c.Name, &c.Gender, &c.Scale, &c.RaceID, &c.ClassID,
		&c.MapContextID, &c.PosX, &c.PosY, &c.PosZ, &c.Rotation, &c.Level, &c.Experience,
		&c.Body, &c.Mind, &c.Spirit, &c.Credits, &c.Prestige, &c.ActiveDrawer, &c.NumLogins,
		&c.CreatedAt, &c.LastLogin,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadBySlot fetches one character by account and selection slot. Returns
// (nil, nil) when the slot is empty.
func (r *CharacterRepo) LoadBySlot(ctx context.Context, accountID uint32, slot int16) (*CharacterRow, error) {
	return scanCharacter(r.db.Pool.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 AND slot = $2`,
		accountID, slot,
	))
}

// ListByAccount fetches all characters on an account, ordered by slot.
func (r *CharacterRepo) ListByAccount(ctx context.Context, accountID uint32) ([]*CharacterRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE account_id = $1 ORDER BY slot`,
		accountID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*CharacterRow
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// NameTaken reports whether a character name is already in use.
func (r *CharacterRepo) NameTaken(ctx context.Context, name string) (bool, error) {
	var taken bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM characters WHERE name = $1)`, name,
	).Scan(&taken)
	return taken, err
}

// Create inserts a new character and returns its assigned id.
func (r *CharacterRepo) Create(ctx context.Context, c *CharacterRow) error {
	return r.db.Pool.QueryRow(ctx,
		`INSERT INTO characters
		  (account_id, slot, name, gender, scale, race_id, class_id,
		   map_context_id, pos_x, pos_y, pos_z, rotation)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING id`,
		c.AccountID, c.Slot, c.Name, c.Gender, c.Scale, c.RaceID, c.ClassID,
		c.MapContextID, c.PosX, c.PosY, c.PosZ, c.Rotation,
	).Scan(&c.ID)
}

func (r *CharacterRepo) Delete(ctx context.Context, characterID uint32) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM characters WHERE id = $1`, characterID)
	return err
}

// SavePosition persists the character's last world location.
func (r *CharacterRepo) SavePosition(ctx context.Context, characterID uint32, mapContextID uint32, x, y, z, rot float64) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters
		 SET map_context_id = $2, pos_x = $3, pos_y = $4, pos_z = $5, rotation = $6
		 WHERE id = $1`,
		characterID, mapContextID, x, y, z, rot,
	)
	return err
}

// TouchLogin bumps the login counter and timestamp.
func (r *CharacterRepo) TouchLogin(ctx context.Context, characterID uint32) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET num_logins = num_logins + 1, last_login = NOW() WHERE id = $1`,
		characterID,
	)
	return err
}

// UpdateActiveDrawer persists the selected ability drawer.
func (r *CharacterRepo) UpdateActiveDrawer(ctx context.Context, characterID uint32, drawer int16) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE characters SET active_drawer = $2 WHERE id = $1`,
		characterID, drawer,
	)
	return err
}

func (r *CharacterRepo) LoadSkills(ctx context.Context, characterID uint32) ([]CharacterSkillRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT skill_id, ability_id, skill_level
		 FROM character_skills WHERE character_id = $1 ORDER BY skill_id`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CharacterSkillRow
	for rows.Next() {
		var s CharacterSkillRow
		if err := rows.Scan(&s.SkillID, &s.AbilityID, &s.SkillLevel); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// UpsertSkill persists one skill level change.
func (r *CharacterRepo) UpsertSkill(ctx context.Context, characterID uint32, s CharacterSkillRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_skills (character_id, skill_id, ability_id, skill_level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (character_id, skill_id)
		 DO UPDATE SET ability_id = $3, skill_level = $4`,
		characterID, s.SkillID, s.AbilityID, s.SkillLevel,
	)
	return err
}

func (r *CharacterRepo) LoadAbilitySlots(ctx context.Context, characterID uint32) ([]CharacterAbilityRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT slot_id, ability_id, ability_level
		 FROM character_abilities WHERE character_id = $1 ORDER BY slot_id`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CharacterAbilityRow
	for rows.Next() {
		var a CharacterAbilityRow
		if err := rows.Scan(&a.SlotID, &a.AbilityID, &a.AbilityLevel); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertAbilitySlot persists one drawer slot binding. An ability id of 0
// clears the slot.
func (r *CharacterRepo) UpsertAbilitySlot(ctx context.Context, characterID uint32, a CharacterAbilityRow) error {
	if a.AbilityID == 0 {
		_, err := r.db.Pool.Exec(ctx,
			`DELETE FROM character_abilities WHERE character_id = $1 AND slot_id = $2`,
			characterID, a.SlotID,
		)
		return err
	}
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_abilities (character_id, slot_id, ability_id, ability_level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (character_id, slot_id)
		 DO UPDATE SET ability_id = $3, ability_level = $4`,
		characterID, a.SlotID, a.AbilityID, a.AbilityLevel,
	)
	return err
}

func (r *CharacterRepo) LoadAppearance(ctx context.Context, characterID uint32) ([]CharacterAppearanceRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT slot_id, class_id, color
		 FROM character_appearance WHERE character_id = $1 ORDER BY slot_id`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CharacterAppearanceRow
	for rows.Next() {
		var a CharacterAppearanceRow
		if err := rows.Scan(&a.SlotID, &a.ClassID, &a.Color); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *CharacterRepo) UpsertAppearance(ctx context.Context, characterID uint32, a CharacterAppearanceRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_appearance (character_id, slot_id, class_id, color)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (character_id, slot_id)
		 DO UPDATE SET class_id = $3, color = $4`,
		characterID, a.SlotID, a.ClassID, a.Color,
	)
	return err
}

func (r *CharacterRepo) DeleteAppearance(ctx context.Context, characterID uint32, slotID int32) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM character_appearance WHERE character_id = $1 AND slot_id = $2`,
		characterID, slotID,
	)
	return err
}

func (r *CharacterRepo) LoadTitles(ctx context.Context, characterID uint32) ([]int32, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT title_id FROM character_titles WHERE character_id = $1 ORDER BY title_id`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int32
	for rows.Next() {
		var t int32
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CharacterRepo) LoadMissions(ctx context.Context, characterID uint32) ([]CharacterMissionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT mission_id, mission_state, completed
		 FROM character_missions WHERE character_id = $1`,
		characterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CharacterMissionRow
	for rows.Next() {
		var m CharacterMissionRow
		if err := rows.Scan(&m.MissionID, &m.MissionState, &m.Completed); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *CharacterRepo) UpsertMission(ctx context.Context, characterID uint32, m CharacterMissionRow) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO character_missions (character_id, mission_id, mission_state, completed)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (character_id, mission_id)
		 DO UPDATE SET mission_state = $3, completed = $4`,
		characterID, m.MissionID, m.MissionState, m.Completed,
	)
	return err
}
