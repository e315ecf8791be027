package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lawnchairsociety/dungeondelve/internal/logger"
)

// SaveGame writes a snapshot payload into the named slot, creating or
// overwriting it. Slot names are compared case-insensitively.
func (d *Database) SaveGame(slot, characterName string, tier int, payload []byte) error {
	now := time.Now().UTC()

	query := d.qb.Build(`
		INSERT INTO saves (slot, character_name, tier, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			character_name = excluded.character_name,
			tier = excluded.tier,
			payload = excluded.payload,
			updated_at = excluded.updated_at`)

	if _, err := d.db.Exec(query, slot, characterName, tier, string(payload), now, now); err != nil {
		return fmt.Errorf("failed to save game to slot %q: %w", slot, err)
	}

	logger.Info("Game saved", "slot", slot, "character", characterName, "tier", tier)
	return nil
}

// LoadGame returns the snapshot payload stored in the named slot.
func (d *Database) LoadGame(slot string) ([]byte, error) {
	query := d.qb.Build(`SELECT payload FROM saves WHERE slot = ?`)

	var payload string
	err := d.db.QueryRow(query, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %q: %w", slot, ErrSlotNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %q: %w", slot, err)
	}
	return []byte(payload), nil
}

// ListSaves returns every slot's metadata, most recently updated first.
func (d *Database) ListSaves() ([]SlotInfo, error) {
	query := d.qb.Build(`
		SELECT slot, character_name, tier, created_at, updated_at
		FROM saves
		ORDER BY updated_at DESC`)

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list saves: %w", err)
	}
	defer rows.Close()

	var saves []SlotInfo
	for rows.Next() {
		var info SlotInfo
		if err := rows.Scan(&info.Slot, &info.CharacterName, &info.Tier,
			&info.CreatedAt, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan save row: %w", err)
		}
		saves = append(saves, info)
	}
	return saves, rows.Err()
}

// DeleteSave removes the named slot.
func (d *Database) DeleteSave(slot string) error {
	query := d.qb.Build(`DELETE FROM saves WHERE slot = ?`)

	result, err := d.db.Exec(query, slot)
	if err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", slot, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm delete of slot %q: %w", slot, err)
	}
	if affected == 0 {
		return fmt.Errorf("slot %q: %w", slot, ErrSlotNotFound)
	}

	logger.Info("Save deleted", "slot", slot)
	return nil
}

// HasSave reports whether the named slot exists.
func (d *Database) HasSave(slot string) (bool, error) {
	query := d.qb.Build(`SELECT 1 FROM saves WHERE slot = ?`)

	var one int
	err := d.db.QueryRow(query, slot).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check slot %q: %w", slot, err)
	}
	return true, nil
}
