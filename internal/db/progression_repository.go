package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/corebank/internal/game/core"
)

// ProgressionRepository хранит прогресс core: флаги, слоты и ledger усилений.
type ProgressionRepository struct {
	db *pgxpool.Pool
}

// NewProgressionRepository создаёт новый ProgressionRepository.
func NewProgressionRepository(db *pgxpool.Pool) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// LoadProgress loads the saved progress of a character.
// A character without a row gets an empty snapshot, not an error.
func (r *ProgressionRepository) LoadProgress(ctx context.Context, characterID int64) (core.Snapshot, error) {
	var (
		snap  core.Snapshot
		slots [core.SlotCount]*int32 // nullable
	)

	err := r.db.QueryRow(ctx,
		`SELECT killed_boss, slots_unlocked, slot0, slot1, slot2
		 FROM core_progress WHERE character_id = $1`, characterID,
	).Scan(&snap.KilledBoss, &snap.SlotsUnlocked, &slots[0], &slots[1], &slots[2])
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Snapshot{}, nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("querying core progress of character %d: %w", characterID, err)
	}
	for i, v := range slots {
		if v != nil {
			snap.Slots[i] = *v
		}
	}

	rows, err := r.db.Query(ctx,
		`SELECT item_type_id, level FROM core_enhancements
		 WHERE character_id = $1 ORDER BY item_type_id`, characterID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("querying enhancements of character %d: %w", characterID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e     core.Enhancement
			level int16
		)
		if err := rows.Scan(&e.ItemType, &level); err != nil {
			return core.Snapshot{}, fmt.Errorf("scanning enhancement row: %w", err)
		}
		e.Level = int32(level)
		snap.Enhancements = append(snap.Enhancements, e)
	}
	if err := rows.Err(); err != nil {
		return core.Snapshot{}, fmt.Errorf("iterating enhancement rows: %w", err)
	}

	return snap, nil
}

// SaveProgress replaces the stored progress of a character in one transaction.
func (r *ProgressionRepository) SaveProgress(ctx context.Context, characterID int64, snap core.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction for character %d: %w", characterID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			slog.Error("rollback failed", "characterID", characterID, "error", err)
		}
	}()

	if err := r.saveProgressTx(ctx, tx, characterID, snap); err != nil {
		return err
	}
	saved, err := r.saveEnhancementsTx(ctx, tx, characterID, snap.Enhancements)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction for character %d: %w", characterID, err)
	}

	slog.Debug("core progress saved",
		"characterID", characterID,
		"slots", snap.Slots,
		"enhancements", saved)
	return nil
}

func (r *ProgressionRepository) saveProgressTx(ctx context.Context, tx pgx.Tx, characterID int64, snap core.Snapshot) error {
	var slots [core.SlotCount]*int32
	for i, v := range snap.Slots {
		if v != 0 {
			slots[i] = &v
		}
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO core_progress
		 (character_id, killed_boss, slots_unlocked, slot0, slot1, slot2, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW())
		 ON CONFLICT (character_id) DO UPDATE SET
		  killed_boss = $2, slots_unlocked = $3,
		  slot0 = $4, slot1 = $5, slot2 = $6, updated_at = NOW()`,
		characterID, snap.KilledBoss, snap.SlotsUnlocked, slots[0], slots[1], slots[2],
	)
	if err != nil {
		return fmt.Errorf("saving core progress of character %d: %w", characterID, err)
	}
	return nil
}

// saveEnhancementsTx делает full replace ledger; нулевые и битые уровни не пишутся,
// повторы item type схлопываются в один ряд.
func (r *ProgressionRepository) saveEnhancementsTx(ctx context.Context, tx pgx.Tx, characterID int64, entries []core.Enhancement) (int, error) {
	if _, err := tx.Exec(ctx, `DELETE FROM core_enhancements WHERE character_id = $1`, characterID); err != nil {
		return 0, fmt.Errorf("deleting old enhancements of character %d: %w", characterID, err)
	}

	rows := make([][]any, 0, len(entries))
	seen := make(map[int32]int, len(entries)) // itemType -> index в rows
	for _, e := range entries {
		if e.Level <= 0 || e.Level > core.MaxEnhanceLevel {
			slog.Warn("skipping invalid enhancement",
				"characterID", characterID,
				"itemType", e.ItemType,
				"level", e.Level)
			continue
		}
		// Повтор item type нарушил бы PK; ledger монотонен, оставляем максимум.
		if i, ok := seen[e.ItemType]; ok {
			if level := int16(e.Level); level > rows[i][2].(int16) {
				rows[i][2] = level
			}
			continue
		}
		seen[e.ItemType] = len(rows)
		rows = append(rows, []any{characterID, e.ItemType, int16(e.Level)})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{"core_enhancements"},
		[]string{"character_id", "item_type_id", "level"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting enhancements of character %d: %w", characterID, err)
	}
	return len(rows), nil
}

// DeleteProgress removes all core progress of a character.
func (r *ProgressionRepository) DeleteProgress(ctx context.Context, characterID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM core_progress WHERE character_id = $1`, characterID); err != nil {
		return fmt.Errorf("deleting core progress of character %d: %w", characterID, err)
	}
	return nil
}

// ListCharacters returns ids of all characters with saved progress, ascending.
func (r *ProgressionRepository) ListCharacters(ctx context.Context) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT character_id FROM core_progress ORDER BY character_id`)
	if err != nil {
		return nil, fmt.Errorf("querying characters: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("collecting character ids: %w", err)
	}
	return ids, nil
}
