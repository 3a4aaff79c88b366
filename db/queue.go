package db

import (
	"fmt"

	"github.com/vista85/vista-sync/pkg/models"
)

// Enqueue appends a mutation to the sync queue.
func (db *DB) Enqueue(m *models.Mutation) error {
	query := `
	INSERT INTO sync_queue (action, target_table, payload, timestamp)
	VALUES (?, ?, ?, ?)
	`

	result, err := db.Exec(query, m.Action, m.Table, string(m.Payload), m.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to enqueue mutation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get mutation id: %w", err)
	}
	m.ID = id

	return nil
}

// PendingMutations returns all queued mutations ordered by timestamp
// ascending, with the auto-increment ID as tiebreaker. This is the replay
// order used by the sync engine.
func (db *DB) PendingMutations() ([]*models.Mutation, error) {
	query := `
	SELECT id, action, target_table, payload, timestamp
	FROM sync_queue
	ORDER BY timestamp ASC, id ASC
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync queue: %w", err)
	}
	defer rows.Close()

	var mutations []*models.Mutation
	for rows.Next() {
		var m models.Mutation
		var payload string
		if err := rows.Scan(&m.ID, &m.Action, &m.Table, &payload, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan mutation: %w", err)
		}
		m.Payload = []byte(payload)
		mutations = append(mutations, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sync queue: %w", err)
	}

	return mutations, nil
}

// DeleteMutation removes a replayed mutation from the sync queue.
func (db *DB) DeleteMutation(id int64) error {
	result, err := db.Exec(`DELETE FROM sync_queue WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete mutation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("mutation %d: %w", id, ErrNotFound)
	}

	return nil
}
