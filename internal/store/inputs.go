package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/xonecas/tilawa/internal/constants"
)

// AddInput records a submitted question. Repeating the most recent entry is
// a no-op. Only the newest MaxInputHistory entries are kept.
func (s *Store) AddInput(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var last string
	err := s.db.QueryRow(`SELECT text FROM input_history ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err == nil && last == text {
		return nil
	}

	if _, err := s.db.Exec(`
		INSERT INTO input_history (text, created_at) VALUES (?, ?)
	`, text, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert input: %w", err)
	}

	if _, err := s.db.Exec(`
		DELETE FROM input_history
		WHERE id NOT IN (SELECT id FROM input_history ORDER BY id DESC LIMIT ?)
	`, constants.MaxInputHistory); err != nil {
		return fmt.Errorf("prune input history: %w", err)
	}
	return nil
}

// RecentInputs returns up to limit recorded inputs, oldest first.
func (s *Store) RecentInputs(limit int) ([]string, error) {
	if limit <= 0 {
		limit = constants.MaxInputHistory
	}
	rows, err := s.db.Query(`
		SELECT text FROM input_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query inputs: %w", err)
	}
	defer rows.Close()

	var inputs []string
	for rows.Next() {
		var text string
		if err := rows.Scan(&text); err != nil {
			return nil, fmt.Errorf("scan input: %w", err)
		}
		inputs = append(inputs, text)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse to get chronological order
	for i, j := 0, len(inputs)-1; i < j; i, j = i+1, j-1 {
		inputs[i], inputs[j] = inputs[j], inputs[i]
	}
	return inputs, nil
}

// ClearInputs deletes the input history.
func (s *Store) ClearInputs() error {
	_, err := s.db.Exec(`DELETE FROM input_history`)
	return err
}
