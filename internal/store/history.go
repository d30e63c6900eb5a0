package store

import (
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

func (s *Store) loadHistory(q execer) ([]HistoryEntry, error) {
	var history []HistoryEntry
	_, err := getJSON(q, KeyCustomFoodHistory, &history)
	if isDecodeFault(err) {
		s.log.Warn("custom food history unreadable, treating as empty",
			zap.String("key", KeyCustomFoodHistory), zap.Error(err))
		return []HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []HistoryEntry{}
	}
	return history, nil
}

// CustomFoodHistory returns every custom food ever entered, oldest first.
func (s *Store) CustomFoodHistory() ([]HistoryEntry, error) {
	history, err := s.loadHistory(s.db)
	if err != nil {
		return nil, fmt.Errorf("custom food history: %w", err)
	}
	return history, nil
}

// AddCustomFood appends entry unless a food with the same name (ignoring
// case) is already remembered. Either way the food is present afterwards.
// History is append-only.
func (s *Store) AddCustomFood(entry HistoryEntry) error {
	err := s.update(func(tx *sql.Tx) error {
		history, err := s.loadHistory(tx)
		if err != nil {
			return err
		}
		for _, h := range history {
			if strings.EqualFold(h.Name, entry.Name) {
				return nil
			}
		}
		return s.putJSON(tx, KeyCustomFoodHistory, append(history, entry))
	})
	if err != nil {
		return fmt.Errorf("add custom food %q: %w", entry.Name, err)
	}
	return nil
}
