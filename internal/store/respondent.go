package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// NextRespondentID issues the next respondent number for this device,
// starting from 1.
func (s *Store) NextRespondentID() (int, error) {
	var next int
	err := s.update(func(tx *sql.Tx) error {
		last, err := s.lastRespondent(tx)
		if err != nil {
			return err
		}
		next = last + 1
		return s.setRaw(tx, KeyLastRespondentID, strconv.Itoa(next))
	})
	if err != nil {
		return 0, fmt.Errorf("next respondent id: %w", err)
	}
	return next, nil
}

// LastRespondentID returns the most recently issued respondent number, or 0.
func (s *Store) LastRespondentID() (int, error) {
	last, err := s.lastRespondent(s.db)
	if err != nil {
		return 0, fmt.Errorf("last respondent id: %w", err)
	}
	return last, nil
}

func (s *Store) lastRespondent(q execer) (int, error) {
	raw, ok, err := getRaw(q, KeyLastRespondentID)
	if err != nil || !ok {
		return 0, err
	}
	last, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.log.Warn("last respondent id unreadable, restarting count",
			zap.String("value", raw), zap.Error(err))
		return 0, nil
	}
	return last, nil
}
