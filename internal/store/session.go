package store

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// StartSession records configID as the active configuration, replacing any
// session already in progress, and counts it as a use of that configuration.
func (s *Store) StartSession(configID string) (*Session, error) {
	sess := &Session{ConfigID: configID, StartedAt: s.now().UTC()}
	if err := s.putJSON(s.db, KeyActiveSession, sess); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	if _, err := s.TouchUsage(configID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return sess, err
		}
		s.log.Warn("session started for unknown configuration", zap.String("config_id", configID))
	}
	return sess, nil
}

// ActiveSession returns the session in progress, or nil when there is none.
func (s *Store) ActiveSession() (*Session, error) {
	var sess Session
	found, err := getJSON(s.db, KeyActiveSession, &sess)
	if isDecodeFault(err) {
		s.log.Warn("active session unreadable, ignoring it",
			zap.String("key", KeyActiveSession), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	if !found || sess.ConfigID == "" {
		return nil, nil
	}
	return &sess, nil
}

// EndSession clears the active session. Ending when none is active is fine.
func (s *Store) EndSession() error {
	if err := deleteRaw(s.db, KeyActiveSession); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (s *Store) IsSessionActive() (bool, error) {
	sess, err := s.ActiveSession()
	return sess != nil, err
}
