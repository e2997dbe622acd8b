package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/jobfill/profile"
)

// seed inserts the default profile and the built-in site configs when
// the corresponding tables are empty. Called once from Open.
func (s *Store) seed(ctx context.Context) error {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_profile`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if err := s.PutProfile(ctx, profile.Default()); err != nil {
			return err
		}
	}

	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM site_configs`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		for _, sc := range profile.DefaultSiteConfigs() {
			if err := s.PutSiteConfig(ctx, sc); err != nil {
				return err
			}
		}
	}
	return nil
}

// Profile returns the stored user profile.
func (s *Store) Profile(ctx context.Context) (*profile.UserProfile, error) {
	var raw string
	err := s.DB.QueryRowContext(ctx,
		`SELECT profile FROM user_profile WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load profile: %w", err)
	}

	var p profile.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("store: decode profile: %w", err)
	}
	return &p, nil
}

// PutProfile replaces the stored user profile.
func (s *Store) PutProfile(ctx context.Context, p *profile.UserProfile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: encode profile: %w", err)
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO user_profile (id, profile, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET profile = excluded.profile,
		                               updated_at = excluded.updated_at`,
		string(raw), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save profile: %w", err)
	}
	return nil
}
