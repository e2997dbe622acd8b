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

// SiteConfig returns the config for an exact domain, or nil when absent.
func (s *Store) SiteConfig(ctx context.Context, domain string) (*profile.SiteConfig, error) {
	var (
		sc        profile.SiteConfig
		mappings  string
		selectors string
		enabled   int
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT domain, field_mappings, custom_selectors, enabled
		FROM site_configs WHERE domain = ?`, domain).Scan(
		&sc.Domain, &mappings, &selectors, &enabled,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load site config: %w", err)
	}
	if err := json.Unmarshal([]byte(mappings), &sc.FieldMappings); err != nil {
		return nil, fmt.Errorf("store: decode field mappings: %w", err)
	}
	if err := json.Unmarshal([]byte(selectors), &sc.CustomSelectors); err != nil {
		return nil, fmt.Errorf("store: decode custom selectors: %w", err)
	}
	sc.Enabled = enabled != 0
	return &sc, nil
}

// PutSiteConfig inserts or replaces a site config. Last writer wins.
func (s *Store) PutSiteConfig(ctx context.Context, sc profile.SiteConfig) error {
	mappings, err := json.Marshal(sc.FieldMappings)
	if err != nil {
		return fmt.Errorf("store: encode field mappings: %w", err)
	}
	selectors, err := json.Marshal(sc.CustomSelectors)
	if err != nil {
		return fmt.Errorf("store: encode custom selectors: %w", err)
	}
	enabled := 0
	if sc.Enabled {
		enabled = 1
	}
	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO site_configs (domain, field_mappings, custom_selectors, enabled, updated_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT (domain) DO UPDATE SET
			field_mappings   = excluded.field_mappings,
			custom_selectors = excluded.custom_selectors,
			enabled          = excluded.enabled,
			updated_at       = excluded.updated_at`,
		sc.Domain, string(mappings), string(selectors), enabled, time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: save site config: %w", err)
	}
	return nil
}

// ListSiteConfigs returns all site configs ordered by domain.
func (s *Store) ListSiteConfigs(ctx context.Context) ([]profile.SiteConfig, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT domain, field_mappings, custom_selectors, enabled
		FROM site_configs ORDER BY domain`)
	if err != nil {
		return nil, fmt.Errorf("store: list site configs: %w", err)
	}
	defer rows.Close()

	var out []profile.SiteConfig
	for rows.Next() {
		var (
			sc        profile.SiteConfig
			mappings  string
			selectors string
			enabled   int
		)
		if err := rows.Scan(&sc.Domain, &mappings, &selectors, &enabled); err != nil {
			return nil, fmt.Errorf("store: scan site config: %w", err)
		}
		if err := json.Unmarshal([]byte(mappings), &sc.FieldMappings); err != nil {
			return nil, fmt.Errorf("store: decode field mappings: %w", err)
		}
		if err := json.Unmarshal([]byte(selectors), &sc.CustomSelectors); err != nil {
			return nil, fmt.Errorf("store: decode custom selectors: %w", err)
		}
		sc.Enabled = enabled != 0
		out = append(out, sc)
	}
	return out, rows.Err()
}
