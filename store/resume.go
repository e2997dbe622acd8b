package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Resume is the stored resume document.
type Resume struct {
	Filename   string `json:"filename"`
	Data       []byte `json:"-"`
	PageCount  int    `json:"pageCount"`
	UploadedAt int64  `json:"uploadedAt"`
}

// Resume returns the stored resume, or nil when none has been uploaded.
func (s *Store) Resume(ctx context.Context) (*Resume, error) {
	r := &Resume{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT filename, data, page_count, uploaded_at
		FROM resume WHERE id = 1`).Scan(&r.Filename, &r.Data, &r.PageCount, &r.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: load resume: %w", err)
	}
	return r, nil
}

// PutResume replaces the stored resume.
func (s *Store) PutResume(ctx context.Context, r Resume) error {
	if r.UploadedAt == 0 {
		r.UploadedAt = time.Now().UnixMilli()
	}
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO resume (id, filename, data, page_count, uploaded_at)
		VALUES (1,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			filename    = excluded.filename,
			data        = excluded.data,
			page_count  = excluded.page_count,
			uploaded_at = excluded.uploaded_at`,
		r.Filename, r.Data, r.PageCount, r.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save resume: %w", err)
	}
	return nil
}
