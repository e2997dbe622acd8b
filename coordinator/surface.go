package coordinator

import (
	"context"

	"github.com/hazyhaar/jobfill/profile"
	"github.com/hazyhaar/jobfill/resume"
	"github.com/hazyhaar/jobfill/store"
)

// Process-local read helpers for in-binary surfaces (the HTTP options
// page). Writes still go over the bus so they serialize through the
// coordinator's mailbox like every other peer's.

// SiteConfigs lists every stored site config.
func (c *Coordinator) SiteConfigs(ctx context.Context) ([]profile.SiteConfig, error) {
	return c.store.ListSiteConfigs(ctx)
}

// StoreResume validates an uploaded resume and persists it.
func (c *Coordinator) StoreResume(ctx context.Context, filename string, data []byte) (*resume.Info, error) {
	info, err := resume.Validate(filename, data)
	if err != nil {
		return nil, err
	}
	err = c.store.PutResume(ctx, store.Resume{
		Filename:  info.Filename,
		Data:      data,
		PageCount: info.PageCount,
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// Resume returns the stored resume, nil when none was uploaded.
func (c *Coordinator) Resume(ctx context.Context) (*store.Resume, error) {
	return c.store.Resume(ctx)
}
