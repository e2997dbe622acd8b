package coordinator

import (
	"context"

	"github.com/hazyhaar/jobfill/bridge"
)

// handle dispatches one bus message. One case per kind; everything else
// is logged and dropped. Platform failures (store, dead inspector)
// become failure responses, never panics.
func (c *Coordinator) handle(ctx context.Context, msg bridge.Message) bridge.Response {
	switch msg.Kind {
	case bridge.KindGetUserProfile:
		p, err := c.store.Profile(ctx)
		if err != nil {
			return bridge.Failuref("load profile: %v", err)
		}
		return bridge.OK(p)

	case bridge.KindUpdateUserProfile:
		var req bridge.UpdateProfileRequest
		if err := msg.DecodePayload(&req); err != nil {
			return bridge.Failuref("update profile: %v", err)
		}
		if err := c.store.PutProfile(ctx, &req.Profile); err != nil {
			return bridge.Failuref("save profile: %v", err)
		}
		return bridge.OK(nil)

	case bridge.KindGetSiteConfig:
		var req bridge.SiteConfigRequest
		if err := msg.DecodePayload(&req); err != nil {
			return bridge.Failuref("get site config: %v", err)
		}
		sc, err := c.store.SiteConfig(ctx, req.Domain)
		if err != nil {
			return bridge.Failuref("load site config: %v", err)
		}
		// An unknown domain is a valid "nothing configured", not an error.
		return bridge.OK(sc)

	case bridge.KindUpdateSiteConfig:
		var req bridge.UpdateSiteConfigRequest
		if err := msg.DecodePayload(&req); err != nil {
			return bridge.Failuref("update site config: %v", err)
		}
		if err := c.store.PutSiteConfig(ctx, req.Config); err != nil {
			return bridge.Failuref("save site config: %v", err)
		}
		return bridge.OK(nil)

	case bridge.KindAutofillForm:
		return c.forwardAutofill(ctx, msg)

	case bridge.KindDetectForms, bridge.KindGetFormData:
		var req bridge.PageRequest
		if len(msg.Payload) > 0 {
			if err := msg.DecodePayload(&req); err != nil {
				return bridge.Failuref("%s: %v", msg.Kind, err)
			}
		}
		return c.forward(ctx, msg.Kind, req.Page, nil)

	case bridge.KindFormsDetected:
		var report bridge.DetectionReport
		if err := msg.DecodePayload(&report); err != nil {
			c.logger.Warn("coordinator: bad detection report",
				"sender", msg.Sender, "error", err)
			return bridge.OK(nil)
		}
		// Time-sortable record ID: UI surfaces list reports as a series.
		report.ID = c.ids()
		c.mu.Lock()
		c.reports[report.Page] = report
		c.mu.Unlock()
		c.logger.Info("coordinator: forms detected",
			"page", report.Page, "url", report.URL, "forms", len(report.Forms))
		return bridge.OK(nil)

	default:
		c.logger.Warn("coordinator: unrecognized message kind",
			"kind", string(msg.Kind), "sender", msg.Sender)
		return bridge.Drop()
	}
}

// forwardAutofill resolves the target page, then hands the fill request
// to that page's inspector. No addressable page fails immediately with
// a descriptive error; there is no retry.
func (c *Coordinator) forwardAutofill(ctx context.Context, msg bridge.Message) bridge.Response {
	var req bridge.AutofillRequest
	if err := msg.DecodePayload(&req); err != nil {
		return bridge.Failuref("autofill: %v", err)
	}

	page := c.resolvePage(req.Page)
	if page == "" {
		return bridge.Failure("autofill: no active page")
	}
	req.Page = page

	resp, err := c.conn.Call(ctx, page, bridge.KindAutofillForm, req)
	if err != nil {
		return bridge.Failuref("autofill: page %s: %v", page, err)
	}
	return resp
}

// forward relays a page-addressed request to its inspector.
func (c *Coordinator) forward(ctx context.Context, kind bridge.Kind, requested string, payload any) bridge.Response {
	page := c.resolvePage(requested)
	if page == "" {
		return bridge.Failuref("%s: no active page", kind)
	}
	resp, err := c.conn.Call(ctx, page, kind, payload)
	if err != nil {
		return bridge.Failuref("%s: page %s: %v", kind, page, err)
	}
	return resp
}
