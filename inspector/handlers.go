package inspector

import (
	"context"

	"github.com/hazyhaar/jobfill/bridge"
)

// handle dispatches one bus message on the inspector's loop. One case
// per kind this context accepts; anything else is logged and dropped.
func (ins *Inspector) handle(ctx context.Context, msg bridge.Message) bridge.Response {
	switch msg.Kind {
	case bridge.KindDetectForms:
		report, err := ins.detect(ctx, false)
		if err != nil {
			return bridge.Failuref("detect forms: %v", err)
		}
		return bridge.OK(report)

	case bridge.KindGetFormData:
		report, err := ins.detect(ctx, true)
		if err != nil {
			return bridge.Failuref("get form data: %v", err)
		}
		return bridge.OK(report)

	case bridge.KindAutofillForm:
		var req bridge.AutofillRequest
		if err := msg.DecodePayload(&req); err != nil {
			return bridge.Failuref("autofill: %v", err)
		}
		filled := ins.autofill(ctx, req.Values)
		return bridge.OK(bridge.AutofillResult{Filled: filled})

	case bridge.KindJobSiteDetected:
		// Coordinator says this page's host matches an enabled site
		// config: rescan immediately, skipping the debounce.
		ins.rescan(ctx)
		return bridge.OK(nil)

	default:
		ins.logger.Warn("inspector: unrecognized message kind",
			"page", ins.name, "kind", string(msg.Kind), "sender", msg.Sender)
		return bridge.Drop()
	}
}
