package bridge

import (
	"github.com/hazyhaar/jobfill/formscan"
	"github.com/hazyhaar/jobfill/profile"
)

// Payload types form a closed union over the message kinds: each kind
// carries exactly one of these shapes, and dispatchers switch on the
// kind with a case per entry.

// SiteConfigRequest asks for the config of one domain (GET_SITE_CONFIG).
type SiteConfigRequest struct {
	Domain string `json:"domain"`
}

// UpdateProfileRequest replaces the stored profile (UPDATE_USER_PROFILE).
type UpdateProfileRequest struct {
	Profile profile.UserProfile `json:"profile"`
}

// UpdateSiteConfigRequest upserts one site config (UPDATE_SITE_CONFIG).
type UpdateSiteConfigRequest struct {
	Config profile.SiteConfig `json:"config"`
}

// PageRequest addresses a request to a specific page (DETECT_FORMS,
// GET_FORM_DATA).
type PageRequest struct {
	Page string `json:"page"`
}

// AutofillRequest asks a page to fill its detected forms (AUTOFILL_FORM).
// Values are keyed by canonical field name; an empty Page means the
// coordinator picks the active page.
type AutofillRequest struct {
	Page   string         `json:"page"`
	Values map[string]any `json:"values"`
}

// AutofillResult reports how many fields a fill pass wrote.
type AutofillResult struct {
	Filled int `json:"filled"`
}

// FormReport is one detected form plus, on the diagnostic path, its
// captured outer HTML for preview rendering.
type FormReport struct {
	formscan.DetectedForm
	HTML string `json:"html,omitempty"`
}

// DetectionReport is the payload of FORMS_DETECTED and the response to
// DETECT_FORMS and GET_FORM_DATA.
type DetectionReport struct {
	// ID is stamped by the coordinator when the report is recorded;
	// reports carry none in flight.
	ID    string       `json:"id,omitempty"`
	Page  string       `json:"page"`
	URL   string       `json:"url"`
	Forms []FormReport `json:"forms"`
}

// JobSiteNotice is the payload of JOB_SITE_DETECTED.
type JobSiteNotice struct {
	Page   string `json:"page"`
	Domain string `json:"domain"`
}
