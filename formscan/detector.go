package formscan

import (
	"strings"

	"github.com/hazyhaar/jobfill/dom"
	"github.com/hazyhaar/jobfill/vocab"
)

// FieldDescriptor is the serializable view of one form field, derived from
// a dom snapshot. Value is populated only by FormData.
type FieldDescriptor struct {
	Name        string `json:"name"`
	ElementType string `json:"elementType"`
	Placeholder string `json:"placeholder"`
	Label       string `json:"label"`
	Required    bool   `json:"required"`
	Value       string `json:"value,omitempty"`
}

// DetectedForm is the serializable inventory of one detected form.
type DetectedForm struct {
	Identity string            `json:"identity"`
	Action   string            `json:"action"`
	Method   string            `json:"method"`
	Fields   []FieldDescriptor `json:"fields"`
}

// DetectJobForms returns the forms classified as job applications, in
// document order. The classification is deliberately permissive: an
// unnecessary autofill affordance beats a missed real one.
func DetectJobForms(forms []dom.FormSnapshot, pageURL string) []dom.FormSnapshot {
	var detected []dom.FormSnapshot
	for _, f := range forms {
		if IsJobApplicationForm(f, pageURL) {
			detected = append(detected, f)
		}
	}
	return detected
}

// IsJobApplicationForm evaluates three independent signals; any one of them
// classifies the form as a job application:
//
//  1. the form's visible text and attributes contain a job keyword;
//  2. an input names a personal-info token AND the form has a file upload
//     (resume proxy);
//  3. the page URL contains a job keyword.
func IsJobApplicationForm(form dom.FormSnapshot, pageURL string) bool {
	return hasJobKeywords(form) ||
		(hasPersonalFields(form) && form.HasFileInput) ||
		hasJobURL(pageURL)
}

func hasJobKeywords(form dom.FormSnapshot) bool {
	text := strings.ToLower(form.Text)
	for _, kw := range vocab.JobKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func hasPersonalFields(form dom.FormSnapshot) bool {
	for _, fs := range form.Fields {
		text := fs.Name
		if text == "" {
			text = fs.Placeholder
		}
		text = strings.ToLower(text)
		for _, token := range vocab.PersonalInfoTokens {
			if strings.Contains(text, token) {
				return true
			}
		}
	}
	return false
}

func hasJobURL(pageURL string) bool {
	url := strings.ToLower(pageURL)
	for _, kw := range vocab.JobKeywords {
		if strings.Contains(url, kw) {
			return true
		}
	}
	return false
}

// Inventory derives the serializable field inventory of a form.
func Inventory(form dom.FormSnapshot) DetectedForm {
	return inventory(form, false)
}

// FormData is the diagnostic variant of Inventory: it additionally carries
// each field's raw current value, for preview rendering. Not used for
// filling.
func FormData(form dom.FormSnapshot) DetectedForm {
	return inventory(form, true)
}

func inventory(form dom.FormSnapshot, withValues bool) DetectedForm {
	det := DetectedForm{
		Identity: form.Identity,
		Action:   form.Action,
		Method:   form.Method,
	}
	for _, fs := range form.Fields {
		fd := FieldDescriptor{
			Name:        fs.Name,
			ElementType: fs.Type,
			Placeholder: fs.Placeholder,
			Label:       fs.Label,
			Required:    fs.Required,
		}
		if withValues {
			fd.Value = fs.Value
		}
		det.Fields = append(det.Fields, fd)
	}
	return det
}
