// Package profile defines the user profile and per-site configuration
// records jobfill fills from. The core only reads profiles as input;
// persistence belongs to the store collaborator.
package profile

// PersonalInfo groups the identity and address fields.
type PersonalInfo struct {
	FirstName string `json:"firstName" yaml:"first_name"`
	LastName  string `json:"lastName" yaml:"last_name"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	Address   string `json:"address" yaml:"address"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	ZipCode   string `json:"zipCode" yaml:"zip_code"`
	Country   string `json:"country" yaml:"country"`
}

// WorkInfo groups career fields.
type WorkInfo struct {
	CurrentTitle string   `json:"currentTitle" yaml:"current_title"`
	Experience   string   `json:"experience" yaml:"experience"`
	Skills       []string `json:"skills" yaml:"skills"`
	LinkedinURL  string   `json:"linkedinUrl" yaml:"linkedin_url"`
	PortfolioURL string   `json:"portfolioUrl" yaml:"portfolio_url"`
	GithubURL    string   `json:"githubUrl" yaml:"github_url"`
}

// Preferences groups application preferences.
type Preferences struct {
	DesiredSalary      string `json:"desiredSalary" yaml:"desired_salary"`
	AvailableStartDate string `json:"availableStartDate" yaml:"available_start_date"`
	WorkAuthorization  string `json:"workAuthorization" yaml:"work_authorization"`
	WillingToRelocate  bool   `json:"willingToRelocate" yaml:"willing_to_relocate"`
}

// UserProfile is the data autofill writes into forms.
type UserProfile struct {
	PersonalInfo PersonalInfo `json:"personalInfo" yaml:"personal_info"`
	WorkInfo     WorkInfo     `json:"workInfo" yaml:"work_info"`
	Preferences  Preferences  `json:"preferences" yaml:"preferences"`
}

// Default returns an all-empty profile, seeded into the store on first run.
func Default() *UserProfile {
	return &UserProfile{WorkInfo: WorkInfo{Skills: []string{}}}
}

// FormValues flattens the profile into canonical-field keyed fill values.
// Skills are deliberately absent: no canonical field carries them.
func (p *UserProfile) FormValues() map[string]any {
	return map[string]any{
		"firstName":          p.PersonalInfo.FirstName,
		"lastName":           p.PersonalInfo.LastName,
		"email":              p.PersonalInfo.Email,
		"phone":              p.PersonalInfo.Phone,
		"address":            p.PersonalInfo.Address,
		"city":               p.PersonalInfo.City,
		"state":              p.PersonalInfo.State,
		"zipCode":            p.PersonalInfo.ZipCode,
		"country":            p.PersonalInfo.Country,
		"currentTitle":       p.WorkInfo.CurrentTitle,
		"experience":         p.WorkInfo.Experience,
		"linkedinUrl":        p.WorkInfo.LinkedinURL,
		"portfolioUrl":       p.WorkInfo.PortfolioURL,
		"githubUrl":          p.WorkInfo.GithubURL,
		"desiredSalary":      p.Preferences.DesiredSalary,
		"availableStartDate": p.Preferences.AvailableStartDate,
		"workAuthorization":  p.Preferences.WorkAuthorization,
		"willingToRelocate":  p.Preferences.WillingToRelocate,
	}
}

// SiteConfig holds per-domain overrides: hand-written field selectors and
// an enabled switch that gates the JOB_SITE_DETECTED notification.
type SiteConfig struct {
	Domain          string            `json:"domain"`
	FieldMappings   map[string]string `json:"fieldMappings"`
	CustomSelectors map[string]string `json:"customSelectors"`
	Enabled         bool              `json:"enabled"`
}

// DefaultSiteConfigs seeds the store on first run with the hand-tuned
// selectors for the major job boards.
func DefaultSiteConfigs() map[string]SiteConfig {
	return map[string]SiteConfig{
		"linkedin.com": {
			Domain: "linkedin.com",
			FieldMappings: map[string]string{
				"firstName": `input[name="firstName"], input[id*="firstName"]`,
				"lastName":  `input[name="lastName"], input[id*="lastName"]`,
				"email":     `input[type="email"], input[name="email"]`,
				"phone":     `input[type="tel"], input[name="phone"]`,
			},
			CustomSelectors: map[string]string{},
			Enabled:         true,
		},
		"indeed.com": {
			Domain: "indeed.com",
			FieldMappings: map[string]string{
				"firstName": `input[name="firstName"]`,
				"lastName":  `input[name="lastName"]`,
				"email":     `input[name="email"]`,
				"phone":     `input[name="phone"]`,
			},
			CustomSelectors: map[string]string{},
			Enabled:         true,
		},
		"glassdoor.com": {
			Domain: "glassdoor.com",
			FieldMappings: map[string]string{
				"firstName": `input[name="firstName"]`,
				"lastName":  `input[name="lastName"]`,
				"email":     `input[name="email"]`,
				"phone":     `input[name="phoneNumber"]`,
			},
			CustomSelectors: map[string]string{},
			Enabled:         true,
		},
	}
}
