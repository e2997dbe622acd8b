package profile

import (
	"strings"
)

// ParseText imports a profile from the line-oriented plain-text grammar:
// one "Key: Value" pair per line, keys case-insensitive. Lines without a
// colon, lines with an empty value and unknown keys are ignored. The
// result always starts from the all-empty default; nothing partial is
// ever merged into an existing profile.
//
// Recognized keys: name, email, phone, address, city, state, zip/zipcode,
// country, title/job title, experience, skills, linkedin, portfolio,
// github, salary, start date, work authorization, relocate.
func ParseText(text string) *UserProfile {
	p := Default()

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch key {
		case "name":
			first, last, _ := strings.Cut(value, " ")
			p.PersonalInfo.FirstName = first
			p.PersonalInfo.LastName = strings.TrimSpace(last)
		case "email":
			p.PersonalInfo.Email = value
		case "phone":
			p.PersonalInfo.Phone = value
		case "address":
			p.PersonalInfo.Address = value
		case "city":
			p.PersonalInfo.City = value
		case "state":
			p.PersonalInfo.State = value
		case "zip", "zipcode":
			p.PersonalInfo.ZipCode = value
		case "country":
			p.PersonalInfo.Country = value
		case "title", "job title":
			p.WorkInfo.CurrentTitle = value
		case "experience":
			p.WorkInfo.Experience = value
		case "skills":
			p.WorkInfo.Skills = splitSkills(value)
		case "linkedin":
			p.WorkInfo.LinkedinURL = value
		case "portfolio":
			p.WorkInfo.PortfolioURL = value
		case "github":
			p.WorkInfo.GithubURL = value
		case "salary":
			p.Preferences.DesiredSalary = value
		case "start date":
			p.Preferences.AvailableStartDate = value
		case "work authorization":
			p.Preferences.WorkAuthorization = value
		case "relocate":
			v := strings.ToLower(value)
			p.Preferences.WillingToRelocate = v == "yes" || v == "true"
		}
	}
	return p
}

func splitSkills(value string) []string {
	var skills []string
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
