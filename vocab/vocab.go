// Package vocab defines the canonical profile fields jobfill understands and
// the synonym tokens its heuristics recognize on third-party forms.
//
// The vocabulary is pure data: extending it to a new canonical field or
// synonym is an edit here and nowhere else. Synonyms carry no precedence;
// matching treats every token in a set equally.
package vocab

// Field is a canonical profile attribute.
type Field string

// Personal info.
const (
	FirstName Field = "firstName"
	LastName  Field = "lastName"
	Email     Field = "email"
	Phone     Field = "phone"
	Address   Field = "address"
	City      Field = "city"
	State     Field = "state"
	ZipCode   Field = "zipCode"
	Country   Field = "country"
)

// Work info.
const (
	CurrentTitle Field = "currentTitle"
	Experience   Field = "experience"
	LinkedinURL  Field = "linkedinUrl"
	PortfolioURL Field = "portfolioUrl"
	GithubURL    Field = "githubUrl"
)

// Preferences.
const (
	DesiredSalary      Field = "desiredSalary"
	AvailableStartDate Field = "availableStartDate"
	WorkAuthorization  Field = "workAuthorization"
	WillingToRelocate  Field = "willingToRelocate"
)

// Fields lists every canonical field in a stable order: personal info,
// work info, preferences.
var Fields = []Field{
	FirstName, LastName, Email, Phone, Address, City, State, ZipCode, Country,
	CurrentTitle, Experience, LinkedinURL, PortfolioURL, GithubURL,
	DesiredSalary, AvailableStartDate, WorkAuthorization, WillingToRelocate,
}

// synonyms maps each canonical field to its ordered synonym tokens. All
// tokens are matched lowercase; keep entries lowercase-safe.
var synonyms = map[Field][]string{
	FirstName: {
		"firstName", "first_name", "fname", "givenName", "given_name",
		"first-name", "firstname", "name_first",
	},
	LastName: {
		"lastName", "last_name", "lname", "surname", "familyName", "family_name",
		"last-name", "lastname", "name_last",
	},
	Email: {
		"email", "emailAddress", "email_address", "e_mail", "e-mail",
		"mail", "email-address", "user_email",
	},
	Phone: {
		"phone", "phoneNumber", "phone_number", "telephone", "tel",
		"mobile", "cell", "phone-number", "contact_phone",
	},
	Address: {
		"address", "street", "streetAddress", "street_address", "address1",
		"address_1", "street-address", "home_address",
	},
	City: {
		"city", "town", "locality", "address_city", "address-city",
	},
	State: {
		"state", "province", "region", "stateProvince", "state_province",
		"address_state", "address-state",
	},
	ZipCode: {
		"zip", "zipCode", "zip_code", "postal", "postalCode", "postal_code",
		"postcode", "zip-code", "postal-code",
	},
	Country: {
		"country", "nation", "address_country", "address-country",
	},
	CurrentTitle: {
		"title", "jobTitle", "job_title", "position", "currentPosition",
		"current_position", "job-title", "current_title",
	},
	Experience: {
		"experience", "years_experience", "yearsExperience", "work_experience",
		"workExperience", "years-experience", "experience_years",
	},
	LinkedinURL: {
		"linkedin", "linkedinUrl", "linkedin_url", "linkedin_profile",
		"linkedinProfile", "linkedin-url", "linkedin-profile",
	},
	PortfolioURL: {
		"portfolio", "portfolioUrl", "portfolio_url", "website", "personal_website",
		"personalWebsite", "portfolio-url", "portfolio_website",
	},
	GithubURL: {
		"github", "githubUrl", "github_url", "github_profile", "githubProfile",
		"github-url", "github-profile",
	},
	DesiredSalary: {
		"salary", "expectedSalary", "expected_salary", "desired_salary",
		"desiredSalary", "salary_expectation", "salaryExpectation",
	},
	AvailableStartDate: {
		"startDate", "start_date", "availableDate", "available_date",
		"availability", "start-date", "available-date",
	},
	WorkAuthorization: {
		"workAuthorization", "work_authorization", "visa", "visaStatus",
		"visa_status", "authorization", "work-authorization",
	},
	WillingToRelocate: {
		"relocate", "relocation", "willing_to_relocate", "willingToRelocate",
		"can_relocate", "canRelocate", "willing-to-relocate",
	},
}

// Synonyms returns the ordered synonym tokens for a canonical field.
// The returned slice must not be modified.
func Synonyms(f Field) []string {
	return synonyms[f]
}

// JobKeywords are tokens whose presence in a form's text, attributes or the
// page URL classifies the form as a job application.
var JobKeywords = []string{
	"application", "apply", "job", "career", "position", "resume", "cv",
	"employment", "hiring", "candidate", "applicant", "work", "opportunity",
}

// PersonalInfoTokens are tokens looked up in input name/id/placeholder text
// for the structural detection signal.
var PersonalInfoTokens = []string{
	"firstName", "lastname", "email", "phone", "address", "city", "state",
	"zip", "postal", "country", "name", "contact",
}
