package models

// PortfolioData is the working document a user builds up in the client and
// the embedded shape stored inside a Template. Entry ids are generated from
// wall-clock timestamps at creation; they are unique per list, not globally.
// List fields serialize even when empty so a partial update can clear a
// section that had entries.
type PortfolioData struct {
	Personal       PersonalInfo    `bson:"personal,omitempty" json:"personal,omitempty"`
	Experience     []Experience    `bson:"experience" json:"experience"`
	Projects       []Project       `bson:"projects" json:"projects"`
	Skills         []Skill         `bson:"skills" json:"skills"`
	Education      []Education     `bson:"education" json:"education"`
	Certifications []Certification `bson:"certifications" json:"certifications"`
	Languages      []Language      `bson:"languages" json:"languages"`
}

type PersonalInfo struct {
	FullName     string `bson:"fullName,omitempty" json:"fullName,omitempty"`
	Title        string `bson:"title,omitempty" json:"title,omitempty"`
	Bio          string `bson:"bio,omitempty" json:"bio,omitempty"`
	Email        string `bson:"email,omitempty" json:"email,omitempty"`
	Phone        string `bson:"phone,omitempty" json:"phone,omitempty"`
	Location     string `bson:"location,omitempty" json:"location,omitempty"`
	Website      string `bson:"website,omitempty" json:"website,omitempty"`
	LinkedIn     string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	GitHub       string `bson:"github,omitempty" json:"github,omitempty"`
	ProfileImage string `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
}

type Experience struct {
	ID           string   `bson:"id" json:"id"`
	JobTitle     string   `bson:"jobTitle" json:"jobTitle"`
	Company      string   `bson:"company" json:"company"`
	StartDate    string   `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate      string   `bson:"endDate,omitempty" json:"endDate,omitempty"`
	Current      bool     `bson:"current" json:"current"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	Skills       []string `bson:"skills,omitempty" json:"skills,omitempty"`
	Achievements []string `bson:"achievements,omitempty" json:"achievements,omitempty"`
}

type Project struct {
	ID            string `bson:"id" json:"id"`
	Name          string `bson:"name" json:"name"`
	Description   string `bson:"description" json:"description"`
	Technologies  string `bson:"technologies,omitempty" json:"technologies,omitempty"`
	LiveURL       string `bson:"url,omitempty" json:"url,omitempty"`
	RepoURL       string `bson:"github,omitempty" json:"github,omitempty"`
	Image         string `bson:"image,omitempty" json:"image,omitempty"`
	Featured      bool   `bson:"featured" json:"featured"`
	DateCompleted string `bson:"dateCompleted,omitempty" json:"dateCompleted,omitempty"`
}

// Skill levels accepted by the data model.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
	SkillExpert       = "expert"
)

type Skill struct {
	ID                string `bson:"id" json:"id"`
	Name              string `bson:"name" json:"name"`
	Level             string `bson:"level" json:"level"`
	Category          string `bson:"category,omitempty" json:"category,omitempty"`
	YearsOfExperience int    `bson:"yearsOfExperience,omitempty" json:"yearsOfExperience,omitempty"`
}

type Education struct {
	ID             string   `bson:"id" json:"id"`
	Degree         string   `bson:"degree" json:"degree"`
	Field          string   `bson:"field,omitempty" json:"field,omitempty"`
	School         string   `bson:"school" json:"school"`
	GraduationYear string   `bson:"graduationYear,omitempty" json:"graduationYear,omitempty"`
	GPA            string   `bson:"gpa,omitempty" json:"gpa,omitempty"`
	Achievements   []string `bson:"achievements,omitempty" json:"achievements,omitempty"`
	Relevant       bool     `bson:"relevant,omitempty" json:"relevant,omitempty"`
}

type Certification struct {
	ID           string `bson:"id" json:"id"`
	Name         string `bson:"name" json:"name"`
	Issuer       string `bson:"issuer,omitempty" json:"issuer,omitempty"`
	DateIssued   string `bson:"dateIssued,omitempty" json:"dateIssued,omitempty"`
	ExpiryDate   string `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	CredentialID string `bson:"credentialId,omitempty" json:"credentialId,omitempty"`
	URL          string `bson:"url,omitempty" json:"url,omitempty"`
}

type Language struct {
	ID          string `bson:"id" json:"id"`
	Language    string `bson:"language" json:"language"`
	Proficiency string `bson:"proficiency,omitempty" json:"proficiency,omitempty"`
}

// IsEmpty reports whether the document has no content at all. The preview
// layer renders a placeholder state instead of an empty template when true.
func (p PortfolioData) IsEmpty() bool {
	return p.Personal == (PersonalInfo{}) &&
		len(p.Experience) == 0 &&
		len(p.Projects) == 0 &&
		len(p.Skills) == 0 &&
		len(p.Education) == 0 &&
		len(p.Certifications) == 0 &&
		len(p.Languages) == 0
}
