package builder

import (
	"html/template"
	"strings"

	"github.com/craftfolio/craftfolio-backend/internal/models"
)

// esc HTML-escapes user content before it lands in markup.
func esc(s string) string {
	return template.HTMLEscapeString(s)
}

func renderPlaceholder() string {
	return `<div class="preview-placeholder"><h4>No content to preview</h4><p>Add some content in the builder to see your portfolio here</p></div>`
}

// writeHeader emits the name/title/bio banner shared by all four layouts.
func writeHeader(b *strings.Builder, p models.PersonalInfo) {
	if p.FullName == "" {
		return
	}
	b.WriteString(`<header class="portfolio-header">`)
	b.WriteString("<h1>" + esc(p.FullName) + "</h1>")
	if p.Title != "" {
		b.WriteString("<p>" + esc(p.Title) + "</p>")
	}
	if p.Bio != "" {
		b.WriteString(`<p class="bio">` + esc(p.Bio) + "</p>")
	}
	b.WriteString(`<div class="contact-links">`)
	if p.Email != "" {
		b.WriteString(`<a href="mailto:` + esc(p.Email) + `">` + esc(p.Email) + "</a>")
	}
	if p.Phone != "" {
		b.WriteString(`<a href="tel:` + esc(p.Phone) + `">` + esc(p.Phone) + "</a>")
	}
	if p.Location != "" {
		b.WriteString("<span>" + esc(p.Location) + "</span>")
	}
	if p.LinkedIn != "" {
		b.WriteString(`<a href="` + esc(p.LinkedIn) + `">LinkedIn</a>`)
	}
	if p.GitHub != "" {
		b.WriteString(`<a href="` + esc(p.GitHub) + `">GitHub</a>`)
	}
	if p.Website != "" {
		b.WriteString(`<a href="` + esc(p.Website) + `">Website</a>`)
	}
	b.WriteString("</div></header>")
}

func writeExperience(b *strings.Builder, entries []models.Experience) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section experience"><h2>Experience</h2>`)
	for _, e := range entries {
		b.WriteString(`<article class="entry">`)
		b.WriteString("<h3>" + esc(e.JobTitle) + "</h3>")
		b.WriteString(`<p class="org">` + esc(e.Company) + "</p>")
		if e.StartDate != "" || e.EndDate != "" {
			b.WriteString(`<p class="dates">` + esc(e.StartDate) + " - " + esc(e.EndDate) + "</p>")
		}
		if e.Description != "" {
			b.WriteString("<p>" + esc(e.Description) + "</p>")
		}
		b.WriteString("</article>")
	}
	b.WriteString("</section>")
}

func writeProjects(b *strings.Builder, entries []models.Project) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section projects"><h2>Projects</h2>`)
	for _, p := range entries {
		b.WriteString(`<article class="entry">`)
		b.WriteString("<h3>" + esc(p.Name) + "</h3>")
		b.WriteString("<p>" + esc(p.Description) + "</p>")
		if p.Technologies != "" {
			b.WriteString(`<p class="tech"><strong>Technologies:</strong> ` + esc(p.Technologies) + "</p>")
		}
		if p.LiveURL != "" {
			b.WriteString(`<a href="` + esc(p.LiveURL) + `">Live Demo</a>`)
		}
		if p.RepoURL != "" {
			b.WriteString(`<a href="` + esc(p.RepoURL) + `">Repository</a>`)
		}
		b.WriteString("</article>")
	}
	b.WriteString("</section>")
}

func writeSkills(b *strings.Builder, entries []models.Skill) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section skills"><h2>Skills</h2><div class="skills-container">`)
	for _, s := range entries {
		b.WriteString(`<span class="skill-tag" data-level="` + esc(s.Level) + `">` + esc(s.Name) + "</span>")
	}
	b.WriteString("</div></section>")
}

func writeEducation(b *strings.Builder, entries []models.Education) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section education"><h2>Education</h2>`)
	for _, e := range entries {
		b.WriteString(`<article class="entry">`)
		b.WriteString("<h3>" + esc(e.Degree) + "</h3>")
		b.WriteString(`<p class="org">` + esc(e.School) + "</p>")
		if e.Field != "" {
			b.WriteString("<p>" + esc(e.Field) + "</p>")
		}
		if e.GraduationYear != "" {
			b.WriteString(`<p class="dates">` + esc(e.GraduationYear) + "</p>")
		}
		if e.GPA != "" {
			b.WriteString(`<p class="gpa">GPA: ` + esc(e.GPA) + "</p>")
		}
		b.WriteString("</article>")
	}
	b.WriteString("</section>")
}

func writeCertifications(b *strings.Builder, entries []models.Certification) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section certifications"><h2>Certifications</h2>`)
	for _, c := range entries {
		b.WriteString(`<article class="entry">`)
		b.WriteString("<h3>" + esc(c.Name) + "</h3>")
		if c.Issuer != "" {
			b.WriteString(`<p class="org">` + esc(c.Issuer) + "</p>")
		}
		if c.DateIssued != "" {
			b.WriteString(`<p class="dates">` + esc(c.DateIssued) + "</p>")
		}
		b.WriteString("</article>")
	}
	b.WriteString("</section>")
}

func writeLanguages(b *strings.Builder, entries []models.Language) {
	if len(entries) == 0 {
		return
	}
	b.WriteString(`<section class="section languages"><h2>Languages</h2><div class="skills-container">`)
	for _, l := range entries {
		tag := esc(l.Language)
		if l.Proficiency != "" {
			tag += " (" + esc(l.Proficiency) + ")"
		}
		b.WriteString(`<span class="skill-tag">` + tag + "</span>")
	}
	b.WriteString("</div></section>")
}

// The four layouts share the same sections; they differ in wrapper class
// and section order.

func renderModern(data models.PortfolioData) string {
	var b strings.Builder
	b.WriteString(`<div class="portfolio-preview modern-template">`)
	writeHeader(&b, data.Personal)
	b.WriteString(`<div class="portfolio-content">`)
	writeExperience(&b, data.Experience)
	writeProjects(&b, data.Projects)
	writeSkills(&b, data.Skills)
	writeEducation(&b, data.Education)
	writeCertifications(&b, data.Certifications)
	writeLanguages(&b, data.Languages)
	b.WriteString("</div></div>")
	return b.String()
}

func renderClassic(data models.PortfolioData) string {
	var b strings.Builder
	b.WriteString(`<div class="portfolio-preview classic-template">`)
	writeHeader(&b, data.Personal)
	b.WriteString(`<div class="portfolio-content">`)
	writeEducation(&b, data.Education)
	writeExperience(&b, data.Experience)
	writeSkills(&b, data.Skills)
	writeProjects(&b, data.Projects)
	writeCertifications(&b, data.Certifications)
	writeLanguages(&b, data.Languages)
	b.WriteString("</div></div>")
	return b.String()
}

func renderMinimal(data models.PortfolioData) string {
	var b strings.Builder
	b.WriteString(`<div class="portfolio-preview minimal-template">`)
	writeHeader(&b, data.Personal)
	b.WriteString(`<div class="portfolio-content">`)
	writeExperience(&b, data.Experience)
	writeEducation(&b, data.Education)
	writeProjects(&b, data.Projects)
	writeSkills(&b, data.Skills)
	b.WriteString("</div></div>")
	return b.String()
}

func renderCreative(data models.PortfolioData) string {
	var b strings.Builder
	b.WriteString(`<div class="portfolio-preview creative-template">`)
	writeHeader(&b, data.Personal)
	b.WriteString(`<div class="portfolio-content">`)
	writeProjects(&b, data.Projects)
	writeSkills(&b, data.Skills)
	writeExperience(&b, data.Experience)
	writeEducation(&b, data.Education)
	writeCertifications(&b, data.Certifications)
	writeLanguages(&b, data.Languages)
	b.WriteString("</div></div>")
	return b.String()
}
