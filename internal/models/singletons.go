package models

// AboutContent backs the About page.
type AboutContent struct {
	Meta        `bson:",inline"`
	Title       string       `bson:"title" json:"title" validate:"required"`
	Subtitle    string       `bson:"subtitle" json:"subtitle"`
	Description string       `bson:"description" json:"description"`
	Image       string       `bson:"image" json:"image"`
	Skills      []Skill      `bson:"skills" json:"skills" validate:"dive"`
	Experience  []Experience `bson:"experience" json:"experience" validate:"dive"`
	Stats       AboutStats   `bson:"stats" json:"stats"`
}

type Skill struct {
	Name  string `bson:"name" json:"name" validate:"required"`
	Level int    `bson:"level" json:"level" validate:"min=0,max=100"`
}

type Experience struct {
	Title       string `bson:"title" json:"title" validate:"required"`
	Company     string `bson:"company" json:"company"`
	Period      string `bson:"period" json:"period"`
	Description string `bson:"description" json:"description"`
}

type AboutStats struct {
	YearsExperience   int `bson:"yearsExperience" json:"yearsExperience"`
	ProjectsCompleted int `bson:"projectsCompleted" json:"projectsCompleted"`
	HappyClients      int `bson:"happyClients" json:"happyClients"`
}

// HomeContent backs the landing page.
type HomeContent struct {
	Meta            `bson:",inline"`
	Hero            Hero            `bson:"hero" json:"hero"`
	Highlights      []Highlight     `bson:"highlights" json:"highlights" validate:"dive"`
	FeaturedSection FeaturedSection `bson:"featuredSection" json:"featuredSection"`
	CTA             CallToAction    `bson:"cta" json:"cta"`
}

type Hero struct {
	Title           string `bson:"title" json:"title" validate:"required"`
	Subtitle        string `bson:"subtitle" json:"subtitle"`
	Description     string `bson:"description" json:"description"`
	CtaText         string `bson:"ctaText" json:"ctaText"`
	CtaLink         string `bson:"ctaLink" json:"ctaLink"`
	BackgroundImage string `bson:"backgroundImage" json:"backgroundImage"`
}

type Highlight struct {
	Title       string `bson:"title" json:"title" validate:"required"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
}

type FeaturedSection struct {
	Title    string `bson:"title" json:"title"`
	Subtitle string `bson:"subtitle" json:"subtitle"`
}

type CallToAction struct {
	Title      string `bson:"title" json:"title"`
	Text       string `bson:"text" json:"text"`
	ButtonText string `bson:"buttonText" json:"buttonText"`
	ButtonLink string `bson:"buttonLink" json:"buttonLink"`
}

// ResumeContent backs the Resume page; CVURL points at an uploaded PDF.
type ResumeContent struct {
	Meta           `bson:",inline"`
	Summary        string          `bson:"summary" json:"summary"`
	CVURL          string          `bson:"cvUrl" json:"cvUrl"`
	Education      []Education     `bson:"education" json:"education" validate:"dive"`
	Experience     []Experience    `bson:"experience" json:"experience" validate:"dive"`
	Skills         []SkillGroup    `bson:"skills" json:"skills" validate:"dive"`
	Certifications []Certification `bson:"certifications" json:"certifications" validate:"dive"`
}

type Education struct {
	Degree      string `bson:"degree" json:"degree" validate:"required"`
	Institution string `bson:"institution" json:"institution"`
	Period      string `bson:"period" json:"period"`
	Description string `bson:"description" json:"description"`
}

type SkillGroup struct {
	Category string   `bson:"category" json:"category" validate:"required"`
	Items    []string `bson:"items" json:"items"`
}

type Certification struct {
	Name   string `bson:"name" json:"name" validate:"required"`
	Issuer string `bson:"issuer" json:"issuer"`
	Year   string `bson:"year" json:"year"`
	URL    string `bson:"url" json:"url"`
}

// Contact backs the Contact page (not the messages sent through it).
type Contact struct {
	Meta            `bson:",inline"`
	Email           string `bson:"email" json:"email" validate:"omitempty,email"`
	Phone           string `bson:"phone" json:"phone"`
	Address         string `bson:"address" json:"address"`
	MapURL          string `bson:"mapUrl" json:"mapUrl"`
	Availability    string `bson:"availability" json:"availability"`
	FormTitle       string `bson:"formTitle" json:"formTitle"`
	FormDescription string `bson:"formDescription" json:"formDescription"`
}

// GeneralDetails holds site-wide settings.
type GeneralDetails struct {
	Meta        `bson:",inline"`
	SiteName    string      `bson:"siteName" json:"siteName" validate:"required"`
	Tagline     string      `bson:"tagline" json:"tagline"`
	OwnerName   string      `bson:"ownerName" json:"ownerName"`
	Email       string      `bson:"email" json:"email" validate:"omitempty,email"`
	Phone       string      `bson:"phone" json:"phone"`
	Location    string      `bson:"location" json:"location"`
	Logo        string      `bson:"logo" json:"logo"`
	Favicon     string      `bson:"favicon" json:"favicon"`
	SocialLinks SocialLinks `bson:"socialLinks" json:"socialLinks"`
	Footer      Footer      `bson:"footer" json:"footer"`
	SEO         SEO         `bson:"seo" json:"seo"`
}

type SocialLinks struct {
	Github    string `bson:"github,omitempty" json:"github,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
}

type Footer struct {
	Text          string `bson:"text" json:"text"`
	CopyrightText string `bson:"copyrightText" json:"copyrightText"`
}

type SEO struct {
	MetaTitle       string   `bson:"metaTitle" json:"metaTitle"`
	MetaDescription string   `bson:"metaDescription" json:"metaDescription"`
	Keywords        []string `bson:"keywords" json:"keywords"`
}

// ProcessContent is the single "how I work" document; Steps are kept sorted by Order.
type ProcessContent struct {
	Meta     `bson:",inline"`
	Title    string        `bson:"title" json:"title"`
	Subtitle string        `bson:"subtitle" json:"subtitle"`
	Steps    []ProcessStep `bson:"steps" json:"steps" validate:"dive"`
}

type ProcessStep struct {
	Order       int    `bson:"order" json:"order"`
	Title       string `bson:"title" json:"title" validate:"required"`
	Description string `bson:"description" json:"description"`
	Icon        string `bson:"icon" json:"icon"`
}
