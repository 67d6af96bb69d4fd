package models

import "time"

// Blog is a blog post; Slug is unique across the collection.
type Blog struct {
	Meta        `bson:",inline"`
	Title       string     `bson:"title" json:"title" validate:"required"`
	Slug        string     `bson:"slug" json:"slug"`
	Excerpt     string     `bson:"excerpt" json:"excerpt"`
	Content     string     `bson:"content" json:"content" validate:"required"`
	CoverImage  string     `bson:"coverImage" json:"coverImage"`
	Category    string     `bson:"category" json:"category"`
	Tags        []string   `bson:"tags" json:"tags"`
	Author      string     `bson:"author" json:"author"`
	Published   bool       `bson:"published" json:"published"`
	Featured    bool       `bson:"featured" json:"featured"`
	PublishedAt *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	ReadTime    int        `bson:"readTime" json:"readTime" validate:"min=0"`
}

// PortfolioItem is a showcased project.
type PortfolioItem struct {
	Meta         `bson:",inline"`
	Title        string   `bson:"title" json:"title" validate:"required"`
	Description  string   `bson:"description" json:"description" validate:"required"`
	Category     string   `bson:"category" json:"category"`
	Image        string   `bson:"image" json:"image"`
	Technologies []string `bson:"technologies" json:"technologies"`
	LiveURL      string   `bson:"liveUrl" json:"liveUrl" validate:"omitempty,url"`
	GithubURL    string   `bson:"githubUrl" json:"githubUrl" validate:"omitempty,url"`
	Featured     bool     `bson:"featured" json:"featured"`
	Order        int      `bson:"order" json:"order"`
}

// Service is an offered service.
type Service struct {
	Meta        `bson:",inline"`
	Title       string   `bson:"title" json:"title" validate:"required"`
	Description string   `bson:"description" json:"description" validate:"required"`
	Icon        string   `bson:"icon" json:"icon"`
	Image       string   `bson:"image" json:"image"`
	Features    []string `bson:"features" json:"features"`
	Price       string   `bson:"price" json:"price"`
	Featured    bool     `bson:"featured" json:"featured"`
	Active      bool     `bson:"active" json:"active"`
	Order       int      `bson:"order" json:"order"`
}

// AdminUser is the identity returned by login; it is never persisted.
type AdminUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
