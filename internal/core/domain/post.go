package domain

import "time"

// Category groups posts.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Post is a published article with its category and author.
type Post struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	Body           string    `json:"body"`
	Slug           string    `json:"slug"`
	CreateDate     time.Time `json:"createDate"`
	LastUpdateDate time.Time `json:"lastUpdateDate"`
	Category       Category  `json:"category"`
	Author         Account   `json:"author"`
}

// PostSummary is the list view of a post.
type PostSummary struct {
	ID             string
	Title          string
	Slug           string
	LastUpdateDate time.Time
	Category       string
	AuthorName     string
	AuthorEmail    string
}
