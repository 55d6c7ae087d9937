package handler

import "time"

type listPostsQuery struct {
	Page     int
	PageSize int
}

// postSummaryResponse is the lightweight item used in list responses.
type postSummaryResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	LastUpdateDate time.Time `json:"lastUpdateDate"`
	Category       string    `json:"category"`
	Author         string    `json:"author"`
}

type listPostsResponse struct {
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
	Posts    []postSummaryResponse `json:"posts"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type roleResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type authorResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Email string         `json:"email"`
	Slug  string         `json:"slug"`
	Image string         `json:"image,omitempty"`
	Roles []roleResponse `json:"roles"`
}

type postResponse struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Summary        string           `json:"summary"`
	Body           string           `json:"body"`
	Slug           string           `json:"slug"`
	CreateDate     time.Time        `json:"createDate"`
	LastUpdateDate time.Time        `json:"lastUpdateDate"`
	Category       categoryResponse `json:"category"`
	Author         authorResponse   `json:"author"`
}
