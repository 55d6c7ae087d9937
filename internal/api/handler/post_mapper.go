package handler

import (
	"fmt"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
)

func toPostSummaryResponse(s domain.PostSummary) postSummaryResponse {
	return postSummaryResponse{
		ID:             s.ID,
		Title:          s.Title,
		Slug:           s.Slug,
		LastUpdateDate: s.LastUpdateDate,
		Category:       s.Category,
		Author:         fmt.Sprintf("%s (%s)", s.AuthorName, s.AuthorEmail),
	}
}

func toPostSummaries(posts []domain.PostSummary) []postSummaryResponse {
	out := make([]postSummaryResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostSummaryResponse(p))
	}
	return out
}

func toListPostsResponse(res *ports.ListPostsResult) listPostsResponse {
	return listPostsResponse{
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
		Posts:    toPostSummaries(res.Posts),
	}
}

// toPostResponse exposes the author's profile and roles, never the password hash.
func toPostResponse(p *domain.Post) postResponse {
	return postResponse{
		ID:             p.ID,
		Title:          p.Title,
		Summary:        p.Summary,
		Body:           p.Body,
		Slug:           p.Slug,
		CreateDate:     p.CreateDate,
		LastUpdateDate: p.LastUpdateDate,
		Category: categoryResponse{
			ID:   p.Category.ID,
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		Author: authorResponse{
			ID:    p.Author.ID,
			Name:  p.Author.Name,
			Email: p.Author.Email,
			Slug:  p.Author.Slug,
			Image: p.Author.Image,
			Roles: toRoleResponses(p.Author.Roles),
		},
	}
}

func toRoleResponses(roles []domain.Role) []roleResponse {
	out := make([]roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, roleResponse{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	return out
}
