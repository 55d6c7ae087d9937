package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogweb/blog-api/internal/core/ports"
)

// PostHandler serves the public post reads.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// List handles GET /v1/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        page      query     int  false  "0-based page"  default(0)
// @Param        pageSize  query     int  false  "Page size (max 100)"  default(25)
// @Success      200       {object}  listPostsResponse
// @Failure      400       {object}  errorResponse
// @Failure      500       {object}  errorResponse
// @Router       /v1/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	var q listPostsQuery
	if err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("pageSize", &q.PageSize).
		BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "page and pageSize must be integers")
	}

	res, err := h.service.ListPosts(c.Request().Context(), ports.ListPostsInput{
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListPostsResponse(res))
}

// Get handles GET /v1/posts/:id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post id"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.service.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(post))
}

// ListByCategory handles GET /v1/posts/category/:slug.
//
// @Summary      List the posts of a category
// @Tags         posts
// @Produce      json
// @Param        slug  path      string  true  "Category slug"
// @Success      200   {array}   postSummaryResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/posts/category/{slug} [get]
func (h *PostHandler) ListByCategory(c echo.Context) error {
	posts, err := h.service.ListByCategory(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostSummaries(posts))
}
