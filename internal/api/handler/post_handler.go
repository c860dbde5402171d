package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/metrics"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type createPostRequest struct {
	Title   string `form:"title" json:"title" validate:"required,max=200"`
	Content string `form:"content" json:"content" validate:"required,max=5000"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required,max=1000"`
}

type feedResponse struct {
	Posts []*domain.Post `json:"posts"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

type commentListResponse struct {
	Comments []*domain.Comment `json:"comments"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// Create publishes a new post. The body may be JSON or multipart form data;
// an attached image file turns the post into an image post.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       mpfd
// @Produce      json
// @Param        title    formData  string  true   "Post title"
// @Param        content  formData  string  true   "Post body"
// @Param        image    formData  file    false  "Attached image"
// @Success      201  {object}  domain.Post
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := formImage(c, "image")
	if err != nil {
		return err
	}

	post, err := h.posts.CreatePost(c.Request().Context(), ports.CreatePostInput{
		AuthorID: claims.Sub,
		Title:    req.Title,
		Content:  req.Content,
		Image:    image,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.WithLabelValues(string(post.Type)).Inc()
	return c.JSON(http.StatusCreated, post)
}

// Get returns a single post by id.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  domain.Post
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	post, err := h.posts.GetPost(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Feed returns a page of active posts, newest first.
//
// @Summary      Get the post feed
// @Tags         posts
// @Produce      json
// @Param        page   query  int  false  "Page number (1-based)"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  feedResponse
// @Router       /posts [get]
func (h *PostHandler) Feed(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.Feed(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, feedResponse{
		Posts: result.Posts,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Delete soft-deletes a post. Only the author or an admin may delete.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.posts.DeletePost(c.Request().Context(), c.Param("id"), claims.Sub, claims.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post deleted"})
}

// CreateComment adds a comment to a post.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Post ID"
// @Param        body  body  commentRequest  true  "Comment body"
// @Success      201  {object}  domain.Comment
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [post]
func (h *PostHandler) CreateComment(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.posts.CreateComment(c.Request().Context(), c.Param("id"), claims.Sub, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ListComments returns one page of a post's comments, oldest first.
//
// @Summary      List comments on a post
// @Tags         comments
// @Produce      json
// @Param        id     path   string  true   "Post ID"
// @Param        page   query  int     false  "Page number (1-based)"
// @Param        limit  query  int     false  "Page size"
// @Success      200  {object}  commentListResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/comments [get]
func (h *PostHandler) ListComments(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.posts.ListComments(c.Request().Context(), c.Param("id"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, commentListResponse{
		Comments: result.Comments,
		Total:    result.Total,
		Page:     result.Page,
		Limit:    result.Limit,
	})
}

// UpdateComment edits a comment's content. Author only.
//
// @Summary      Edit a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "Comment ID"
// @Param        body  body  commentRequest  true  "New comment body"
// @Success      200  {object}  domain.Comment
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [put]
func (h *PostHandler) UpdateComment(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req commentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment, err := h.posts.UpdateComment(c.Request().Context(), c.Param("id"), claims.Sub, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// DeleteComment soft-deletes a comment. Author or admin.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Param        id  path  string  true  "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *PostHandler) DeleteComment(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.posts.DeleteComment(c.Request().Context(), c.Param("id"), claims.Sub, claims.Role); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "comment deleted"})
}

// Like records a like on a post; liking twice is a conflict.
//
// @Summary      Like a post
// @Tags         likes
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /posts/{id}/like [post]
func (h *PostHandler) Like(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.posts.LikePost(c.Request().Context(), c.Param("id"), claims.Sub); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "post liked"})
}

// Unlike removes an existing like.
//
// @Summary      Unlike a post
// @Tags         likes
// @Produce      json
// @Param        id  path  string  true  "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/like [delete]
func (h *PostHandler) Unlike(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.posts.UnlikePost(c.Request().Context(), c.Param("id"), claims.Sub); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "like removed"})
}
