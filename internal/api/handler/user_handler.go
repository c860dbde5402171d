package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type createUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=30"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
	BirthDate string `json:"birthDate" validate:"required,datetime=2006-01-02"`
	Role      string `json:"role" validate:"required,oneof=user admin"`
}

type updateProfileRequest struct {
	FirstName             *string                 `form:"firstName" json:"firstName" validate:"omitempty,max=50"`
	LastName              *string                 `form:"lastName" json:"lastName" validate:"omitempty,max=50"`
	Bio                   *string                 `form:"bio" json:"bio" validate:"omitempty,max=500"`
	PrincipalMartialArt   *string                 `form:"principalMartialArt" json:"principalMartialArt"`
	PrincipalMartialLevel *string                 `form:"principalMartialLevel" json:"principalMartialLevel"`
	PrincipalBeltLevel    *string                 `form:"principalBeltLevel" json:"principalBeltLevel"`
	FighterLevel          *string                 `form:"fighterLevel" json:"fighterLevel"`
	MartialArts           []domain.MartialArtInfo `json:"martialArts"`
	SocialLinks           *domain.SocialLinks     `json:"socialLinks"`
}

type userListResponse struct {
	Users []*domain.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

// Me returns the authenticated user's own profile.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetProfile(c.Request().Context(), claims.Sub)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// GetProfile returns any user's public profile by id.
//
// @Summary      Get a user profile
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.users.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile updates the authenticated user's own profile. The body may be
// JSON or multipart form data; a profileImage file replaces the current image.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /users/me [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	claims, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	image, err := formImage(c, "profileImage")
	if err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), claims.Sub, ports.UpdateProfileInput{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Bio:                   req.Bio,
		PrincipalMartialArt:   req.PrincipalMartialArt,
		PrincipalMartialLevel: req.PrincipalMartialLevel,
		PrincipalBeltLevel:    req.PrincipalBeltLevel,
		FighterLevel:          req.FighterLevel,
		MartialArts:           req.MartialArts,
		SocialLinks:           req.SocialLinks,
		ProfileImage:          image,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create creates an account with an explicit role. Admin only.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body  createUserRequest  true  "New account details"
// @Success      201  {object}  domain.User
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.CreateUser(c.Request().Context(), ports.AdminCreateUserInput{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		BirthDate: req.BirthDate,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// List returns a page of active users. Admin only.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page   query  int  false  "Page number (1-based)"
// @Param        limit  query  int  false  "Page size"
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.users.ListUsers(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userListResponse{
		Users: result.Users,
		Total: result.Total,
		Page:  result.Page,
		Limit: result.Limit,
	})
}

// Disable soft-disables an account. Admin only.
//
// @Summary      Disable a user account
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/disable [patch]
func (h *UserHandler) Disable(c echo.Context) error {
	if err := h.users.DisableUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user disabled"})
}

// Enable re-activates a previously disabled account. Admin only.
//
// @Summary      Enable a user account
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id}/enable [patch]
func (h *UserHandler) Enable(c echo.Context) error {
	if err := h.users.EnableUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user enabled"})
}
