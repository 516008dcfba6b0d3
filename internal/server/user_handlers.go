package server

import (
	"chili/internal/models"
	"chili/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAllUsers handles GET /users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	users, err := s.userService.ListUsers(c.Context(), page.Limit, page.Skip)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}

// GetMyProfile handles GET /users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// UpdateMyProfile handles PUT /users/me. Absent fields are left untouched;
// an explicit empty string clears the field.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		FullName  *string `json:"full_name"`
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    currentUserID(c),
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// GetUserProfile handles GET /users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(user)
}

// GetUserPosts handles GET /users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 100)

	if _, err := s.userService.GetUserByID(c.Context(), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	posts, err := s.postService.ListPostsByAuthor(c.Context(), id, page.Limit, page.Skip)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetFollowers handles GET /users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.followService.Followers(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}

// GetFollowing handles GET /users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.followService.Following(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(users)
}
