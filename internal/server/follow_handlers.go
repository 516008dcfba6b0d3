package server

import (
	"chili/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	follow, followErr := s.followService.Follow(c.Context(), currentUserID(c), targetID)
	if followErr != nil {
		return models.RespondWithError(c, mapServiceError(followErr), followErr)
	}

	return c.Status(fiber.StatusCreated).JSON(follow)
}

// UnfollowUser handles DELETE /users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if unfollowErr := s.followService.Unfollow(c.Context(), currentUserID(c), targetID); unfollowErr != nil {
		return models.RespondWithError(c, mapServiceError(unfollowErr), unfollowErr)
	}

	return c.JSON(fiber.Map{
		"message": "Unfollowed successfully",
	})
}
