package server

import (
	"chili/internal/models"
	"chili/internal/service"
	"chili/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /posts. The body is multipart form data with a
// required "media" file part and an optional "caption" field.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("media")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Media file is required"))
	}

	if fileHeader.Size > s.config.MaxUploadBytes {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Media file exceeds the maximum upload size"))
	}

	mediaType := storage.MediaTypeFor(fileHeader.Header.Get("Content-Type"))

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	defer file.Close()

	name, err := s.store.Save(fileHeader.Filename, mediaType, file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID:  currentUserID(c),
		Caption:   c.FormValue("caption"),
		MediaURL:  "/uploads/" + name,
		MediaType: mediaType,
	})
	if err != nil {
		// The file is orphaned if the row never lands.
		s.store.Remove(name)
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	posts, err := s.postService.ListPosts(c.Context(), page.Limit, page.Skip)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(post)
}

// GetFeed handles GET /posts/feed. Returns recent posts from accounts the
// authenticated user follows, newest first.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	posts, err := s.postService.Feed(c.Context(), currentUserID(c), page.Limit, page.Skip)
	if err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(posts)
}

// LikePost handles POST /posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.LikePost(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post liked",
	})
}

// UnlikePost handles DELETE /posts/:id/like
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnlikePost(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondWithError(c, mapServiceError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Post unliked",
	})
}
