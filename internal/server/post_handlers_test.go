package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"testing"

	"chili/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPostRequest builds a multipart POST /posts request with a small fake
// image and the given caption. The media part carries an explicit image/jpeg
// Content-Type; the handler infers MediaType from the declared MIME type.
func createPostRequest(t *testing.T, user *models.User, caption string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="media"; filename="photo.jpg"`)
	h.Set("Content-Type", "image/jpeg")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\xff\xd8\xff\xe0 fake jpeg bytes"))
	require.NoError(t, err)

	require.NoError(t, w.WriteField("caption", caption))
	require.NoError(t, w.Close())

	tok, err := testServer.tokens.Issue(user.Username)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/posts/", &body)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func createTestPostViaAPI(t *testing.T, user *models.User, caption string) *models.Post {
	t.Helper()
	resp, err := testApp.Test(createPostRequest(t, user, caption), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	return &post
}

func TestCreatePostHandler(t *testing.T) {
	user := createTestUser(t, "hcreate")

	post := createTestPostViaAPI(t, user, "my first post")
	assert.Equal(t, user.ID, post.AuthorID)
	assert.Equal(t, "my first post", post.Caption)
	assert.Equal(t, models.MediaTypeImage, post.MediaType)
	assert.Contains(t, post.MediaURL, "/uploads/")
	assert.Equal(t, ".jpg", filepath.Ext(post.MediaURL))

	t.Run("Video media type", func(t *testing.T) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="media"; filename="clip.mp4"`)
		h.Set("Content-Type", "video/mp4")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake mp4 bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		tok, err := testServer.tokens.Issue(user.Username)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/posts/", &body)
		req.Header.Set("Authorization", "Bearer "+tok)
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := testApp.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Equal(t, models.MediaTypeVideo, created.MediaType)
	})

	t.Run("Missing media", func(t *testing.T) {
		req := authedRequest(t, http.MethodPost, "/posts/", user)
		resp, err := testApp.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/posts/", nil)
		resp, err := testApp.Test(req, -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetPostsHandler(t *testing.T) {
	user := createTestUser(t, "hlist")
	createTestPostViaAPI(t, user, "listed post")

	resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, "/posts/", nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var posts []models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
	assert.NotEmpty(t, posts)
}

func TestGetPostHandler(t *testing.T) {
	user := createTestUser(t, "hget")
	post := createTestPostViaAPI(t, user, "single post")

	resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", post.ID), nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, post.ID, got.ID)
	assert.Equal(t, user.Username, got.Author.Username)

	t.Run("Unknown post", func(t *testing.T) {
		resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, "/posts/999999", nil), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid id", func(t *testing.T) {
		resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, "/posts/abc", nil), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLikeUnlikeHandlers(t *testing.T) {
	author := createTestUser(t, "hlauthor")
	liker := createTestUser(t, "hliker")
	post := createTestPostViaAPI(t, author, "likeable")

	likeURL := fmt.Sprintf("/posts/%d/like", post.ID)

	resp, err := testApp.Test(authedRequest(t, http.MethodPost, likeURL, liker), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var likeMsg map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&likeMsg))
	assert.Equal(t, "Post liked", likeMsg["message"])
	assert.Equal(t, 1, fetchPost(t, post.ID).LikesCount)

	t.Run("Double like", func(t *testing.T) {
		resp, err := testApp.Test(authedRequest(t, http.MethodPost, likeURL, liker), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unlike", func(t *testing.T) {
		resp, err := testApp.Test(authedRequest(t, http.MethodDelete, likeURL, liker), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var msg map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
		assert.Equal(t, "Post unliked", msg["message"])
		assert.Equal(t, 0, fetchPost(t, post.ID).LikesCount)
	})

	t.Run("Unlike without like", func(t *testing.T) {
		resp, err := testApp.Test(authedRequest(t, http.MethodDelete, likeURL, liker), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func fetchPost(t *testing.T, id uint) *models.Post {
	t.Helper()
	resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d", id), nil), -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var post models.Post
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
	return &post
}

func TestFeedHandler(t *testing.T) {
	viewer := createTestUser(t, "hfviewer")
	followed := createTestUser(t, "hffollowed")
	createTestPostViaAPI(t, followed, "feed material")

	t.Run("Empty without follows", func(t *testing.T) {
		resp, err := testApp.Test(authedRequest(t, http.MethodGet, "/posts/feed", viewer), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
		assert.Empty(t, posts)
	})

	t.Run("Shows followed posts", func(t *testing.T) {
		followURL := fmt.Sprintf("/users/%d/follow", followed.ID)
		resp, err := testApp.Test(authedRequest(t, http.MethodPost, followURL, viewer), -1)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, err = testApp.Test(authedRequest(t, http.MethodGet, "/posts/feed", viewer), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var posts []models.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&posts))
		require.NotEmpty(t, posts)
		assert.Equal(t, followed.ID, posts[0].AuthorID)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		resp, err := testApp.Test(httptest.NewRequest(http.MethodGet, "/posts/feed", nil), -1)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
