package user

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"feira_back_end/internal/models"
	"feira_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	names []string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.names = append(f.names, objectName)
	return "http://minio/feira/" + objectName + ".png", nil
}

func profileRouter(h *Handler) *gin.Engine {
	r := gin.New()
	g := r.Group("/profile", withSession("u1", "s1", models.UserTypeConsumer))
	g.GET("", h.GetProfile)
	g.PUT("", h.UpdateProfile)
	g.POST("/avatar", h.UploadAvatar)
	return r
}

func TestGetProfile(t *testing.T) {
	h := newHandler()
	r := profileRouter(h)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/profile", "").Code)

	require.NoError(t, h.Profiles.UpsertProfile(context.Background(), models.Profile{ID: "u1", FullName: "Ana"}))
	w := do(r, http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_name":"Ana"`)
}

func TestUpdateProfileKeepsMissingFields(t *testing.T) {
	h := newHandler()
	require.NoError(t, h.Profiles.UpsertProfile(context.Background(), models.Profile{ID: "u1", FullName: "Ana", Phone: "1199"}))
	r := profileRouter(h)

	w := do(r, http.MethodPut, "/profile", `{"address":{"street":"Rua A","number":"10","city":"Campinas","state":"SP"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	p, err := h.Profiles.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.FullName)
	assert.Equal(t, "1199", p.Phone)
	assert.Equal(t, "Campinas", p.Address.City)
	assert.False(t, p.Address.IsEmpty())

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPut, "/profile", `{"full_name":"  "}`).Code)
}

func TestUpdateProfileCreatesMissingProfile(t *testing.T) {
	h := newHandler()
	w := do(profileRouter(h), http.MethodPut, "/profile", `{"full_name":"Bia"}`)
	require.Equal(t, http.StatusOK, w.Code)

	p, err := h.Profiles.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bia", p.FullName)
	assert.Equal(t, models.UserTypeConsumer, p.UserType)
}

func avatarRequest(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "foto.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/profile/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadAvatar(t *testing.T) {
	t.Run("storage disabled", func(t *testing.T) {
		w := httptest.NewRecorder()
		profileRouter(newHandler()).ServeHTTP(w, avatarRequest(t))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("invalid image", func(t *testing.T) {
		h := newHandler()
		h.Images = &fakeUploader{err: services.ErrInvalidImage}
		w := httptest.NewRecorder()
		profileRouter(h).ServeHTTP(w, avatarRequest(t))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("saves url on profile", func(t *testing.T) {
		h := newHandler()
		up := &fakeUploader{}
		h.Images = up
		w := httptest.NewRecorder()
		profileRouter(h).ServeHTTP(w, avatarRequest(t))
		require.Equal(t, http.StatusOK, w.Code)

		assert.Equal(t, []string{"avatars/u1"}, up.names)
		p, _ := h.Profiles.GetProfile(context.Background(), "u1")
		assert.Equal(t, "http://minio/feira/avatars/u1.png", p.AvatarURL)
	})
}
