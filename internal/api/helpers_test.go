package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/api/middleware"
	"github.com/phrazzld/places-api/internal/mocks"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

const testMaxUpload = 1024

// pngBytes is a minimal PNG header followed by padding.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type apiFixture struct {
	router *chi.Mux
	places *mocks.MockPlaceService
	users  *mocks.MockUserService
	assets *mocks.MockAssetStore
	caller uuid.UUID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	testLogger, _ := logger.NewTestLogger(t)

	f := &apiFixture{
		places: &mocks.MockPlaceService{},
		users:  &mocks.MockUserService{},
		assets: &mocks.MockAssetStore{},
		caller: uuid.New(),
	}

	uploads := NewUploader(f.assets, testMaxUpload, testLogger)
	guard := middleware.NewAuthMiddleware(mocks.AcceptAs(f.caller, "caller@x.com"))

	f.router = chi.NewRouter()
	f.router.NotFound(NotFoundHandler)
	Routes(f.router,
		NewPlaceHandler(f.places, uploads, testLogger),
		NewUserHandler(f.users, uploads, testLogger),
		guard, nil)
	return f
}

func (f *apiFixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

// multipartRequest builds a form with the given fields and an optional image.
func multipartRequest(t *testing.T, path string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}
