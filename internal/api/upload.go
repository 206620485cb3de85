package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/phrazzld/places-api/internal/api/shared"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/service"
)

// imageField is the multipart field carrying an uploaded image.
const imageField = "image"

// formOverhead is the allowance for non-file multipart fields.
const formOverhead = 64 << 10

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// pendingImage is an accepted upload that has not been stored yet.
type pendingImage struct {
	file multipart.File
	ext  string
}

// Uploader reads request bodies that may carry an image and stores the image.
// Handlers call Discard on every failure after Store succeeded.
type Uploader struct {
	assets   service.AssetStore
	maxBytes int64
	logger   *slog.Logger
}

// NewUploader creates an Uploader accepting images up to maxBytes.
func NewUploader(assets service.AssetStore, maxBytes int64, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		assets:   assets,
		maxBytes: maxBytes,
		logger:   logger.With(slog.String("component", "uploader")),
	}
}

// Decode fills dst from a JSON body or from multipart form fields. For multipart
// bodies the optional image is checked and returned unsaved. The caller must
// call cleanup once done with the request.
func (u *Uploader) Decode(w http.ResponseWriter, r *http.Request, dst formBinder) (img *pendingImage, cleanup func(), err error) {
	cleanup = func() {}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := shared.DecodeJSON(r, dst); err != nil {
			return nil, cleanup, invalidInputs(err)
		}
		return nil, cleanup, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, u.maxBytes+formOverhead)
	if err := r.ParseMultipartForm(u.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, cleanup, domain.NewValidationError(msgImageTooLarge, err)
		}
		return nil, cleanup, invalidInputs(err)
	}
	cleanup = func() { _ = r.MultipartForm.RemoveAll() }

	dst.bindForm(r.FormValue)

	file, header, err := r.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, invalidInputs(err)
	}

	closeFile := cleanup
	cleanup = func() {
		_ = file.Close()
		closeFile()
	}

	if header.Size > u.maxBytes {
		return nil, cleanup, domain.NewValidationError(msgImageTooLarge, nil)
	}

	ext, err := sniffImage(file)
	if err != nil {
		return nil, cleanup, err
	}

	return &pendingImage{file: file, ext: ext}, cleanup, nil
}

// Store saves img and returns its reference, or "" when there is no image.
func (u *Uploader) Store(ctx context.Context, img *pendingImage) (string, error) {
	if img == nil {
		return "", nil
	}
	ref, err := u.assets.Save(ctx, img.ext, img.file)
	if err != nil {
		return "", domain.NewInternalError(msgUnknownError, err)
	}
	return ref, nil
}

// Discard deletes a stored image after the request failed. A failed delete is
// logged; the original error is what the client sees.
func (u *Uploader) Discard(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	log := logger.FromContextOrDefault(ctx, u.logger)
	if err := u.assets.Delete(context.WithoutCancel(ctx), ref); err != nil {
		log.Error("failed to discard uploaded image",
			slog.String("ref", ref),
			slog.String("error", err.Error()))
		return
	}
	log.Debug("discarded uploaded image", slog.String("ref", ref))
}

// sniffImage identifies PNG and JPEG content from the leading bytes and rewinds the file.
func sniffImage(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", domain.NewValidationError(msgImageType, err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", domain.NewInternalError(msgUnknownError, err)
	}

	contentType := strings.TrimSpace(strings.Split(http.DetectContentType(head[:n]), ";")[0])
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", domain.NewValidationError(msgImageType, nil)
	}
	return ext, nil
}
