package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LeDuc-16/smart-attendance-sub000/internal/models"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/resources"
	"github.com/LeDuc-16/smart-attendance-sub000/internal/session"
	apperrors "github.com/LeDuc-16/smart-attendance-sub000/pkg/errors"
)

// MaxImageSize caps profile images at 5 MiB.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageUploader posts student profile images as multipart form data. It
// does not run through the JSON core client because the body is not JSON,
// but it applies the same session policy: a 401/403 expires the session.
type ImageUploader struct {
	baseURL string
	http    *http.Client
	session *session.Session
	logger  *zap.Logger
}

// NewImageUploader builds an uploader sharing the client's session.
func NewImageUploader(baseURL string, httpClient *http.Client, sess *session.Session, logger *zap.Logger) *ImageUploader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageUploader{baseURL: baseURL, http: httpClient, session: sess, logger: logger}
}

// UploadProfileImage sends the image to the student's profile-image
// endpoint and returns the stored image URL.
func (u *ImageUploader) UploadProfileImage(ctx context.Context, studentID int64, contentType string, image io.Reader) (string, error) {
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported image type %q", contentType))
	}

	data, err := io.ReadAll(io.LimitReader(image, MaxImageSize+1))
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "read image")
	}
	if len(data) > MaxImageSize {
		return "", apperrors.Clone(apperrors.ErrValidation, "image exceeds the 5MB limit")
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="profile.%s"`, ext))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "build multipart body")
	}
	if _, err := part.Write(data); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "write multipart body")
	}
	if err := writer.Close(); err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "finish multipart body")
	}

	endpoint := fmt.Sprintf("%s%s/%d/profile-image", u.baseURL, resources.PathStudents, studentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrInternal.Code, 0, "build request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := u.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrNetwork.Code, 0, apperrors.ErrNetwork.Message)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrNetwork.Code, 0, apperrors.ErrNetwork.Message)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		u.session.Expire(ctx)
		return "", apperrors.Clone(apperrors.ErrUnauthorized, "")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.New("HTTP_ERROR", resp.StatusCode, fmt.Sprintf("upload failed with status %d", resp.StatusCode))
	}

	var envelope models.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", nil
	}
	var result struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return "", nil
	}
	return result.ImageURL, nil
}
