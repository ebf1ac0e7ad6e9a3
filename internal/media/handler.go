package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/arvind/media-vault/backend/internal/middleware"
	"github.com/arvind/media-vault/backend/internal/models"
)

// maxUploadBytes caps a single multipart upload (32 MiB).
const maxUploadBytes = 32 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// MediaStore defines the interface for media metadata persistence.
type MediaStore interface {
	Insert(ctx context.Context, obj *models.MediaObject) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.MediaObject, error)
	GetByOwnerAndName(ctx context.Context, ownerID, fileName string) (*models.MediaObject, error)
	DeleteByOwnerAndName(ctx context.Context, ownerID, fileName string) error
}

// FileStore defines the interface for media byte storage.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds media HTTP handlers.
type Handler struct {
	media MediaStore
	files FileStore
}

func NewHandler(media MediaStore, files FileStore) *Handler {
	return &Handler{media: media, files: files}
}

// Upload stores one file from the multipart field `media` under the
// authenticated user's namespace.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"User must be authenticated to upload media"}`, http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("media")
	if err != nil {
		http.Error(w, `{"error":"media file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !IsValidMediaFile(header.Filename, mimeType) {
		http.Error(w, `{"error":"Invalid file type. Only .jpg, .jpeg, and .mp4 files are allowed."}`, http.StatusBadRequest)
		return
	}

	// Issue-time-derived name keeps the original extension. Uniqueness is
	// probabilistic: two uploads by the same user in the same nanosecond
	// would collide.
	ext := strings.ToLower(path.Ext(header.Filename))
	fileName := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	objectKey := claims.UserID + "/" + fileName

	if err := h.files.Upload(r.Context(), objectKey, file, header.Size, mimeType); err != nil {
		log.Printf("media upload error: %v", err)
		http.Error(w, `{"error":"Failed to upload media"}`, http.StatusInternalServerError)
		return
	}

	obj := &models.MediaObject{
		OwnerID:     claims.UserID,
		FileName:    fileName,
		Extension:   ext,
		ObjectKey:   objectKey,
		ContentType: mimeType,
		Size:        header.Size,
	}
	if err := h.media.Insert(r.Context(), obj); err != nil {
		log.Printf("media insert error: %v", err)
		// Keep the namespace consistent with the metadata.
		h.files.Remove(r.Context(), objectKey)
		http.Error(w, `{"error":"Failed to upload media"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "File uploaded successfully"})
}

// List returns the addressable URLs of the authenticated user's uploads.
// The path segment is kept for client compatibility but must match the
// token's id; listing another user's namespace is not possible.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"Authentication required"}`, http.StatusUnauthorized)
		return
	}

	userID := chi.URLParam(r, "userId")
	if userID == "" {
		http.Error(w, `{"error":"User ID is required"}`, http.StatusBadRequest)
		return
	}
	if userID != claims.UserID {
		http.Error(w, `{"error":"cannot access another user's media"}`, http.StatusUnauthorized)
		return
	}

	objs, err := h.media.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		log.Printf("media list error: %v", err)
		http.Error(w, `{"error":"Failed to fetch media"}`, http.StatusInternalServerError)
		return
	}
	if len(objs) == 0 {
		http.Error(w, `{"error":"No media found for this user"}`, http.StatusNotFound)
		return
	}

	urls := make([]models.MediaURL, 0, len(objs))
	for _, obj := range objs {
		urls = append(urls, models.MediaURL{URL: "/uploads/" + obj.OwnerID + "/" + obj.FileName})
	}
	writeJSON(w, http.StatusOK, urls)
}

// Delete removes a batch of the authenticated user's uploads. Each URI is
// resolved by its base name inside the owner's namespace; misses are
// collected instead of aborting, so items deleted earlier in the batch stay
// deleted even when later ones fail.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, `{"error":"Authentication required"}`, http.StatusUnauthorized)
		return
	}

	var req models.DeleteMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if len(req.URIs) == 0 {
		http.Error(w, `{"error":"No media URLs provided"}`, http.StatusBadRequest)
		return
	}

	var failed []string
	for _, uri := range req.URIs {
		fileName := path.Base(uri)

		obj, err := h.media.GetByOwnerAndName(r.Context(), claims.UserID, fileName)
		if err != nil || obj == nil {
			failed = append(failed, uri)
			continue
		}
		if err := h.files.Remove(r.Context(), obj.ObjectKey); err != nil {
			log.Printf("media remove error for %s: %v", obj.ObjectKey, err)
			failed = append(failed, uri)
			continue
		}
		if err := h.media.DeleteByOwnerAndName(r.Context(), claims.UserID, fileName); err != nil {
			log.Printf("media delete error for %s: %v", fileName, err)
			failed = append(failed, uri)
		}
	}

	if len(failed) > 0 {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to delete some files: " + strings.Join(failed, ", "),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Media files deleted successfully"})
}

// Serve streams an uploaded object read-only at /uploads/{userId}/{fileName}.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	fileName := chi.URLParam(r, "fileName")
	if userID == "" || fileName == "" {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}

	// path.Base guards against traversal inside the object key.
	body, contentType, err := h.files.Download(r.Context(), userID+"/"+path.Base(fileName))
	if err != nil {
		http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", contentType)
	io.Copy(w, body)
}
