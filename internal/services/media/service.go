package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ivankudzin/truecompanions/backend/internal/domain/apperr"
	"github.com/ivankudzin/truecompanions/backend/internal/pkg/validate"
)

const defaultURLTTL = 15 * time.Minute

var extensionsByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Limits struct {
	MaxImageBytes       int64
	AllowedContentTypes []string
	URLTTL              time.Duration
}

type Service struct {
	storage ObjectStorage
	maxSize int64
	allowed map[string]struct{}
	urlTTL  time.Duration
	log     *zap.Logger
	newID   func() string
}

// Upload is a stored object plus a time limited link to it.
type Upload struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewService(storage ObjectStorage, limits Limits) *Service {
	allowed := make(map[string]struct{}, len(limits.AllowedContentTypes))
	for _, ct := range limits.AllowedContentTypes {
		ct = strings.ToLower(strings.TrimSpace(ct))
		if _, ok := extensionsByType[ct]; ok {
			allowed[ct] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		allowed["image/jpeg"] = struct{}{}
		allowed["image/png"] = struct{}{}
	}
	if limits.MaxImageBytes <= 0 {
		limits.MaxImageBytes = 5 << 20
	}
	if limits.URLTTL <= 0 {
		limits.URLTTL = defaultURLTTL
	}

	return &Service{
		storage: storage,
		maxSize: limits.MaxImageBytes,
		allowed: allowed,
		urlTTL:  limits.URLTTL,
		log:     zap.NewNop(),
		newID:   uuid.NewString,
	}
}

func (s *Service) AttachLogger(log *zap.Logger) {
	if log != nil {
		s.log = log
	}
}

// UploadProfileImage stores an owner's image and returns a presigned link.
// The stored object is removed again if signing fails.
func (s *Service) UploadProfileImage(ctx context.Context, ownerID string, body io.Reader, size int64, contentType string) (Upload, error) {
	if s.storage == nil {
		return Upload{}, fmt.Errorf("media dependencies are not configured")
	}
	ownerID = validate.NormalizeEmail(ownerID)
	if ownerID == "" {
		return Upload{}, apperr.ErrUnauthorized
	}
	if body == nil || size <= 0 {
		return Upload{}, apperr.Invalid("image body is required")
	}
	if size > s.maxSize {
		return Upload{}, apperr.Invalid(fmt.Sprintf("image must be at most %d bytes", s.maxSize))
	}

	contentType = normalizeContentType(contentType)
	if _, ok := s.allowed[contentType]; !ok {
		return Upload{}, apperr.Invalid("unsupported image content type")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Upload{}, fmt.Errorf("ensure bucket: %w", err)
	}

	key := profileImageKey(ownerID, s.newID(), contentType)
	if err := s.storage.PutObject(ctx, key, io.LimitReader(body, size), size, contentType); err != nil {
		return Upload{}, fmt.Errorf("put object: %w", err)
	}

	url, err := s.storage.PresignGet(ctx, key, s.urlTTL)
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned profile image", zap.String("key", key), zap.Error(delErr))
		}
		return Upload{}, fmt.Errorf("presign image url: %w", err)
	}

	s.log.Info("profile image uploaded", zap.String("owner", ownerID), zap.String("key", key), zap.Int64("size", size))
	return Upload{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(s.urlTTL),
	}, nil
}

func profileImageKey(ownerID, id, contentType string) string {
	sum := sha256.Sum256([]byte(ownerID))
	return fmt.Sprintf("profiles/%s/%s%s", hex.EncodeToString(sum[:8]), id, extensionsByType[contentType])
}

func normalizeContentType(raw string) string {
	ct := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}
