package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrDisabled      = errors.New("recipe extraction is not configured")
	ErrImageTooLarge = errors.New("image is too large")
)

// Service runs extraction and remembers the resulting drafts.
type Service struct {
	extractor     Extractor
	drafts        DraftStore
	maxImageBytes int
	log           *zap.Logger
}

// NewService returns a Service. A nil extractor disables extraction.
func NewService(extractor Extractor, drafts DraftStore, maxImageBytes int, log *zap.Logger) *Service {
	return &Service{
		extractor:     extractor,
		drafts:        drafts,
		maxImageBytes: maxImageBytes,
		log:           log,
	}
}

func (s *Service) Enabled() bool {
	return s.extractor != nil
}

// Extract reads a recipe draft from the photo. On failure the caller falls
// back to manual entry; nothing is retried.
func (s *Service) Extract(ctx context.Context, userID uuid.UUID, imageBase64 string) (*Draft, error) {
	if strings.TrimSpace(imageBase64) == "" {
		return nil, ErrEmptyImage
	}
	if s.extractor == nil {
		return nil, ErrDisabled
	}
	// base64 grows data by a third
	if s.maxImageBytes > 0 && len(imageBase64)/4*3 > s.maxImageBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, s.maxImageBytes)
	}
	if _, _, err := cleanBase64(imageBase64); err != nil {
		return nil, err
	}

	start := time.Now()
	draft, err := s.extractor.Extract(ctx, imageBase64)
	if err != nil {
		s.log.Error("recipe extraction failed",
			zap.String("provider", s.extractor.Name()),
			zap.String("user_id", userID.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}

	draft.ID = uuid.NewString()
	draft.Provider = s.extractor.Name()
	draft.CreatedAt = time.Now()
	s.log.Info("recipe extracted",
		zap.String("provider", draft.Provider),
		zap.String("draft_id", draft.ID),
		zap.Int("ingredients", len(draft.Ingredients)),
		zap.Duration("elapsed", time.Since(start)))

	if s.drafts != nil {
		if err := s.drafts.Save(ctx, userID, draft); err != nil {
			s.log.Warn("failed to keep extraction draft", zap.String("draft_id", draft.ID), zap.Error(err))
		}
	}
	return draft, nil
}

func (s *Service) Draft(ctx context.Context, userID uuid.UUID, id string) (*Draft, error) {
	if s.drafts == nil {
		return nil, ErrDraftExpired
	}
	return s.drafts.Get(ctx, userID, id)
}
