package emojimappings

import (
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/samber/mo"

	"reactodo/core"
	"reactodo/db"
	"reactodo/models"
)

type EmojiMappingsService struct {
	emojiMappingsRepo *db.PostgresEmojiMappingsRepository
}

func NewEmojiMappingsService(repo *db.PostgresEmojiMappingsRepository) *EmojiMappingsService {
	return &EmojiMappingsService{emojiMappingsRepo: repo}
}

// GetEffectiveMapping returns the user's stored mapping, or the fixed default
// mapping when no record exists or the stored record is malformed. The
// ambiguity of the stored shape is resolved here and never propagated
// downstream.
func (s *EmojiMappingsService) GetEffectiveMapping(
	ctx context.Context,
	userID string,
) (*models.EmojiMapping, error) {
	log.Printf("📋 Starting to get effective emoji mapping for user: %s", userID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	mappingOpt, err := s.emojiMappingsRepo.GetEmojiMappingByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get emoji mapping: %w", err)
	}

	if !mappingOpt.IsPresent() {
		log.Printf("📋 Completed successfully - no mapping stored for user %s, using defaults", userID)
		defaults := models.DefaultEmojiMapping
		defaults.UserID = userID
		return &defaults, nil
	}

	mapping := mappingOpt.MustGet()
	if !isWellFormed(mapping) {
		log.Printf("⚠️ Stored emoji mapping for user %s is malformed, using defaults", userID)
		defaults := models.DefaultEmojiMapping
		defaults.UserID = userID
		return &defaults, nil
	}

	log.Printf("📋 Completed successfully - retrieved emoji mapping for user: %s", userID)
	return mapping, nil
}

// ResolveUrgency maps a reaction name to an urgency bucket using the user's
// effective mapping. Returns None when the reaction matches none of the three
// configured emoji.
func (s *EmojiMappingsService) ResolveUrgency(
	ctx context.Context,
	userID, reaction string,
) (mo.Option[models.Urgency], error) {
	mapping, err := s.GetEffectiveMapping(ctx, userID)
	if err != nil {
		return mo.None[models.Urgency](), err
	}

	if urgency, ok := mapping.UrgencyFor(reaction); ok {
		return mo.Some(urgency), nil
	}
	return mo.None[models.Urgency](), nil
}

// UpsertEmojiMapping validates and stores a user's emoji selection. A
// rejection lists every specific violation, not just the first.
func (s *EmojiMappingsService) UpsertEmojiMapping(
	ctx context.Context,
	userID, todayEmoji, tomorrowEmoji, laterEmoji string,
) (*models.EmojiMapping, error) {
	log.Printf("📋 Starting to upsert emoji mapping for user: %s", userID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	if err := validateSelection(todayEmoji, tomorrowEmoji, laterEmoji); err != nil {
		return nil, err
	}

	mapping := &models.EmojiMapping{
		ID:            core.NewID("em"),
		UserID:        userID,
		TodayEmoji:    todayEmoji,
		TomorrowEmoji: tomorrowEmoji,
		LaterEmoji:    laterEmoji,
	}
	if err := s.emojiMappingsRepo.UpsertEmojiMapping(ctx, mapping); err != nil {
		return nil, fmt.Errorf("failed to upsert emoji mapping: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted emoji mapping for user: %s", userID)
	return mapping, nil
}

// validateSelection enforces the write-side rules: all three emoji non-empty,
// drawn from the allow-list, and pairwise distinct.
func validateSelection(todayEmoji, tomorrowEmoji, laterEmoji string) error {
	var violations []string

	buckets := []struct {
		name  string
		emoji string
	}{
		{"today", todayEmoji},
		{"tomorrow", tomorrowEmoji},
		{"later", laterEmoji},
	}

	for _, bucket := range buckets {
		if bucket.emoji == "" {
			violations = append(violations, fmt.Sprintf("%s emoji cannot be empty", bucket.name))
			continue
		}
		if !slices.Contains(models.AllowedEmojis, bucket.emoji) {
			violations = append(violations, fmt.Sprintf("%s emoji %q is not in the allowed list", bucket.name, bucket.emoji))
		}
	}

	if todayEmoji != "" && todayEmoji == tomorrowEmoji {
		violations = append(violations, "today and tomorrow emoji must be distinct")
	}
	if todayEmoji != "" && todayEmoji == laterEmoji {
		violations = append(violations, "today and later emoji must be distinct")
	}
	if tomorrowEmoji != "" && tomorrowEmoji == laterEmoji {
		violations = append(violations, "tomorrow and later emoji must be distinct")
	}

	if len(violations) > 0 {
		return core.NewValidationError(violations)
	}
	return nil
}

// isWellFormed checks a stored mapping row against the same rules used on
// write. Rows that predate the allow-list or were written by older clients
// fall back to defaults rather than erroring.
func isWellFormed(mapping *models.EmojiMapping) bool {
	return validateSelection(mapping.TodayEmoji, mapping.TomorrowEmoji, mapping.LaterEmoji) == nil
}
