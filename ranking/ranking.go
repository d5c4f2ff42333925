// Package ranking serves the leaderboard of saved game characters
package ranking

import (
	"context"
	"fmt"
	"time"

	"zroom/cache"
	"zroom/models"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultSize = 20
	DefaultTTL  = time.Hour
)

type SaveStore interface {
	TopGameSaves(ctx context.Context, limit int) ([]models.GameSave, error)
}

type Entry struct {
	RankScore   int64   `json:"rankScore"`
	CharacterId string  `json:"characterId"`
	Name        string  `json:"name"`
	Image       *string `json:"image"`
	Stats       Stats   `json:"stats"`
	Level       *int64  `json:"level"`
	ClassName   *string `json:"className"`
	Element     *string `json:"element"`
}

// EntryOf builds the ranking entry of a save. ok is false when the save holds
// no character with both an id and a name.
func EntryOf(save models.GameSave) (Entry, bool) {
	character, score, ok := BestCharacter(ParseCharacters(save.Data), save.RankCharacterId)
	if !ok || character.Id == "" || character.Name == "" {
		return Entry{}, false
	}

	entry := Entry{
		RankScore:   save.RankScore,
		CharacterId: character.Id,
		Name:        character.Name,
		Image:       character.Image,
		Stats:       character.TotalStats(),
		ClassName:   character.ClassName,
		Element:     character.Element,
	}
	if entry.RankScore == 0 {
		entry.RankScore = score
	}
	if level := int64(character.Level); level != 0 {
		entry.Level = &level
	}
	return entry, true
}

type Service struct {
	cache *cache.Cache[[]Entry]
}

func NewService(store SaveStore, size int, ttl time.Duration, opts ...cache.Option[[]Entry]) *Service {
	if size < 1 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	load := func(ctx context.Context) ([]Entry, error) {
		start := time.Now()
		saves, err := store.TopGameSaves(ctx, size)
		if err != nil {
			return nil, fmt.Errorf("failed to load game saves: %w", err)
		}

		entries := make([]Entry, 0, len(saves))
		for _, save := range saves {
			if entry, ok := EntryOf(save); ok {
				entries = append(entries, entry)
			}
		}

		log.WithFields(log.Fields{
			"saves":   len(saves),
			"entries": len(entries),
			"took":    time.Since(start),
		}).Info("Loaded ranking")
		return entries, nil
	}

	return &Service{cache: cache.New(ttl, load, opts...)}
}

// Top returns the cached ranking, loading it when expired
func (s *Service) Top(ctx context.Context) ([]Entry, error) {
	entries, hit, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	rankingCacheLookups.WithLabelValues(hitLabel(hit)).Inc()
	return entries, nil
}

// Refresh reloads the ranking regardless of the cache age
func (s *Service) Refresh(ctx context.Context) ([]Entry, error) {
	return s.cache.Refresh(ctx)
}

func (s *Service) Invalidate() {
	s.cache.Invalidate()
}
