package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
)

// CacheInvalidationService drops cached aggregates when shop events arrive,
// so owner dashboards reflect new visits and verification changes without
// waiting for TTLs.
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelShopUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to shop updates: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ShopEvent) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case event := <-eventChan:
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

// handleEvent handles a single shop event
func (s *CacheInvalidationService) handleEvent(event *entities.ShopEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch event.EventType {
	case entities.ShopEventTypeVisitRecorded:
		// New visits move the owner's aggregates immediately.
		if err := s.cache.Delete(ctx, fmt.Sprintf("dashboard:shop:%s", event.ShopID)); err != nil {
			log.Warn().Err(err).Str("shop_id", event.ShopID).Msg("failed to invalidate dashboard cache")
		}
	case entities.ShopEventTypeVerificationChange, entities.ShopEventTypeRegistered:
		if err := s.cache.Delete(ctx, fmt.Sprintf("shop:%s", event.ShopID)); err != nil {
			log.Warn().Err(err).Str("shop_id", event.ShopID).Msg("failed to invalidate shop cache")
		}
		if err := s.cache.DeletePattern(ctx, "shops:owner:*"); err != nil {
			log.Warn().Err(err).Msg("failed to invalidate owner shop lists")
		}
	}
}
