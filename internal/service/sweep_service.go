package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// How long an unpaid checkout may sit before its pending rows are purged.
const stalePendingAge = 24 * time.Hour

// SweepService periodically expires purchased photos and active purchases
// whose window has passed, and purges pending rows from abandoned checkouts.
// Each pass is idempotent; a missed run only delays expiry by one interval.
type SweepService struct {
	photoRepo    PhotoRepository
	purchaseRepo PurchaseRepository
	interval     time.Duration
	logger       *zap.Logger

	stopChan  chan struct{}
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

func NewSweepService(photoRepo PhotoRepository, purchaseRepo PurchaseRepository, interval time.Duration, logger *zap.Logger) *SweepService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SweepService{
		photoRepo:    photoRepo,
		purchaseRepo: purchaseRepo,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

func (s *SweepService) Start() {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()

	s.logger.Info("expiry sweep started", zap.Duration("interval", s.interval))
}

func (s *SweepService) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("expiry sweep stopped")
}

func (s *SweepService) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(time.Now())
		case <-s.stopChan:
			return
		}
	}
}

// RunOnce executes a single sweep pass. Exposed so boot and tests can sweep
// without waiting for a tick.
func (s *SweepService) RunOnce(now time.Time) {
	expiredPhotos, err := s.photoRepo.ExpireOverdue(now)
	if err != nil {
		s.logger.Error("failed to expire photos", zap.Error(err))
	}

	expiredPurchases, err := s.purchaseRepo.ExpireOverdue(now)
	if err != nil {
		s.logger.Error("failed to expire purchases", zap.Error(err))
	}

	stale, err := s.purchaseRepo.DeleteStalePending(now.Add(-stalePendingAge))
	if err != nil {
		s.logger.Error("failed to purge stale pending purchases", zap.Error(err))
	}

	if expiredPhotos > 0 || expiredPurchases > 0 || stale > 0 {
		s.logger.Info("expiry sweep pass",
			zap.Int64("photos", expiredPhotos),
			zap.Int64("purchases", expiredPurchases),
			zap.Int64("stale_pending", stale))
	}
}
