// Package dashboard maintains the landing screen's aggregate counters, one
// live filtered subscription per card.
package dashboard

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
)

type Counts struct {
	TotalUsers    int `json:"totalUsers"` // non-admin accounts
	AdminUsers    int `json:"adminUsers"`
	TotalProducts int `json:"totalProducts"`
	SuccessOrders int `json:"successOrders"`
	FailedOrders  int `json:"failedOrders"`
	DiscountCodes int `json:"discountCodes"`
	MobileQueries int `json:"mobileQueries"`

	Loading bool `json:"loading"`
}

type Service struct {
	gw  docstore.Store
	log *slog.Logger

	mu     sync.RWMutex
	counts Counts
	unsubs []func()
}

func NewService(gw docstore.Store, log *slog.Logger) *Service {
	return &Service{gw: gw, log: log, counts: Counts{Loading: true}}
}

// Start opens every counter subscription. The first snapshot of each clears
// the loading flag for the whole card row.
func (s *Service) Start(ctx context.Context) error {
	cards := []struct {
		q     docstore.Query
		apply func(c *Counts, n int)
	}{
		{docstore.Query{Collection: "users"}.Where("admin", 0), func(c *Counts, n int) { c.TotalUsers = n }},
		{docstore.Query{Collection: "users"}.Where("admin", 1), func(c *Counts, n int) { c.AdminUsers = n }},
		{docstore.Query{Collection: "products"}, func(c *Counts, n int) { c.TotalProducts = n }},
		{docstore.Query{Collection: "successOrders"}, func(c *Counts, n int) { c.SuccessOrders = n }},
		{docstore.Query{Collection: "failedOrders"}, func(c *Counts, n int) { c.FailedOrders = n }},
		{docstore.Query{Collection: "discountCodes"}, func(c *Counts, n int) { c.DiscountCodes = n }},
		{docstore.Query{Collection: "mobileAppContactFormQueries"}, func(c *Counts, n int) { c.MobileQueries = n }},
	}

	for _, card := range cards {
		apply := card.apply
		unsub, err := s.gw.Subscribe(ctx, card.q, func(snap docstore.Snapshot) {
			s.mu.Lock()
			apply(&s.counts, len(snap))
			s.counts.Loading = false
			s.mu.Unlock()
		})
		if err != nil {
			s.Stop()
			return err
		}
		s.unsubs = append(s.unsubs, unsub)
	}
	return nil
}

// Stop tears the subscriptions down on navigation away.
func (s *Service) Stop() {
	for _, u := range s.unsubs {
		u()
	}
	s.unsubs = nil
}

func (s *Service) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts
}
