package checkin

import (
	"log/slog"
	"sync"

	"activitycheckin/internal/domain"
)

// Desks hands out one Desk per operator, created on first use.
type Desks struct {
	mu     sync.Mutex
	desks  map[string]*Desk
	svc    domain.CheckInService
	cfg    Config
	after  Timer
	logger *slog.Logger
}

func NewDesks(svc domain.CheckInService, cfg Config, logger *slog.Logger) *Desks {
	return &Desks{desks: make(map[string]*Desk), svc: svc, cfg: cfg, logger: logger}
}

// For returns the operator's desk.
func (ds *Desks) For(operatorID string) *Desk {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	d, ok := ds.desks[operatorID]
	if !ok {
		d = NewDesk(operatorID, ds.svc, ds.cfg, ds.after, ds.logger)
		ds.desks[operatorID] = d
	}
	return d
}
