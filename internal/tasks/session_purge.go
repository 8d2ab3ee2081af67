// Package tasks runs the scheduled maintenance jobs of the service.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// SessionPurger deletes expired session rows on a cron schedule. The scs
// store's own cleanup goroutine is disabled, so this is the only place
// expired sessions are removed.
type SessionPurger struct {
	db   *sql.DB
	cron *cron.Cron
}

// NewSessionPurger schedules the purge job. The schedule uses standard
// cron format, e.g. "0 * * * *" for hourly.
func NewSessionPurger(db *sql.DB, schedule string) (*SessionPurger, error) {
	p := &SessionPurger{
		db:   db,
		cron: cron.New(),
	}

	if _, err := p.cron.AddFunc(schedule, p.purge); err != nil {
		return nil, fmt.Errorf("invalid session purge schedule %q: %w", schedule, err)
	}

	return p, nil
}

// Start begins running the schedule in a background goroutine.
func (p *SessionPurger) Start() {
	p.cron.Start()
	log.Printf("Session purge scheduler started")
}

// Stop halts the scheduler, waiting for a running purge to finish or the
// context to expire.
func (p *SessionPurger) Stop(ctx context.Context) {
	stopCtx := p.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// Purge runs one purge pass immediately. Exposed for tests and for an
// eager sweep at startup.
func (p *SessionPurger) Purge() (int64, error) {
	// scs's sqlite3store stores expiry as a julian day number
	result, err := p.db.Exec("DELETE FROM sessions WHERE expiry < julianday('now')")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (p *SessionPurger) purge() {
	purged, err := p.Purge()
	if err != nil {
		log.Printf("Session purge failed: %v", err)
		return
	}
	if purged > 0 {
		log.Printf("Purged %d expired sessions", purged)
	}
}
