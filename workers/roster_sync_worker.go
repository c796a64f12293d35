// workers/roster_sync_worker.go
package workers

import (
	"log"
	"os"
	"strconv"
	"time"

	"meetup-matching-system/services"

	"github.com/go-co-op/gocron/v2"
)

// StartRosterSyncWorker refreshes both roster CSV caches on an interval so
// matching never blocks on a cold fetch. ROSTER_SYNC_MINUTES overrides the
// default 10 minute period.
func StartRosterSyncWorker(rosters *services.RosterService) {
	interval := 10 * time.Minute
	if raw := os.Getenv("ROSTER_SYNC_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			interval = time.Duration(minutes) * time.Minute
		}
	}

	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			rosters.RefreshAll()
		}),
	)

	// warm the cache once at boot, off the request path
	go rosters.RefreshAll()

	log.Printf("🔁 Roster sync worker started (every %v)", interval)
}
