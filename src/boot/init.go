package boot

import (
	"context"
	"log"
	"time"
	"tourbook/src/cart"
	"tourbook/src/catalog"
	"tourbook/src/config"
	"tourbook/src/lib"
	"tourbook/src/session"
)

// Jobs are the periodic tasks run by the scheduler.
type Jobs struct {
	Feed     *catalog.Feed
	Cache    *lib.CatalogCache
	Sessions *session.Registry
	Carts    *cart.Registry
}

func InitRedis() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if lib.PingRedis(ctx) {
		log.Println("[redis] Connected")
	}
}

// WarmCatalog drops the cached catalog and loads a fresh snapshot.
func (j *Jobs) WarmCatalog() {
	ctx, cancel := context.WithTimeout(context.Background(), config.HTTPTimeout())
	defer cancel()
	if j.Cache != nil {
		j.Cache.Invalidate(ctx)
	}
	packages, err := j.Feed.Refresh(ctx)
	if err != nil {
		log.Printf("[catalog] Refresh failed: %s\n", err.Error())
		return
	}
	log.Printf("[catalog] Loaded %d packages\n", len(packages))
}

// SweepIdle forgets in-process session and cart handles idle longer than
// maxIdle. Persisted slots are kept.
func (j *Jobs) SweepIdle(maxIdle time.Duration) {
	sessions := j.Sessions.Sweep(maxIdle)
	carts := j.Carts.Sweep(maxIdle)
	if sessions+carts > 0 {
		log.Printf("[boot] Swept %d sessions and %d carts\n", sessions, carts)
	}
}

func InitScheduler(jobs *Jobs) {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	if _, err := lib.CreateOneTimeJob("catalog-warmup", jobs.WarmCatalog); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob("catalog-refresh", config.CatalogRefreshInterval(), jobs.WarmCatalog); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
	}
	if _, err := lib.CreateCronJob("session-sweep", 10*time.Minute, jobs.SweepIdle, time.Hour); err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while shutting stopping Scheduler. Check logs for info")
		return
	}
}
