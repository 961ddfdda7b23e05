package monitoring

import (
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/process"
)

// ClientCounter reports the number of connected chat clients.
type ClientCounter interface {
	ClientCount() int
}

// Stats is a point-in-time snapshot of process health.
type Stats struct {
	Status      string  `json:"status"`
	Uptime      string  `json:"uptime"`
	ChatClients int     `json:"chat_clients"`
	RSSBytes    uint64  `json:"rss_bytes"`
	CPUPercent  float64 `json:"cpu_percent"`
	Goroutines  int     `json:"goroutines"`
}

// StatUpdater is responsible for periodically sampling process stats.
type StatUpdater struct {
	chat     ClientCounter
	proc     *process.Process
	interval time.Duration
	started  time.Time
	done     chan struct{}
	stopOnce sync.Once

	mu   sync.RWMutex
	last Stats
}

// NewStatUpdater creates a new StatUpdater. Process metrics are omitted when
// the current process cannot be inspected.
func NewStatUpdater(chat ClientCounter, interval time.Duration) *StatUpdater {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Warn().Err(err).Msg("StatUpdater: process metrics unavailable")
		proc = nil
	}
	return &StatUpdater{
		chat:     chat,
		proc:     proc,
		interval: interval,
		started:  time.Now(),
		done:     make(chan struct{}),
	}
}

// Run starts the periodic updates.
func (su *StatUpdater) Run() {
	log.Info().Dur("interval", su.interval).Msg("Starting background stat updater...")
	ticker := time.NewTicker(su.interval)
	defer ticker.Stop()

	// Run once immediately on start
	su.Sample()

	for {
		select {
		case <-su.done:
			log.Info().Msg("Stopping background stat updater.")
			return
		case <-ticker.C:
			su.Sample()
		}
	}
}

// Stop halts the periodic updates. It is safe to call more than once.
func (su *StatUpdater) Stop() {
	su.stopOnce.Do(func() { close(su.done) })
}

// Sample takes a fresh snapshot and stores it.
func (su *StatUpdater) Sample() Stats {
	stats := Stats{
		Status:     "ok",
		Uptime:     time.Since(su.started).Round(time.Second).String(),
		Goroutines: runtime.NumGoroutine(),
	}
	if su.chat != nil {
		stats.ChatClients = su.chat.ClientCount()
	}
	if su.proc != nil {
		if mem, err := su.proc.MemoryInfo(); err == nil {
			stats.RSSBytes = mem.RSS
		} else {
			log.Warn().Err(err).Msg("StatUpdater: failed to read memory info")
		}
		if cpu, err := su.proc.CPUPercent(); err == nil {
			stats.CPUPercent = cpu
		} else {
			log.Warn().Err(err).Msg("StatUpdater: failed to read cpu usage")
		}
	}

	su.mu.Lock()
	su.last = stats
	su.mu.Unlock()
	return stats
}

// Latest returns the most recent snapshot, sampling once if none exists yet.
func (su *StatUpdater) Latest() Stats {
	su.mu.RLock()
	stats := su.last
	su.mu.RUnlock()
	if stats.Status == "" {
		return su.Sample()
	}
	return stats
}
