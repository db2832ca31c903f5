// Package album aggregates the messages of one Telegram media group,
// which arrive as separate updates with a shared group ID and no
// terminator. Items are buffered behind a debounce delay, collection
// state is persisted across restarts, and completed groups drain
// through a single-flight FIFO so downstream writes never interleave.
package album

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iisyw/TeleGrabber/internal/logging"
	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
	"github.com/iisyw/TeleGrabber/internal/pkg/album/store"
	"github.com/iisyw/TeleGrabber/internal/pkg/metadata"
	"github.com/iisyw/TeleGrabber/internal/pkg/notice"
)

// Fetcher downloads one item into dir and returns the final file name.
type Fetcher interface {
	Fetch(item domain.MediaItem, dir string) (string, error)
}

// Resolver picks the target directory for a drained group.
type Resolver interface {
	Resolve(userName string, source domain.SourceMeta, when time.Time) (string, error)
}

type Config struct {
	// CollectDelay is how long after the first item a group is
	// considered complete.
	CollectDelay time.Duration
	// Cooldown is the pause between consecutive queue drains.
	Cooldown time.Duration
	// RollingDebounce re-arms the group timer on every append instead
	// of measuring the delay from the first item only.
	RollingDebounce bool
}

// Collector owns the collection store, the dispatch queue and the busy
// flag, all guarded by one mutex. The mutex is held for in-memory
// mutation plus the synchronous state-file write, never across
// downloads or notice edits, with one exception: the one-time
// "collecting" notice is posted inside the critical section so that a
// duplicate-delivery race cannot produce two notices for one group.
type Collector struct {
	mu     sync.Mutex
	store  *store.Store
	queue  []domain.GroupKey
	busy   bool
	timers map[domain.GroupKey]*time.Timer

	cfg      Config
	sender   notice.Sender
	fetcher  Fetcher
	resolver Resolver
	meta     metadata.Writer
	log      zerolog.Logger
}

func New(st *store.Store, cfg Config, sender notice.Sender, fetcher Fetcher, resolver Resolver, meta metadata.Writer) *Collector {
	if cfg.CollectDelay <= 0 {
		cfg.CollectDelay = 2 * time.Second
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 500 * time.Millisecond
	}
	if meta == nil {
		meta = metadata.NopWriter{}
	}
	return &Collector{
		store:    st,
		timers:   make(map[domain.GroupKey]*time.Timer),
		cfg:      cfg,
		sender:   sender,
		fetcher:  fetcher,
		resolver: resolver,
		meta:     meta,
		log:      logging.Logger().With().Str("component", "album").Logger(),
	}
}

// Add upserts one arriving item into its group record and persists the
// store. It returns the item count and whether this was the first item
// of the group. The first item posts the "collecting" notice; a failed
// post leaves the record without a status message but still creates it.
func (c *Collector) Add(key domain.GroupKey, item domain.MediaItem, userID int64, userName string, source domain.SourceMeta) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := c.store.Load()
	rec, ok := groups[key]
	first := !ok
	if first {
		rec = &domain.GroupRecord{
			ChatID:      key.ChatID,
			UserID:      userID,
			UserName:    userName,
			GroupID:     key.GroupID,
			Items:       []domain.MediaItem{item},
			FirstSeenAt: time.Now(),
			SourceMeta:  source,
		}
		if id, err := c.sender.Notify(key.ChatID, textCollecting); err != nil {
			c.log.Warn().Err(err).Stringer("group", key).Msg("collecting notice failed")
		} else {
			rec.StatusMessageID = id
		}
		groups[key] = rec
		c.log.Info().Stringer("group", key).Str("user", userName).Msg("started collecting media group")
	} else {
		rec.Items = append(rec.Items, item)
	}

	if err := c.store.Save(groups); err != nil {
		c.log.Error().Err(err).Msg("persisting collection state failed")
	}

	if !first && c.cfg.RollingDebounce {
		if t, ok := c.timers[key]; ok {
			t.Reset(c.cfg.CollectDelay)
		}
	}

	return len(rec.Items), first
}

// ScheduleFinalize enqueues a newly created group and arms its debounce
// timer. Call it exactly once per group, when Add reports first=true.
func (c *Collector) ScheduleFinalize(key domain.GroupKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queue = append(c.queue, key)
	c.timers[key] = time.AfterFunc(c.cfg.CollectDelay, func() {
		c.mu.Lock()
		delete(c.timers, key)
		c.mu.Unlock()
		c.TryAdvance()
	})
}

// TryAdvance pops the next group off the queue and drains it, unless a
// drain is already in flight. At most one drain runs at any instant;
// the drain itself happens outside the lock.
func (c *Collector) TryAdvance() {
	c.mu.Lock()
	if c.busy || len(c.queue) == 0 {
		c.mu.Unlock()
		return
	}
	key := c.queue[0]
	c.queue = c.queue[1:]
	c.busy = true
	c.mu.Unlock()

	c.drain(key)

	c.mu.Lock()
	c.busy = false
	pending := len(c.queue) > 0
	c.mu.Unlock()

	if pending {
		time.AfterFunc(c.cfg.Cooldown, c.TryAdvance)
	}
}

// Pending returns the number of groups currently being collected.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.store.Load())
}
