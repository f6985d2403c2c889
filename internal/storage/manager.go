package storage

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/EasterCompany/package-builder-service/internal/session"
)

const (
	defaultCacheSize     = 1024
	defaultRemoteTimeout = 5 * time.Second
	lockStripes          = 64
)

// Observer is notified of store activity.
type Observer interface {
	SessionSaved()
	RemoteFailure(op string)
	OutboxDepth(n int)
}

type noopObserver struct{}

func (noopObserver) SessionSaved()        {}
func (noopObserver) RemoteFailure(string) {}
func (noopObserver) OutboxDepth(int)      {}

type Options struct {
	CacheSize     int
	RemoteTimeout time.Duration
	Logger        *zap.Logger
	Observer      Observer
}

// Manager is the session store. Local writes are synchronous and are the
// source of truth while the process runs; the remote copy is a mirror kept
// up to date through an outbox of pending session versions.
type Manager struct {
	local  session.Repository
	remote session.Repository // nil when no mirror is configured

	// mu guards cache, pending and cleared. It is never held across I/O.
	mu      sync.Mutex
	cache   *lru.Cache[string, *session.Record]
	pending map[string]int64
	// cleared holds ids whose remote copy has not been deleted yet. The
	// remote is not read for them until the delete lands.
	cleared map[string]struct{}

	// pushMu orders remote writes so an older version never lands last and
	// a delete lands after every push queued before it.
	pushMu sync.Mutex
	// locks serialize the read-modify-write of one session.
	locks [lockStripes]sync.Mutex

	logger        *zap.Logger
	observer      Observer
	remoteTimeout time.Duration
	now           func() time.Time
	wg            sync.WaitGroup
}

// NewManager creates a new session store over a local repository and an
// optional remote mirror.
func NewManager(local, remote session.Repository, opts Options) (*Manager, error) {
	if local == nil {
		return nil, fmt.Errorf("local repository is required")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = defaultRemoteTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Observer == nil {
		opts.Observer = noopObserver{}
	}
	cache, err := lru.New[string, *session.Record](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Manager{
		local:         local,
		remote:        remote,
		cache:         cache,
		pending:       make(map[string]int64),
		cleared:       make(map[string]struct{}),
		logger:        opts.Logger,
		observer:      opts.Observer,
		remoteTimeout: opts.RemoteTimeout,
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

// Load returns the record for id. A local hit returns straight away; the
// remote mirror is consulted in the background on a cold load, and
// synchronously only when nothing exists locally.
func (m *Manager) Load(ctx context.Context, id string) (*session.Record, error) {
	m.mu.Lock()
	if rec, ok := m.cache.Get(id); ok {
		m.mu.Unlock()
		return rec.Clone(), nil
	}
	m.mu.Unlock()

	rec, err := m.local.Get(ctx, id)
	switch {
	case err == nil:
		m.remember(rec)
		m.refreshAsync(id, rec.Version)
		return rec.Clone(), nil
	case !errors.Is(err, session.ErrNotFound):
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	if m.remote == nil || m.isCleared(id) {
		return nil, session.ErrNotFound
	}

	rctx, cancel := context.WithTimeout(ctx, m.remoteTimeout)
	defer cancel()
	rec, err = m.remote.Get(rctx, id)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			m.observer.RemoteFailure("get")
			m.logger.Warn("Session Store: remote load failed", zap.String("session", id), zap.Error(err))
		}
		return nil, session.ErrNotFound
	}

	sl := m.lockFor(id)
	sl.Lock()
	defer sl.Unlock()
	// A clear or save may have happened while the remote was read.
	if m.isCleared(id) {
		return nil, session.ErrNotFound
	}
	if cur, err := m.local.Get(ctx, id); err == nil {
		m.remember(cur)
		return cur.Clone(), nil
	}
	if err := m.local.Put(ctx, rec); err != nil {
		m.logger.Warn("Session Store: mirror to local failed", zap.String("session", id), zap.Error(err))
	}
	m.remember(rec)
	return rec.Clone(), nil
}

// Stored reads id from the local repository only, without caching it or
// touching the remote.
func (m *Manager) Stored(ctx context.Context, id string) (*session.Record, error) {
	return m.local.Get(ctx, id)
}

// Save merges patch into the record for id, creating it if needed. The
// local write happens before Save returns; the remote push does not.
func (m *Manager) Save(ctx context.Context, id string, patch session.Patch) (*session.Record, error) {
	sl := m.lockFor(id)
	sl.Lock()
	defer sl.Unlock()

	rec, err := m.current(ctx, id)
	if err != nil {
		return nil, err
	}
	rec.Apply(patch)
	rec.Version++
	rec.LastUpdated = m.now()

	if err := m.local.Put(ctx, rec); err != nil {
		return nil, fmt.Errorf("save session %s locally: %w", id, err)
	}

	m.mu.Lock()
	m.cache.Add(id, rec)
	delete(m.cleared, id)
	if m.remote != nil {
		m.pending[id] = rec.Version
		m.observer.OutboxDepth(len(m.pending))
	}
	m.mu.Unlock()
	m.observer.SessionSaved()

	if m.remote != nil {
		m.pushAsync(id)
	}
	return rec.Clone(), nil
}

// Clear forgets the session locally and asks the remote to do the same.
// Only a local failure is reported; a failed remote delete is retried by
// Flush.
func (m *Manager) Clear(ctx context.Context, id string) error {
	sl := m.lockFor(id)
	sl.Lock()
	defer sl.Unlock()

	m.mu.Lock()
	m.cache.Remove(id)
	delete(m.pending, id)
	m.observer.OutboxDepth(len(m.pending))
	if m.remote != nil {
		m.cleared[id] = struct{}{}
	}
	m.mu.Unlock()

	if err := m.local.Delete(ctx, id); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("clear session %s: %w", id, err)
	}

	if m.remote != nil {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			if _, err := m.deleteRemote(context.Background(), id); err != nil {
				m.logger.Warn("Session Store: remote delete failed, will retry", zap.String("session", id), zap.Error(err))
			}
		}()
	}
	return nil
}

// Flush pushes every pending session to the remote mirror and retries
// outstanding remote deletes. It returns how many were synced; failed ones
// stay queued.
func (m *Manager) Flush(ctx context.Context) (int, error) {
	if m.remote == nil {
		return 0, nil
	}
	m.mu.Lock()
	ids := make([]string, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	gone := make([]string, 0, len(m.cleared))
	for id := range m.cleared {
		gone = append(gone, id)
	}
	m.mu.Unlock()

	synced := 0
	var errs []error
	run := func(id string, op func(context.Context, string) (bool, error)) bool {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			return false
		}
		ok, err := op(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("sync %s: %w", id, err))
			return true
		}
		if ok {
			synced++
		}
		return true
	}
	for _, id := range gone {
		if !run(id, m.deleteRemote) {
			return synced, errors.Join(errs...)
		}
	}
	for _, id := range ids {
		if !run(id, m.pushOne) {
			break
		}
	}
	return synced, errors.Join(errs...)
}

// Pending returns the number of sessions waiting to be pushed.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// PendingDeletes returns the number of cleared sessions whose remote copy
// still has to be deleted.
func (m *Manager) PendingDeletes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cleared)
}

// List enumerates locally stored sessions when the medium supports it.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	lister, ok := m.local.(session.Lister)
	if !ok {
		return nil, fmt.Errorf("local store cannot list sessions")
	}
	return lister.List(ctx)
}

// Wait blocks until background remote calls have finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &m.locks[h.Sum32()%lockStripes]
}

func (m *Manager) isCleared(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cleared[id]
	return ok
}

// current returns a private copy of the latest record for id. Caller holds
// the session lock.
func (m *Manager) current(ctx context.Context, id string) (*session.Record, error) {
	m.mu.Lock()
	rec, ok := m.cache.Get(id)
	m.mu.Unlock()
	if ok {
		return rec.Clone(), nil
	}
	rec, err := m.local.Get(ctx, id)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, session.ErrNotFound) {
		return session.New(id), nil
	}
	return nil, fmt.Errorf("read session %s: %w", id, err)
}

func (m *Manager) remember(rec *session.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.ContainsOrAdd(rec.SessionID, rec.Clone())
}

func (m *Manager) pushAsync(id string) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if _, err := m.pushOne(context.Background(), id); err != nil {
			m.logger.Warn("Session Store: remote push failed, kept in outbox", zap.String("session", id), zap.Error(err))
		}
	}()
}

// pushOne sends the latest local copy of id and clears its outbox entry if
// no newer save happened meanwhile.
func (m *Manager) pushOne(ctx context.Context, id string) (bool, error) {
	m.pushMu.Lock()
	defer m.pushMu.Unlock()

	m.mu.Lock()
	want, ok := m.pending[id]
	rec, cached := m.cache.Peek(id)
	if cached {
		rec = rec.Clone()
	}
	m.mu.Unlock()
	if !ok {
		return false, nil
	}

	if !cached || rec.Version != want {
		var err error
		rec, err = m.local.Get(ctx, id)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				m.drop(id, want)
				return false, nil
			}
			return false, err
		}
	}

	rctx, cancel := context.WithTimeout(ctx, m.remoteTimeout)
	defer cancel()
	if err := m.remote.Put(rctx, rec); err != nil {
		m.observer.RemoteFailure("put")
		return false, err
	}
	m.drop(id, rec.Version)
	return true, nil
}

// deleteRemote removes the remote copy of a cleared session. It runs under
// pushMu so it lands after any push already in flight.
func (m *Manager) deleteRemote(ctx context.Context, id string) (bool, error) {
	m.pushMu.Lock()
	defer m.pushMu.Unlock()
	if !m.isCleared(id) {
		return false, nil
	}

	rctx, cancel := context.WithTimeout(ctx, m.remoteTimeout)
	defer cancel()
	if err := m.remote.Delete(rctx, id); err != nil && !errors.Is(err, session.ErrNotFound) {
		m.observer.RemoteFailure("delete")
		return false, err
	}
	m.mu.Lock()
	delete(m.cleared, id)
	m.mu.Unlock()
	return true, nil
}

func (m *Manager) drop(id string, version int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.pending[id]; ok && v <= version {
		delete(m.pending, id)
	}
	m.observer.OutboxDepth(len(m.pending))
}

// refreshAsync fetches the remote copy after a cold local load. It replaces
// the local record only if no save happened since the load and the remote
// copy is not older; an older remote copy is queued for a push instead.
func (m *Manager) refreshAsync(id string, seen int64) {
	if m.remote == nil || m.isCleared(id) {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), m.remoteTimeout)
		defer cancel()

		remote, err := m.remote.Get(ctx, id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				m.observer.RemoteFailure("get")
				m.logger.Warn("Session Store: remote refresh failed", zap.String("session", id), zap.Error(err))
			}
			return
		}

		sl := m.lockFor(id)
		sl.Lock()
		defer sl.Unlock()

		m.mu.Lock()
		cur, ok := m.cache.Peek(id)
		_, gone := m.cleared[id]
		m.mu.Unlock()
		if !ok || gone || cur.Version != seen {
			return
		}
		if remote.Version < seen {
			m.logger.Info("Session Store: remote copy is behind, queueing push",
				zap.String("session", id), zap.Int64("local", seen), zap.Int64("remote", remote.Version))
			m.mu.Lock()
			m.pending[id] = seen
			m.observer.OutboxDepth(len(m.pending))
			m.mu.Unlock()
			return
		}
		if err := m.local.Put(ctx, remote); err != nil {
			m.logger.Warn("Session Store: mirror to local failed", zap.String("session", id), zap.Error(err))
			return
		}
		m.mu.Lock()
		m.cache.Add(id, remote)
		m.mu.Unlock()
	}()
}
