package dc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"Dawnforge/internal/settlement/app"
	"Dawnforge/internal/settlement/entity"
	"Dawnforge/modules/kit/logx"
)

const (
	defaultFlushEvery = 3 * time.Second
	retryBackoff      = 200 * time.Millisecond
	writeTimeout      = 5 * time.Second
)

// SettlementDC 持有一个存档的内存副本。
// 脏检查 + 同步快照 + 异步写库；待写队列只留最新的一份快照。
// 所有写入都经所属 actor 串行进入，存储侧再按 version 丢弃旧快照。
type SettlementDC struct {
	repo       app.SaveRepository
	entity     *entity.Settlement
	flushEvery time.Duration
	log        logx.Logger

	mu      sync.Mutex
	pending *entity.PersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewSettlementDC(repo app.SaveRepository, flushEvery time.Duration, l logx.Logger) *SettlementDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if l == nil {
		l = logx.Nop()
	}
	d := &SettlementDC{
		repo:       repo,
		flushEvery: flushEvery,
		log:        l,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

func (d *SettlementDC) Load(ctx context.Context, name string) (*entity.Settlement, error) {
	st, err := d.repo.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	d.Attach(st)
	return st, nil
}

// Attach 接管一个新建或已加载的存档，版本号从它当前的版本继续。
func (d *SettlementDC) Attach(st *entity.Settlement) {
	d.mu.Lock()
	d.entity = st
	if st != nil && st.Version() > d.version {
		d.version = st.Version()
	}
	d.mu.Unlock()
}

func (d *SettlementDC) Entity() *entity.Settlement {
	return d.entity
}

func (d *SettlementDC) FlushEvery() time.Duration {
	return d.flushEvery
}

func (d *SettlementDC) IsDirty() bool {
	return d.entity != nil && d.entity.Dirty()
}

// Flush 只做快照入队，真正的写库在 writerLoop。
func (d *SettlementDC) Flush() {
	if !d.IsDirty() {
		return
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return
	}
	d.enqueueLatest(s)
}

// FlushSync 同步写库，开新局这类需要立刻可见的写入使用。
// 失败时快照退回队列，由写协程继续重试。
func (d *SettlementDC) FlushSync(ctx context.Context) error {
	if !d.IsDirty() {
		return nil
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	if err := d.repo.Save(ctx, s); err != nil {
		d.enqueueLatest(s)
		return err
	}
	return nil
}

// Close 最后 flush 一次，等写协程把队列写空。
func (d *SettlementDC) Close(ctx context.Context) error {
	d.Flush()

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *SettlementDC) buildNextSnapshot() (*entity.PersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *SettlementDC) enqueueLatest(s *entity.PersistSnapshot) {
	if s == nil {
		return
	}
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.keepNewerLocked(s)
	d.mu.Unlock()
	d.signal()
}

// requeueOnError 把写失败的快照放回去；队列里已有更新的快照时丢弃它。
// 关闭后也会放回，写协程在 stop 分支里会继续重试直到写空。
func (d *SettlementDC) requeueOnError(s *entity.PersistSnapshot) {
	d.mu.Lock()
	d.keepNewerLocked(s)
	d.mu.Unlock()
	d.signal()
}

func (d *SettlementDC) keepNewerLocked(s *entity.PersistSnapshot) {
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
}

func (d *SettlementDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *SettlementDC) popPending() *entity.PersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

func (d *SettlementDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 写空队列。closing 时最多重试 3 次，避免关闭卡死在坏掉的存储上；
// 非 closing 时重试等待中收到 stop 就退出，交给 stop 分支做有限次的最后写入。
func (d *SettlementDC) consumePending(closing bool) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.repo.Save(ctx, s)
		cancel()
		if err == nil {
			failures = 0
			continue
		}
		failures++
		logx.ReportErrorWithLoggerContext(context.Background(), d.log, "settlement.flush", err,
			zap.String("save", s.Name),
			zap.Uint64("version", s.Version),
			zap.Int("failures", failures),
		)
		if closing && failures >= 3 {
			return
		}
		d.requeueOnError(s)
		if closing {
			time.Sleep(retryBackoff)
			continue
		}
		select {
		case <-time.After(retryBackoff):
		case <-d.stop:
			return
		}
	}
}
