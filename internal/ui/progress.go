package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// ProgressManager draws one bar per chapter. The run is sequential so
// only the most recently started bar moves.
type ProgressManager struct {
	p   *mpb.Progress
	cur *ProgressHandle
}

func NewProgressManager(w io.Writer) *ProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(w),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &ProgressManager{p: p}
}

// Close waits for every bar to render its final state.
func (pm *ProgressManager) Close() {
	if pm.cur != nil {
		pm.cur.Abort()
	}
	pm.p.Wait()
}

func (pm *ProgressManager) ChapterStarted(name string, pages int) {
	if pm.cur != nil {
		pm.cur.Abort()
	}
	pm.cur = pm.Register(name)
	pm.cur.SetTotal(pages)
}

func (pm *ProgressManager) PageWritten(n int64) {
	if pm.cur != nil {
		pm.cur.AddInflight(n)
	}
}

func (pm *ProgressManager) PageSaved(bytes int64) {
	if pm.cur != nil {
		pm.cur.Saved(bytes)
	}
}

func (pm *ProgressManager) ChapterFinished(ok bool) {
	if pm.cur == nil {
		return
	}
	if ok {
		pm.cur.MarkDone()
	} else {
		pm.cur.Abort()
	}
	pm.cur = nil
}

func (pm *ProgressManager) Register(prefix string) *ProgressHandle {
	h := &ProgressHandle{prefix: prefix, start: time.Now()}

	h.bar = pm.p.New(
		0,
		mpb.BarStyle().Rbound("]"),
		mpb.PrependDecorators(
			decor.Name(prefix+"  "),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				return " | " + Human(h.bytes.Load()+h.inflight.Load())
			}),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
		),
	)

	return h
}

// ProgressHandle is one chapter bar counting saved pages and bytes.
type ProgressHandle struct {
	prefix string
	bar    *mpb.Bar

	total    atomic.Int64
	done     atomic.Int64
	bytes    atomic.Int64
	inflight atomic.Int64

	start   time.Time
	elapsed atomic.Int64
	final   atomic.Bool
}

func (h *ProgressHandle) SetTotal(total int) {
	if h.final.Load() {
		return
	}

	h.total.Store(int64(total))
	h.bar.SetTotal(int64(total), false)
}

// AddInflight records n bytes of the page currently being written. A new
// attempt for the same page starts again from zero.
func (h *ProgressHandle) AddInflight(n int64) {
	if h.final.Load() {
		return
	}
	h.inflight.Store(n)
}

func (h *ProgressHandle) Saved(bytes int64) {
	if h.final.Load() {
		return
	}

	h.inflight.Store(0)
	h.bytes.Add(bytes)
	h.bar.SetCurrent(h.done.Add(1))
}

func (h *ProgressHandle) MarkDone() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.bar.SetCurrent(h.total.Load())
	h.bar.SetTotal(h.total.Load(), true)
}

// Abort stops the bar where it is and leaves it on screen.
func (h *ProgressHandle) Abort() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.bar.Abort(false)
}
