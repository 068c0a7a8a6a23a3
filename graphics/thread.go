package graphics

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var threadIDs atomic.Uint64

type funcRun struct {
	f    func()
	done chan struct{}
}

// Thread is a goroutine locked to one OS thread that runs queued calls in
// order. GL contexts are current per OS thread, so every thread-affine call
// goes through a Thread.
type Thread struct {
	id    uint64
	queue chan funcRun
	quit  chan struct{}
	once  sync.Once
}

func newThread() *Thread {
	return &Thread{
		id:    threadIDs.Add(1),
		queue: make(chan funcRun),
		quit:  make(chan struct{}),
	}
}

// NewThread starts a new locked OS thread.
func NewThread() *Thread {
	t := newThread()
	started := make(chan struct{})
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		close(started)
		t.loop()
	}()
	<-started
	return t
}

// Main turns the calling goroutine into a Thread and runs f on another
// goroutine. It returns when f returns. Call it from main after locking the
// main OS thread in init, since window systems insist on the main thread.
func Main(f func(main *Thread)) {
	runtime.LockOSThread()
	t := newThread()
	go func() {
		defer t.Stop()
		f(t)
	}()
	t.loop()
}

func (t *Thread) loop() {
	for {
		select {
		case <-t.quit:
			return
		case r := <-t.queue:
			r.f()
			close(r.done)
		}
	}
}

// ID is unique per process.
func (t *Thread) ID() uint64 { return t.id }

// Call runs f on t and waits for it. Calls after Stop are dropped.
func (t *Thread) Call(f func()) {
	done := make(chan struct{})
	select {
	case t.queue <- funcRun{f: f, done: done}:
		<-done
	case <-t.quit:
	}
}

// CallErr is Call for functions returning an error. It reports
// BackendUnavailable when t has been stopped.
func (t *Thread) CallErr(f func() error) error {
	err := Errorf(BackendUnavailable, "thread %d stopped", t.id)
	t.Call(func() { err = f() })
	return err
}

// Stop ends the thread loop. It is safe to call more than once.
func (t *Thread) Stop() {
	t.once.Do(func() { close(t.quit) })
}
