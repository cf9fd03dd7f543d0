package ucommon

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/jtolds/gls"
)

const (
	// MinStack requests the smallest stack the platform allows.
	MinStack = 1

	minStackSize = 16 << 10
)

type threadKey struct{}

var threads = gls.NewContextManager()

// Thread is the state shared by joinable and detached threads. Each thread
// runs its function on a dedicated OS thread after applying its priority
// adjustment.
//
// Go sizes goroutine stacks itself, so the stack size is kept as a hint
// only.
type Thread struct {
	stack    int
	priority int
	run      func()
}

func newThread(run func(), stack int) Thread {
	if stack != 0 && stack < minStackSize {
		stack = minStackSize
	}
	return Thread{stack: stack, run: run}
}

// StackSize returns the requested stack size, 0 meaning the default.
func (t *Thread) StackSize() int { return t.stack }

// Priority returns the adjustment requested by the last Start.
func (t *Thread) Priority() int { return t.priority }

// Go runs fn on a new goroutine that Self reports as part of t.
func (t *Thread) Go(fn func()) {
	go threads.SetValues(gls.Values{threadKey{}: t}, fn)
}

// Exit terminates the thread from inside. Calling it from any other
// goroutine is a contract violation.
func (t *Thread) Exit() {
	if Self() != t {
		fatal("thread", ErrBadState, slog.String("op", "exit"))
	}
	runtime.Goexit()
}

func (t *Thread) exec(done func()) {
	// The OS thread is never unlocked, so it is torn down with the
	// goroutine and the priority change dies with it.
	runtime.LockOSThread()
	defer done()

	if t.priority != 0 {
		if err := setPriority(t.priority); err != nil {
			Logger().Debug("priority not applied",
				slog.String("component", "thread"),
				slog.Int("priority", t.priority),
				slog.Any("error", err))
		}
	}

	Logger().Debug("thread started", slog.String("component", "thread"), slog.Int("stack", t.stack))
	threads.SetValues(gls.Values{threadKey{}: t}, t.run)
}

// Self returns the thread running the caller, or nil outside of any.
func Self() *Thread {
	v, ok := threads.GetValue(threadKey{})
	if !ok {
		return nil
	}
	t, _ := v.(*Thread)
	return t
}

// JoinableThread is a thread another goroutine can wait for.
type JoinableThread struct {
	Thread

	mu      sync.Mutex
	running bool
	done    chan struct{}
}

func NewJoinableThread(run func(), stack int) *JoinableThread {
	return &JoinableThread{Thread: newThread(run, stack)}
}

// Start launches the thread. It does nothing while the thread is running.
func (j *JoinableThread) Start(priority int) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return
	}
	j.running = true
	j.priority = priority
	j.done = make(chan struct{})

	done := j.done
	go j.exec(func() {
		j.mu.Lock()
		j.running = false
		j.mu.Unlock()
		close(done)
		Logger().Debug("thread joined", slog.String("component", "thread"))
	})
}

// Join waits for the thread to return. Joining a thread that was never
// started, or was already joined, returns at once. A thread joining itself
// exits instead.
func (j *JoinableThread) Join() {
	if Self() == &j.Thread {
		j.Exit()
	}

	j.mu.Lock()
	done := j.done
	j.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (j *JoinableThread) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.running
}

// DetachedThread is a thread nobody joins. It can be started once.
type DetachedThread struct {
	Thread

	once sync.Once
	done chan struct{}
}

func NewDetachedThread(run func(), stack int) *DetachedThread {
	return &DetachedThread{
		Thread: newThread(run, stack),
		done:   make(chan struct{}),
	}
}

func (d *DetachedThread) Start(priority int) {
	d.once.Do(func() {
		d.priority = priority
		go d.exec(func() {
			close(d.done)
			Logger().Debug("thread exited", slog.String("component", "thread"))
		})
	})
}

// Done is closed once the thread has returned or exited.
func (d *DetachedThread) Done() <-chan struct{} {
	return d.done
}

// Sleep suspends the caller for timeout. Inf sleeps forever.
func Sleep(timeout time.Duration) {
	if timeout < 0 {
		select {}
	}
	time.Sleep(timeout)
}

// Yield lets other goroutines run.
func Yield() {
	runtime.Gosched()
}
