package fsuipc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ehrlich-b/go-fsuipc/datarequest"
)

// ProcessResult is the outcome of a processing cycle.
type ProcessResult int

const (
	ProcessOK             ProcessResult = 500
	ProcessRequestsEmpty  ProcessResult = 512
	ProcessStoreFailed    ProcessResult = 513
	ProcessFailed         ProcessResult = 514
	ProcessAlreadyRunning ProcessResult = 517
)

func (r ProcessResult) String() string {
	switch r {
	case ProcessOK:
		return "OK"
	case ProcessRequestsEmpty:
		return "REQUESTS_EMPTY"
	case ProcessStoreFailed:
		return "STORE_FAILED"
	case ProcessFailed:
		return "PROCESS_FAILED"
	case ProcessAlreadyRunning:
		return "ALREADY_RUNNING"
	default:
		return fmt.Sprintf("ProcessResult(%d)", int(r))
	}
}

// Listener receives client events. OnProcess and OnFail are called from the
// polling goroutine; OnConnected may be called from the connection waiter.
// Listeners may call back into the client.
// Listeners are compared with ==, so use pointer types.
type Listener interface {
	OnConnected()
	OnDisconnected()
	OnProcess(requests []datarequest.Request)
	OnFail(result ResultCode)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Connected    func()
	Disconnected func()
	Process      func(requests []datarequest.Request)
	Fail         func(result ResultCode)
}

func (l *ListenerFuncs) OnConnected() {
	if l.Connected != nil {
		l.Connected()
	}
}

func (l *ListenerFuncs) OnDisconnected() {
	if l.Disconnected != nil {
		l.Disconnected()
	}
}

func (l *ListenerFuncs) OnProcess(requests []datarequest.Request) {
	if l.Process != nil {
		l.Process(requests)
	}
}

func (l *ListenerFuncs) OnFail(result ResultCode) {
	if l.Fail != nil {
		l.Fail(result)
	}
}

// task is a cancellable background goroutine.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Client keeps one-time and continual request sets on top of a Session,
// tracks the connection and notifies listeners.
type Client struct {
	session *Session

	mu        sync.Mutex
	listeners []Listener
	oneTime   []datarequest.Request
	continual []datarequest.Request
	poller    *task
	waiter    *task

	// serializes processing cycles
	cycleMu sync.Mutex

	connected      atomic.Bool
	lastProcessing atomic.Int64
}

// NewClient creates a client using session. The session is not opened.
func NewClient(session *Session) *Client {
	return &Client{session: session}
}

// Session returns the underlying session.
func (c *Client) Session() *Session {
	return c.session
}

// AddListener registers l. Nil and already registered listeners are ignored.
func (c *Client) AddListener(l Listener) bool {
	if l == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.listeners {
		if existing == l {
			return false
		}
	}
	c.listeners = append(c.listeners, l)
	return true
}

// RemoveListener unregisters l.
func (c *Client) RemoveListener(l Listener) bool {
	if l == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.listeners {
		if existing == l {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveAllListeners unregisters every listener.
func (c *Client) RemoveAllListeners() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = nil
}

func (c *Client) notify(fn func(Listener)) {
	c.mu.Lock()
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()
	for _, l := range listeners {
		fn(l)
	}
}

// Connect opens the session. A session that is already open counts as
// connected.
func (c *Client) Connect(sim SimVersion) error {
	err := c.session.Open(sim)
	c.setConnected(err == nil || IsResult(err, ResultOpen))
	return err
}

// IsConnected reports the connection state as last observed.
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// WaitForConnection tries to open the session every period until it
// succeeds or ctx is done. A previous waiter is replaced.
func (c *Client) WaitForConnection(ctx context.Context, sim SimVersion, period time.Duration) {
	if period <= 0 {
		period = DefaultConnectPeriod
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}

	c.mu.Lock()
	old := c.waiter
	c.waiter = t
	c.mu.Unlock()
	if old != nil {
		old.cancel()
	}

	c.session.Logger().Debug("waiting for connection", "sim", sim.String(), "period", period.String())
	go c.waitLoop(ctx, t, sim, period)
}

func (c *Client) waitLoop(ctx context.Context, t *task, sim SimVersion, period time.Duration) {
	defer c.finish(&c.waiter, t)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		err := c.session.Open(sim)
		if ctx.Err() != nil {
			return
		}
		if err == nil || IsResult(err, ResultOpen) {
			c.setConnected(true)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// finish clears *slot if it still holds t and marks t done.
func (c *Client) finish(slot **task, t *task) {
	c.mu.Lock()
	if *slot == t {
		*slot = nil
	}
	c.mu.Unlock()
	t.cancel()
	close(t.done)
}

// stop cancels the task in *slot and optionally waits for it to exit.
func (c *Client) stop(slot **task, wait bool) {
	c.mu.Lock()
	t := *slot
	*slot = nil
	c.mu.Unlock()
	if t == nil {
		return
	}
	t.cancel()
	if wait {
		<-t.done
	}
}

// Disconnect stops the background goroutines and closes the session.
func (c *Client) Disconnect() error {
	c.session.Logger().Info("disconnecting")
	c.setConnected(false)
	c.stop(&c.waiter, true)
	c.CancelRequestsProcessing()
	return c.session.Close()
}

func (c *Client) setConnected(connected bool) {
	if c.connected.Swap(connected) == connected {
		return
	}
	if connected {
		c.stop(&c.waiter, false)
		c.notify(func(l Listener) { l.OnConnected() })
		return
	}
	c.stop(&c.poller, false)
	c.notify(func(l Listener) { l.OnDisconnected() })
}

// AddOneTimeRequest queues r for the next successful processing cycle.
func (c *Client) AddOneTimeRequest(r datarequest.Request) datarequest.Request {
	if r == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oneTime = append(c.oneTime, r)
	return r
}

// AddContinualRequest adds r to every processing cycle.
func (c *Client) AddContinualRequest(r datarequest.Request) datarequest.Request {
	if r == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.continual = append(c.continual, r)
	return r
}

// RemoveContinualRequest removes r from the continual set.
func (c *Client) RemoveContinualRequest(r datarequest.Request) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.continual {
		if existing == r {
			c.continual = append(c.continual[:i], c.continual[i+1:]...)
			return true
		}
	}
	return false
}

// ClearContinualRequests stops polling and empties the continual set.
func (c *Client) ClearContinualRequests() {
	c.CancelRequestsProcessing()
	c.mu.Lock()
	c.continual = nil
	c.mu.Unlock()
}

// OneTimeRequests returns the queued one-time requests.
func (c *Client) OneTimeRequests() []datarequest.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]datarequest.Request(nil), c.oneTime...)
}

// ContinualRequests returns the continual requests.
func (c *Client) ContinualRequests() []datarequest.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]datarequest.Request(nil), c.continual...)
}

// ProcessRequestsOnce stores and processes the one-time requests. They are
// dropped only when processing succeeds.
func (c *Client) ProcessRequestsOnce() ProcessResult {
	var ev events
	res := c.processOnce(&ev)
	c.dispatch(&ev)
	return res
}

func (c *Client) processOnce(ev *events) ProcessResult {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	batch := c.OneTimeRequests()
	res := c.store(batch, ev)
	if res != ProcessOK {
		return res
	}
	res = c.process(ev)
	if res == ProcessOK {
		c.dropOneTime(batch)
	}
	return res
}

// ProcessRequests starts a goroutine that processes both request sets every
// period until ctx is done, CancelRequestsProcessing is called or the
// connection is lost. With cancelRunning false an already running poller is
// left alone.
func (c *Client) ProcessRequests(ctx context.Context, period time.Duration, cancelRunning bool) ProcessResult {
	if period <= 0 {
		period = DefaultProcessPeriod
	}

	c.mu.Lock()
	running := c.poller != nil
	c.mu.Unlock()
	if running {
		if !cancelRunning {
			return ProcessAlreadyRunning
		}
		c.CancelRequestsProcessing()
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &task{cancel: cancel, done: make(chan struct{})}
	c.mu.Lock()
	if c.poller != nil {
		c.mu.Unlock()
		cancel()
		return ProcessAlreadyRunning
	}
	c.poller = t
	c.mu.Unlock()

	c.session.Logger().Debug("started request processing", "period", period.String())
	go c.pollLoop(ctx, t, period)
	return ProcessOK
}

// CancelRequestsProcessing stops the polling goroutine. A cycle that is
// talking to the library is allowed to finish first; no library call is
// made once it returns. Safe to call from listeners.
func (c *Client) CancelRequestsProcessing() {
	c.stop(&c.poller, false)
	c.cycleMu.Lock()
	c.cycleMu.Unlock()
}

// IsProcessing reports whether the polling goroutine is running.
func (c *Client) IsProcessing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.poller != nil
}

func (c *Client) pollLoop(ctx context.Context, t *task, period time.Duration) {
	defer c.finish(&c.poller, t)

	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		var ev events
		continual, ran := c.cycle(ctx, &ev)
		c.dispatch(&ev)
		if ran && c.connected.Load() && ctx.Err() == nil {
			c.notify(func(l Listener) { l.OnProcess(continual) })
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// cycle runs one polling pass and returns the continual requests it
// processed. Empty request sets are skipped without calling the library.
func (c *Client) cycle(ctx context.Context, ev *events) ([]datarequest.Request, bool) {
	c.cycleMu.Lock()
	defer c.cycleMu.Unlock()

	if ctx.Err() != nil {
		return nil, false
	}
	oneTime := c.OneTimeRequests()
	continual := c.ContinualRequests()
	if len(oneTime) == 0 && len(continual) == 0 {
		return nil, false
	}

	c.store(oneTime, ev)
	c.store(continual, ev)
	if c.process(ev) == ProcessOK {
		c.dropOneTime(oneTime)
	}
	return continual, true
}

func (c *Client) store(requests []datarequest.Request, ev *events) ProcessResult {
	if len(requests) == 0 {
		return ProcessRequestsEmpty
	}
	for _, r := range requests {
		var err error
		if r.Kind() == datarequest.KindWrite {
			err = c.session.Write(r.Offset(), r.Size(), r.Buffer())
		} else {
			err = c.session.Read(r.Offset(), r.Size(), r.Buffer())
		}
		if err != nil {
			c.checkLastResult(ev)
			return ProcessStoreFailed
		}
	}
	return ProcessOK
}

func (c *Client) process(ev *events) ProcessResult {
	start := time.Now()
	err := c.session.Process()
	c.lastProcessing.Store(int64(time.Since(start)))
	if err != nil {
		c.checkLastResult(ev)
		return ProcessFailed
	}
	return ProcessOK
}

func (c *Client) dropOneTime(done []datarequest.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.oneTime = c.oneTime[len(done):]
	if len(c.oneTime) == 0 {
		c.oneTime = nil
	}
}

// events collects what a cycle has to tell listeners once it no longer
// holds the cycle lock.
type events struct {
	fails []ResultCode
	lost  bool
}

// checkLastResult records a failed call; NOFS, NOTOPEN and SENDMSG mean the
// link is gone.
func (c *Client) checkLastResult(ev *events) {
	rc := c.session.Result()
	if rc == ResultOK {
		return
	}
	c.session.Logger().Debug("library call failed", "result", rc.String())
	ev.fails = append(ev.fails, rc)

	switch rc {
	case ResultNoFS, ResultNotOpen, ResultSendMsg:
		c.session.Logger().Warn("connection lost", "result", rc.String())
		ev.lost = true
	}
}

func (c *Client) dispatch(ev *events) {
	for _, rc := range ev.fails {
		c.notify(func(l Listener) { l.OnFail(rc) })
	}
	if ev.lost {
		c.setConnected(false)
	}
}

// LastProcessingTime is the duration of the most recent Process call.
func (c *Client) LastProcessingTime() time.Duration {
	return time.Duration(c.lastProcessing.Load())
}

// LastResult is the result code of the most recent library call.
func (c *Client) LastResult() ResultCode {
	return c.session.Result()
}

// LastErrorMessage is the FSUIPC message for LastResult.
func (c *Client) LastErrorMessage() string {
	return c.session.Result().Message()
}

// FSVersionName names the connected simulator.
func (c *Client) FSVersionName() string {
	return c.session.FSVersion().String()
}
