package smpp

import (
	"sync"
	"time"
)

// Keep-alive defaults.
const (
	DefaultEnquireInterval = 10 * time.Second
	DefaultIdleThreshold   = 40 * time.Second
)

// KeepAliveMonitor probes an idle link. Every interval it checks the time
// since the last PDU; once that exceeds the idle threshold it runs probe, and
// calls onFail when the probe does not succeed.
type KeepAliveMonitor struct {
	interval time.Duration
	idle     time.Duration
	last     func() time.Time
	probe    func() error
	onFail   func(error)

	stop chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

// NewKeepAliveMonitor returns a stopped monitor. Zero durations select the
// defaults.
func NewKeepAliveMonitor(interval, idle time.Duration, last func() time.Time, probe func() error, onFail func(error)) *KeepAliveMonitor {
	if interval <= 0 {
		interval = DefaultEnquireInterval
	}
	if idle <= 0 {
		idle = DefaultIdleThreshold
	}
	return &KeepAliveMonitor{
		interval: interval,
		idle:     idle,
		last:     last,
		probe:    probe,
		onFail:   onFail,
		stop:     make(chan struct{}),
	}
}

// Start runs the monitor until Stop is called or a probe fails.
func (k *KeepAliveMonitor) Start() {
	k.wg.Add(1)
	go k.run()
}

// Stop ends the monitor. It does not wait for a probe in flight, so it may
// be called from onFail or from the probe's own failure path.
func (k *KeepAliveMonitor) Stop() {
	k.once.Do(func() { close(k.stop) })
}

// Wait blocks until the monitor goroutine has returned.
func (k *KeepAliveMonitor) Wait() {
	k.wg.Wait()
}

func (k *KeepAliveMonitor) run() {
	defer k.wg.Done()
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()
	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
		}
		if time.Since(k.last()) < k.idle {
			continue
		}
		if err := k.probe(); err != nil {
			select {
			case <-k.stop:
				return
			default:
			}
			k.Stop()
			k.onFail(err)
			return
		}
	}
}
