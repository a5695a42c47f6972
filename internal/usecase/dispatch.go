package usecase

import (
	"sync"
	"time"

	"clock-radio/internal/domain"
	"clock-radio/internal/logging"
	"clock-radio/internal/telemetry"
)

// dispatcher executes command batches on one worker so a slow sink never holds up a tick.
// Batches run in the order they were queued; when the queue is full a batch is dropped.
type dispatcher struct {
	sink  domain.AudioSink
	queue chan []domain.Command

	mu      sync.Mutex
	pending int
	idle    chan struct{} // closed while pending is zero
}

func newDispatcher(sink domain.AudioSink, size int) *dispatcher {
	d := &dispatcher{sink: sink, queue: make(chan []domain.Command, size), idle: make(chan struct{})}
	close(d.idle)
	go d.run()
	return d
}

// enqueue never blocks.
func (d *dispatcher) enqueue(cmds []domain.Command) bool {
	if len(cmds) == 0 {
		return true
	}
	d.mu.Lock()
	if d.pending == 0 {
		d.idle = make(chan struct{})
	}
	d.pending++
	d.mu.Unlock()

	select {
	case d.queue <- cmds:
		return true
	default:
		d.finish()
		for _, cmd := range cmds {
			telemetry.AudioErrors.WithLabelValues(string(cmd.Kind)).Inc()
		}
		logging.Warnf("audio queue full, dropping %v", cmds)
		return false
	}
}

func (d *dispatcher) run() {
	for cmds := range d.queue {
		d.execute(cmds)
		d.finish()
	}
}

func (d *dispatcher) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending--
	if d.pending == 0 {
		close(d.idle)
	}
}

// drain waits up to timeout for queued batches to finish and reports whether they did.
func (d *dispatcher) drain(timeout time.Duration) bool {
	d.mu.Lock()
	idle := d.idle
	d.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-idle:
		return true
	case <-timer.C:
		return false
	}
}

// execute sends commands in order. Sink failures are logged and counted, never fed back.
func (d *dispatcher) execute(cmds []domain.Command) {
	for _, cmd := range cmds {
		kind := string(cmd.Kind)
		telemetry.AudioCommands.WithLabelValues(kind).Inc()
		if err := cmd.Dispatch(d.sink); err != nil {
			telemetry.AudioErrors.WithLabelValues(kind).Inc()
			logging.Warnf("audio %s failed: %v", cmd, err)
			continue
		}
		switch cmd.Kind {
		case domain.CommandSetVolume:
			telemetry.Volume.Set(float64(cmd.Volume))
		case domain.CommandPlay:
			telemetry.WindowActive.Set(1)
		case domain.CommandStop:
			telemetry.WindowActive.Set(0)
		}
	}
}
