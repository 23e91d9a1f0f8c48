package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/keypoint-cli/keypoint/log"
)

const eventBuffer = 64

// observed properties, keyed by the id mpv echoes back
const (
	observeEOF = iota + 1
	observeCache
)

// eventListener holds a persistent connection that receives mpv's
// asynchronous events and translates them into backend Events.
type eventListener struct {
	socketPath string
	conn       net.Conn
	out        chan<- Event
	logger     *log.Entry

	mu      sync.Mutex
	pending chan error
	stopped chan struct{}
	once    sync.Once
	done    chan struct{}
}

func newEventListener(socketPath string, out chan<- Event) *eventListener {
	return &eventListener{
		socketPath: socketPath,
		out:        out,
		logger:     log.Component("mpv-events"),
		stopped:    make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// start subscribes on the listener's own connection, since mpv only sends
// property changes to the client that asked for them.
func (el *eventListener) start() error {
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	observe := []struct {
		id   int
		name string
	}{
		{observeEOF, "eof-reached"},
		{observeCache, "paused-for-cache"},
	}

	for _, prop := range observe {
		payload, err := json.Marshal(ipcRequest{Command: []any{"observe_property", prop.id, prop.name}})
		if err != nil {
			_ = conn.Close()
			return err
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	el.conn = conn
	go el.readLoop()

	el.logger.Debugf("listening on %s", el.socketPath)
	return nil
}

func (el *eventListener) stop() {
	el.once.Do(func() {
		close(el.stopped)
		if el.conn != nil {
			_ = el.conn.Close()
		}
	})
	<-el.done
}

// expectLoad arms a one-shot channel resolved by the next file-loaded or failed end-file.
func (el *eventListener) expectLoad() <-chan error {
	el.mu.Lock()
	defer el.mu.Unlock()

	el.pending = make(chan error, 1)
	return el.pending
}

func (el *eventListener) cancelLoad() {
	el.mu.Lock()
	defer el.mu.Unlock()
	el.pending = nil
}

func (el *eventListener) resolveLoad(err error) bool {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.pending == nil {
		return false
	}

	el.pending <- err
	el.pending = nil
	return true
}

func (el *eventListener) loading() bool {
	el.mu.Lock()
	defer el.mu.Unlock()
	return el.pending != nil
}

func (el *eventListener) readLoop() {
	defer close(el.done)

	scanner := bufio.NewScanner(el.conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		el.process(msg)
	}

	select {
	case <-el.stopped:
	default:
		if err := scanner.Err(); err != nil {
			el.logger.Warnf("read: %v", err)
		}
		el.resolveLoad(errNotRunning)
	}
}

func (el *eventListener) process(msg ipcMessage) {
	switch msg.Event {
	case "file-loaded":
		el.resolveLoad(nil)
	case "end-file":
		if msg.Reason == "error" {
			reason := msg.FileError
			if reason == "" {
				reason = "unknown error"
			}
			el.resolveLoad(errors.New(reason))
		}
	case "property-change":
		el.propertyChange(msg)
	}
}

func (el *eventListener) propertyChange(msg ipcMessage) {
	flag, ok := msg.Data.(bool)
	if !ok {
		return
	}

	switch msg.ID {
	case observeEOF:
		if flag && !el.loading() {
			el.emit(Event{Kind: EventEnded})
		}
	case observeCache:
		if flag {
			el.emit(Event{Kind: EventStalled})
		} else {
			el.emit(Event{Kind: EventResumed})
		}
	}
}

func (el *eventListener) emit(ev Event) {
	select {
	case el.out <- ev:
	case <-el.stopped:
	default:
		el.logger.Warnf("event buffer full, dropping %d", ev.Kind)
	}
}
