package player

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/keypoint-cli/keypoint/constant"
	"github.com/keypoint-cli/keypoint/log"
	"github.com/keypoint-cli/keypoint/media"
	"github.com/keypoint-cli/keypoint/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	loadTimeout       = 30 * time.Second
	quitTimeout       = 3 * time.Second
)

var errNotRunning = errors.New("mpv is not running")

// MPV drives a headless mpv process over its JSON-IPC socket.
// The process is started on the first Open and reused afterwards.
type MPV struct {
	path       string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *eventListener
	events     chan Event
	logger     *log.Entry
}

// NewMPV returns an mpv backend that runs the executable at path.
func NewMPV(path string) *MPV {
	if path == "" {
		path = "mpv"
	}

	return &MPV{
		path:   path,
		events: make(chan Event, eventBuffer),
		logger: log.Component("mpv"),
	}
}

func (m *MPV) running() bool {
	if m.cmd == nil {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

func (m *MPV) start() error {
	if m.running() {
		return nil
	}

	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.sock", constant.Keypoint, uuid.NewString()[:8]))

	// audio only, stays alive between items and holds the last frame at the end
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--idle=yes",
		"--no-video",
		"--force-window=no",
		"--keep-open=yes",
		"--input-ipc-server=" + m.socketPath,
	}

	m.cmd = exec.Command(m.path, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		m.cmd = nil
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(exited)
	}(m.cmd)

	if err := m.waitForSocket(); err != nil {
		m.kill()
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = newEventListener(m.socketPath, m.events)
	if err := m.listener.start(); err != nil {
		m.kill()
		return err
	}

	m.logger.Infof("started %s on %s", m.path, m.socketPath)
	return nil
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

func (m *MPV) kill() {
	if m.listener != nil {
		m.listener.stop()
		m.listener = nil
	}

	if m.running() {
		m.logger.Warnf("killing mpv")
		_ = killProcess(m.cmd)
	}

	if m.socketPath != "" {
		_ = os.Remove(m.socketPath)
	}
}

// Open loads ref paused and waits until mpv reports the file as loaded.
func (m *MPV) Open(ctx context.Context, ref media.Reference) error {
	if err := m.start(); err != nil {
		return err
	}

	if err := m.set("pause", true); err != nil {
		return err
	}

	loaded := m.listener.expectLoad()
	if _, err := m.command("loadfile", ref.Target(), "replace"); err != nil {
		m.listener.cancelLoad()
		return err
	}

	select {
	case err := <-loaded:
		return err
	case <-m.exited:
		return errNotRunning
	case <-ctx.Done():
		m.listener.cancelLoad()
		return ctx.Err()
	case <-time.After(loadTimeout):
		m.listener.cancelLoad()
		return fmt.Errorf("load %s: timed out after %s", ref, loadTimeout)
	}
}

func (m *MPV) Unload() error {
	if !m.running() {
		return nil
	}

	_, err := m.command("stop")
	return err
}

// Play applies speed and unpauses.
func (m *MPV) Play(speed float64) error {
	if !m.running() {
		return errNotRunning
	}

	if err := m.set("speed", speed); err != nil {
		return err
	}
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	if !m.running() {
		return nil
	}
	return m.set("pause", true)
}

func (m *MPV) Seek(position time.Duration) error {
	if !m.running() {
		return errNotRunning
	}

	_, err := m.command("seek", position.Seconds(), "absolute")
	return err
}

func (m *MPV) Position() (time.Duration, error) {
	if !m.running() {
		return 0, nil
	}
	return m.seconds("time-pos")
}

func (m *MPV) Duration() (time.Duration, error) {
	if !m.running() {
		return 0, errNotRunning
	}
	return m.seconds("duration")
}

func (m *MPV) Events() <-chan Event {
	return m.events
}

// Close quits mpv, waiting briefly before killing it.
func (m *MPV) Close() error {
	defer close(m.events)

	if !m.running() {
		return nil
	}

	if m.listener != nil {
		m.listener.stop()
		m.listener = nil
	}

	_, _ = m.command("quit")

	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

func (m *MPV) set(property string, value any) error {
	_, err := m.command("set_property", property, value)
	return err
}

// seconds reads a numeric property. Unavailable properties read as zero.
func (m *MPV) seconds(property string) (time.Duration, error) {
	data, err := m.command("get_property", property)
	if err != nil {
		if strings.Contains(err.Error(), "property unavailable") {
			return 0, nil
		}
		return 0, err
	}

	value, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected number, got %T", property, data)
	}

	return time.Duration(value * float64(time.Second)), nil
}
