package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is either a reply (with request_id) or an asynchronous event.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Reason    string `json:"reason"`
	FileError string `json:"file_error"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = time.Second
)

var requestID atomic.Int64

// command sends a JSON-IPC command over a short-lived connection.
// Transient connection failures are retried.
func (m *MPV) command(args ...any) (any, error) {
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		data, retry, err := roundTrip(m.socketPath, args)
		if err == nil {
			return data, nil
		}
		if !retry {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc %v failed after %d attempts: %w", args[0], maxRetries, lastErr)
}

// roundTrip reports whether a failure happened on the connection and may be retried.
func roundTrip(socketPath string, args []any) (any, bool, error) {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return nil, true, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestID.Add(1)
	payload, err := json.Marshal(ipcRequest{Command: args, RequestID: id})
	if err != nil {
		return nil, false, fmt.Errorf("marshal: %w", err)
	}

	if _, err = conn.Write(append(payload, '\n')); err != nil {
		return nil, true, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, true, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		// events share the socket with replies
		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			return nil, false, fmt.Errorf("mpv error: %s", msg.Error)
		}
		return msg.Data, false, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, true, fmt.Errorf("read: %w", err)
	}
	return nil, true, fmt.Errorf("read: connection closed")
}
