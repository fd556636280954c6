package Controllers_test

import (
	"encoding/json"
	"sync"
)

// recordingConn stands in for a websocket connection registered on the hub.
type recordingConn struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (r *recordingConn) WriteMessage(_ int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, data)
	return nil
}

func (r *recordingConn) Close() error { return nil }

func (r *recordingConn) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		var msg struct {
			Event string `json:"event"`
		}
		if json.Unmarshal(m, &msg) == nil {
			out = append(out, msg.Event)
		}
	}
	return out
}
