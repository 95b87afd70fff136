package player

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gurbani-cli/gurbani/log"
)

// EventCallback receives mpv property changes.
type EventCallback func(property string, data interface{})

// observed are the properties the listener subscribes to, by observer id.
var observed = []string{"eof-reached", "pause", "paused-for-cache"}

// EventListener keeps a persistent connection to mpv and forwards property-change events.
type EventListener struct {
	socketPath string
	callback   EventCallback

	mu        sync.Mutex
	conn      net.Conn
	listening bool
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, callback EventCallback) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		callback:   callback,
	}
}

// Start subscribes to the observed properties and begins the read loop.
// Observers are registered on the listener's own connection, since mpv scopes them to the client.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	enc := bufio.NewWriter(conn)
	for i, name := range observed {
		payload := fmt.Sprintf(`{"command":["observe_property",%d,%q]}`+"\n", i+1, name)
		if _, err := enc.WriteString(payload); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}
	if err := enc.Flush(); err != nil {
		conn.Close()
		return fmt.Errorf("observe: %w", err)
	}

	el.conn = conn
	el.listening = true

	go el.readLoop(conn)

	log.Infof("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection, which ends the read loop.
func (el *EventListener) Stop() {
	el.mu.Lock()
	defer el.mu.Unlock()

	if !el.listening {
		return
	}

	el.listening = false
	_ = el.conn.Close()
}

func (el *EventListener) readLoop(conn net.Conn) {
	defer func() {
		el.mu.Lock()
		el.listening = false
		el.mu.Unlock()
	}()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				log.Debugf("event listener read: %v", err)
			}
			return
		}

		el.processEvent(line)
	}
}

// processEvent dispatches a single property-change line. Replies and other events are ignored.
func (el *EventListener) processEvent(line []byte) {
	resp, err := parseResponse(line)
	if err != nil || resp.Event != "property-change" || resp.Name == "" {
		return
	}

	if el.callback != nil {
		el.callback(resp.Name, resp.Data)
	}
}
