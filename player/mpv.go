package player

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/log"
)

const (
	socketWaitRetries = 20
	socketWaitDelay   = 150 * time.Millisecond
	fileWaitDelay     = 100 * time.Millisecond
	fileWaitTimeout   = 30 * time.Second
	quitTimeout       = 3 * time.Second
)

// Resource is one running mpv process.
type Resource struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv exits
	tickerStop chan struct{} // closed by Unload
	onStatus   engine.StatusFunc
	events     *EventListener

	mu         sync.Mutex // protects socket writes
	unloadOnce sync.Once
}

// waitForSocket polls until the IPC socket accepts connections.
func (r *Resource) waitForSocket(ctx context.Context) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", r.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}

	return fmt.Errorf("socket %s not ready after %d attempts", r.socketPath, socketWaitRetries)
}

// waitForFile polls until mpv has opened the stream.
// mpv exits on its own when the stream cannot be opened.
func (r *Resource) waitForFile(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, fileWaitTimeout)
	defer cancel()

	ticker := time.NewTicker(fileWaitDelay)
	defer ticker.Stop()

	for {
		// time-pos is unavailable until the file is loaded
		if _, err := r.floatProperty("time-pos"); err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("stream not opened: %w", ctx.Err())
		case <-r.exited:
			return fmt.Errorf("mpv exited before the stream was opened")
		case <-ticker.C:
		}
	}
}

// abort kills a process that never became usable.
func (r *Resource) abort() {
	_ = killProcess(r.cmd)
	_ = os.Remove(r.socketPath)
}

// alive reports whether the process is running and not yet unloaded.
func (r *Resource) alive() bool {
	select {
	case <-r.exited:
		return false
	case <-r.tickerStop:
		return false
	default:
		return true
	}
}

func (r *Resource) Play(context.Context) error {
	return r.set("pause", false)
}

func (r *Resource) Pause(context.Context) error {
	return r.set("pause", true)
}

// Stop pauses and rewinds; the file stays loaded.
func (r *Resource) Stop(ctx context.Context) error {
	if err := r.Pause(ctx); err != nil {
		return err
	}
	return r.SetPosition(ctx, 0)
}

func (r *Resource) SetPosition(_ context.Context, position time.Duration) error {
	if !r.alive() {
		return nil
	}

	_, err := r.sendCommand([]interface{}{"seek", position.Seconds(), "absolute"})
	return err
}

func (r *Resource) SetVolume(_ context.Context, volume float64) error {
	return r.set("volume", volume*100)
}

func (r *Resource) SetRate(_ context.Context, rate float64, pitchCorrect bool) error {
	if err := r.set("audio-pitch-correction", pitchCorrect); err != nil {
		return err
	}
	return r.set("speed", rate)
}

// Status queries mpv. A dead or unloaded process reports an unloaded status.
func (r *Resource) Status(context.Context) (engine.Status, error) {
	if !r.alive() {
		return engine.Status{}, nil
	}

	paused, err := r.boolProperty("pause")
	if err != nil {
		return engine.Status{}, err
	}

	// both are unavailable until the stream is opened
	pos, _ := r.floatProperty("time-pos")
	dur, _ := r.floatProperty("duration")
	volume, _ := r.floatProperty("volume")
	speed, _ := r.floatProperty("speed")
	buffering, _ := r.boolProperty("paused-for-cache")
	eof, _ := r.boolProperty("eof-reached")

	return engine.Status{
		IsLoaded:      true,
		IsPlaying:     !paused && !eof,
		IsBuffering:   buffering,
		Position:      seconds(pos),
		Duration:      seconds(dur),
		Volume:        volume / 100,
		Rate:          speed,
		DidJustFinish: eof,
	}, nil
}

// Unload quits mpv and removes its socket. Safe to call repeatedly.
func (r *Resource) Unload(context.Context) error {
	r.unloadOnce.Do(func() {
		close(r.tickerStop)
		if r.events != nil {
			r.events.Stop()
		}

		// try a graceful quit first
		_, _ = doSendCommand(r.socketPath, []interface{}{"quit"})

		select {
		case <-r.exited:
		case <-time.After(quitTimeout):
			_ = killProcess(r.cmd)
		}

		_ = os.Remove(r.socketPath)
		log.Infof("mpv on %s unloaded", r.socketPath)
	})

	return nil
}

// startTicker pushes a status every interval until Unload or exit.
func (r *Resource) startTicker(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-r.tickerStop:
				return
			case <-r.exited:
				// report the process death once
				r.onStatus(engine.Status{})
				return
			case <-ticker.C:
				r.push()
			}
		}
	}()
}

func (r *Resource) push() {
	st, err := r.Status(context.Background())
	if err != nil {
		log.Debugf("mpv status: %v", err)
		return
	}

	if st.IsLoaded {
		r.onStatus(st)
	}
}

// onEvent reacts to observed property changes so finish and pause are reported without waiting for the ticker.
func (r *Resource) onEvent(property string, data interface{}) {
	switch property {
	case "eof-reached":
		if done, _ := data.(bool); done {
			r.push()
		}
	case "pause", "paused-for-cache":
		r.push()
	}
}

func (r *Resource) set(property string, value interface{}) error {
	if !r.alive() {
		return nil
	}

	_, err := r.sendCommand([]interface{}{"set_property", property, value})
	return err
}

func (r *Resource) floatProperty(name string) (float64, error) {
	data, err := r.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

func (r *Resource) boolProperty(name string) (bool, error) {
	data, err := r.sendCommand([]interface{}{"get_property", name})
	if err != nil {
		return false, err
	}

	val, ok := data.(bool)
	if !ok {
		return false, fmt.Errorf("property %s: expected bool, got %T", name, data)
	}

	return val, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// sanitizeMediaTarget validates that a source is safe to pass to mpv as a positional argument.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// a leading dash would be parsed as a flag
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}

		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// local recording
	return filepath.Clean(l), nil
}
