// Package player implements the audio platform on top of mpv's JSON-IPC interface.
// Every resource is a headless mpv process with its own IPC socket.
package player

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gurbani-cli/gurbani/engine"
	"github.com/gurbani-cli/gurbani/key"
	"github.com/gurbani-cli/gurbani/log"
	"github.com/gurbani-cli/gurbani/where"
	"github.com/spf13/viper"
)

// MPV creates mpv-backed audio resources.
type MPV struct {
	// Path is the mpv executable.
	Path string
	// Interval is the status polling period.
	Interval time.Duration
}

// New returns an mpv platform configured from the player.* settings.
func New() *MPV {
	path := viper.GetString(key.PlayerMPVPath)
	if path == "" {
		path = "mpv"
	}

	interval := time.Duration(viper.GetInt(key.PlayerStatusInterval)) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}

	return &MPV{Path: path, Interval: interval}
}

// Create launches a paused mpv process for url and waits until the stream is open.
func (m *MPV) Create(ctx context.Context, url string, opts engine.Options, onStatus engine.StatusFunc) (engine.Resource, error) {
	target, err := sanitizeMediaTarget(url)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	socket := filepath.Join(where.Temp(), fmt.Sprintf("gurbani-%s.sock", uuid.NewString()))

	cmd := exec.Command(m.Path, buildArgs(socket, target, opts)...)

	// Detach from the terminal's process group so ^C reaches us, not mpv.
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mpv: %w", err)
	}

	r := &Resource{
		socketPath: socket,
		cmd:        cmd,
		exited:     make(chan struct{}),
		tickerStop: make(chan struct{}),
		onStatus:   onStatus,
	}

	// reap the process
	go func() {
		_ = cmd.Wait()
		close(r.exited)
	}()

	if err := r.waitForSocket(ctx); err != nil {
		log.Warnf("killing mpv: %v", err)
		r.abort()
		return nil, fmt.Errorf("mpv socket not ready: %w", err)
	}

	if err := r.waitForFile(ctx); err != nil {
		log.Warnf("killing mpv: %v", err)
		r.abort()
		return nil, fmt.Errorf("open %s: %w", target, err)
	}

	r.events = NewEventListener(socket, r.onEvent)
	if err := r.events.Start(); err != nil {
		// the ticker still reports completion through eof-reached
		log.Warnf("mpv events unavailable: %v", err)
	}

	r.startTicker(m.Interval)

	log.Infof("mpv started on %s for %s", socket, target)
	return r, nil
}

// buildArgs returns the mpv command line for an audio-only resource.
func buildArgs(socket, target string, opts engine.Options) []string {
	args := []string{
		"--no-video",
		"--no-terminal",
		"--really-quiet",
		"--keep-open=yes",
		"--pause",
		fmt.Sprintf("--input-ipc-server=%s", socket),
		fmt.Sprintf("--volume=%d", int(opts.Volume*100)),
		fmt.Sprintf("--speed=%s", formatRate(opts.Rate)),
		fmt.Sprintf("--audio-pitch-correction=%s", yesNo(opts.PitchCorrection)),
	}

	if opts.Looping {
		args = append(args, "--loop-file=inf")
	} else {
		args = append(args, "--loop-file=no")
	}

	return append(args, target)
}

func formatRate(rate float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", rate), "0"), ".")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Version returns the first line of `mpv --version`.
func Version(path string) (string, error) {
	bin, err := exec.LookPath(path)
	if err != nil {
		return "", err
	}

	out, err := exec.Command(bin, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s: %w", bin, err)
	}

	first, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	return first, nil
}
