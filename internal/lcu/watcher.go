// Package lcu watches the local League client. It reads the client's
// lockfile for credentials, polls the gameflow phase, and fans out phase
// transitions to subscribers. Subscribers never see the desktop runtime;
// they get a plain subscribe/unsubscribe interface.
package lcu

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"nexus-companion/internal/config"
	"nexus-companion/internal/constants"
)

type EventType string

const (
	EventClientUp    EventType = "CLIENT_UP"
	EventClientDown  EventType = "CLIENT_DOWN"
	EventChampSelect EventType = "CHAMP_SELECT"
	EventGameStart   EventType = "GAME_START"
	EventGameEnd     EventType = "GAME_END"
)

type Event struct {
	Type  EventType
	Phase string
	At    time.Time
}

type Handler func(Event)

// Credentials are the port and password parsed from the client lockfile.
type Credentials struct {
	Port     string
	Password string
}

// ParseLockfile parses the League client lockfile payload, which has the
// form name:pid:port:password:protocol.
func ParseLockfile(payload string) (*Credentials, error) {
	parts := strings.Split(strings.TrimSpace(payload), ":")
	if len(parts) < 5 {
		return nil, fmt.Errorf("malformed lockfile: expected 5 fields, got %d", len(parts))
	}
	if parts[2] == "" || parts[3] == "" {
		return nil, fmt.Errorf("malformed lockfile: empty port or password")
	}
	return &Credentials{Port: parts[2], Password: parts[3]}, nil
}

type subscription struct {
	id      uint64
	types   map[EventType]struct{}
	handler Handler
}

type Watcher struct {
	lockfilePath string
	http         *fasthttp.Client
	logger       zerolog.Logger

	mu        sync.Mutex
	subs      []subscription
	nextSubID uint64
	creds     *Credentials
	connected bool
	lastPhase string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewWatcher(cfg *config.Config, logger zerolog.Logger) *Watcher {
	return &Watcher{
		lockfilePath: lockfilePath(cfg.LockfileDir),
		http: &fasthttp.Client{
			// The client presents a self-signed certificate on loopback.
			TLSConfig:   &tls.Config{InsecureSkipVerify: true},
			ReadTimeout: constants.LCURequestTimeout,
		},
		logger: logger.With().Str("component", "lcu").Logger(),
	}
}

func lockfilePath(override string) string {
	if override != "" {
		return filepath.Join(override, "lockfile")
	}
	switch runtime.GOOS {
	case "windows":
		return `C:\Riot Games\League of Legends\lockfile`
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Applications/League of Legends.app/Contents/LoL/lockfile")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local/share/leagueoflegends/lockfile")
	}
}

// Subscribe registers a handler for the given event types (all types when
// none given). The returned id is used to unsubscribe.
func (w *Watcher) Subscribe(handler Handler, types ...EventType) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.nextSubID++
	sub := subscription{id: w.nextSubID, handler: handler}
	if len(types) > 0 {
		sub.types = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}
	w.subs = append(w.subs, sub)
	return sub.id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (w *Watcher) Unsubscribe(id uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, sub := range w.subs {
		if sub.id == id {
			w.subs = append(w.subs[:i], w.subs[i+1:]...)
			return
		}
	}
}

// Connected reports whether the local client is currently reachable.
func (w *Watcher) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Phase returns the last observed gameflow phase.
func (w *Watcher) Phase() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastPhase
}

// Start launches the polling loop.
func (w *Watcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(constants.LCUPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.poll()
			}
		}
	}()
}

// Stop halts polling and waits for the loop to exit.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *Watcher) poll() {
	creds, err := w.loadCredentials()
	if err != nil {
		w.setDisconnected()
		return
	}

	phase, err := w.gameflowPhase(creds)
	if err != nil {
		w.logger.Debug().Err(err).Msg("gameflow poll failed")
		w.setDisconnected()
		return
	}

	w.observe(phase)
}

func (w *Watcher) loadCredentials() (*Credentials, error) {
	payload, err := os.ReadFile(w.lockfilePath)
	if err != nil {
		return nil, err
	}
	return ParseLockfile(string(payload))
}

// gameflowPhase asks the client for the current phase. A 404 means the
// endpoint is not ready yet and maps to the None phase.
func (w *Watcher) gameflowPhase(creds *Credentials) (string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fmt.Sprintf("https://127.0.0.1:%s/lol-gameflow/v1/gameflow-phase", creds.Port))
	req.Header.SetMethod(fasthttp.MethodGet)
	auth := base64.StdEncoding.EncodeToString([]byte("riot:" + creds.Password))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	if err := w.http.DoDeadline(req, resp, time.Now().Add(constants.LCURequestTimeout)); err != nil {
		return "", err
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
		return strings.Trim(string(resp.Body()), `"`), nil
	case fasthttp.StatusNotFound:
		return "None", nil
	default:
		return "", fmt.Errorf("lcu returned %d", resp.StatusCode())
	}
}

func (w *Watcher) setDisconnected() {
	w.mu.Lock()
	wasConnected := w.connected
	w.connected = false
	w.lastPhase = ""
	subs := append([]subscription(nil), w.subs...)
	w.mu.Unlock()

	if wasConnected {
		w.logger.Info().Msg("league client disconnected")
		dispatch(subs, Event{Type: EventClientDown, At: time.Now()})
	}
}

func (w *Watcher) observe(phase string) {
	w.mu.Lock()
	wasConnected := w.connected
	prevPhase := w.lastPhase
	w.connected = true
	w.lastPhase = phase
	subs := append([]subscription(nil), w.subs...)
	w.mu.Unlock()

	now := time.Now()
	if !wasConnected {
		w.logger.Info().Str("phase", phase).Msg("league client detected")
		dispatch(subs, Event{Type: EventClientUp, Phase: phase, At: now})
	}
	if phase == prevPhase {
		return
	}

	switch {
	case phase == "ChampSelect":
		dispatch(subs, Event{Type: EventChampSelect, Phase: phase, At: now})
	case phase == "InProgress":
		dispatch(subs, Event{Type: EventGameStart, Phase: phase, At: now})
	case prevPhase == "InProgress":
		dispatch(subs, Event{Type: EventGameEnd, Phase: phase, At: now})
	}
}

func dispatch(subs []subscription, ev Event) {
	for _, sub := range subs {
		if sub.types != nil {
			if _, ok := sub.types[ev.Type]; !ok {
				continue
			}
		}
		sub.handler(ev)
	}
}
