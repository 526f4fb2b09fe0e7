package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/credentials"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/gorilla/websocket"
)

const DefaultConnectTimeout = 10 * time.Second

type Config struct {
	URL            string
	Token          string
	Device         credentials.DeviceProperties
	Capabilities   int
	ConnectTimeout time.Duration
	Dialer         *websocket.Dialer
	// Header is sent with the websocket upgrade request.
	Header   http.Header
	Logger   *slog.Logger
	Debugger Debugger
	// OnStateChange observes every transition in order. It runs outside the
	// session lock but must not call back into the Session.
	OnStateChange func(from, to State)
}

func (c *Config) fillDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Capabilities == 0 {
		c.Capabilities = DefaultCapabilities
	}
	if c.Device == (credentials.DeviceProperties{}) {
		c.Device = credentials.DefaultIdentity().Device
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Dialer == nil {
		c.Dialer = &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: c.ConnectTimeout,
		}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Debugger == nil {
		c.Debugger = nopDebugger{}
	}
}

// Session owns one gateway connection at a time. Frames are read and handled
// on a single goroutine per connection; everything else reads shared state
// under mu.
type Session struct {
	cfg    Config
	logger *slog.Logger
	bus    bus

	loggingIn atomic.Bool
	lifecycle sync.Mutex
	notifyMu  sync.Mutex
	writeMu   sync.Mutex

	mu            sync.Mutex
	state         State
	generation    uint64
	conn          *websocket.Conn
	info          *domain.SessionInfo
	emojis        []domain.Emoji
	heartbeatStop chan struct{}
	connectTimer  *time.Timer
	pending       chan error
	transitions   []transition
}

func NewSession(cfg Config) *Session {
	cfg.fillDefaults()
	return &Session{cfg: cfg, logger: cfg.Logger}
}

// Login connects, identifies and blocks until READY, a failure, the connect
// timeout, or ctx is done. An existing connection is closed first.
func (s *Session) Login(ctx context.Context) error {
	if !s.loggingIn.CompareAndSwap(false, true) {
		return domain.ErrHandshakeInProgress
	}
	defer s.loggingIn.Store(false)

	s.Logout()

	s.lifecycle.Lock()
	s.mu.Lock()
	s.generation++
	gen := s.generation
	result := make(chan error, 1)
	s.pending = result
	s.setStateLocked(StateConnecting)
	s.connectTimer = time.AfterFunc(s.cfg.ConnectTimeout, func() {
		if s.teardownWhen(gen, domain.ErrConnectTimeout, false, handshaking) {
			s.logger.Warn("gateway handshake timed out", "timeout", s.cfg.ConnectTimeout)
		}
	})
	s.mu.Unlock()
	s.lifecycle.Unlock()
	s.flushTransitions()

	dialCtx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout)
	conn, _, err := s.cfg.Dialer.DialContext(dialCtx, s.cfg.URL, s.cfg.Header)
	cancel()
	if err != nil {
		s.cfg.Debugger.Error(err)
		cause := fmt.Errorf("%w: dial: %w", domain.ErrConnectionClosed, err)
		switch {
		case ctx.Err() != nil:
			cause = ctx.Err()
		case errors.Is(err, context.DeadlineExceeded):
			cause = domain.ErrConnectTimeout
		}
		s.teardown(gen, cause, true)
	} else if !s.attach(gen, conn) {
		_ = conn.Close()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		s.teardown(gen, ctx.Err(), true)
		if err := <-result; err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Session) attach(gen uint64, conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || s.state != StateConnecting {
		return false
	}
	s.conn = conn
	go s.readLoop(gen, conn)
	return true
}

// Logout closes the connection and clears the session. Safe to call any
// number of times, including from event handlers.
func (s *Session) Logout() {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.teardown(gen, domain.ErrConnectionClosed, true)
}

func handshaking(st State) bool {
	return st == StateConnecting || st == StateIdentifying
}

// teardown moves generation gen to Disconnected. Calls for a stale
// generation or an already closed session do nothing.
func (s *Session) teardown(gen uint64, cause error, requested bool) {
	s.teardownWhen(gen, cause, requested, nil)
}

// teardownWhen tears down only if allow accepts the current state, and
// reports whether it did.
func (s *Session) teardownWhen(gen uint64, cause error, requested bool, allow func(State) bool) bool {
	pending, ok := s.closeGeneration(gen, allow)
	if !ok {
		return false
	}

	// Handlers may call Logout or Login, so deliver only after lifecycle is released.
	if pending != nil {
		pending <- cause
	} else if !requested {
		s.logger.Warn("gateway connection closed", "error", cause)
		s.bus.publish(ClosedEvent{Err: cause})
	}
	return true
}

func (s *Session) closeGeneration(gen uint64, allow func(State) bool) (chan error, bool) {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.mu.Lock()
	if gen != s.generation || s.state == StateDisconnected || (allow != nil && !allow(s.state)) {
		s.mu.Unlock()
		return nil, false
	}
	s.setStateLocked(StateClosing)
	if s.connectTimer != nil {
		s.connectTimer.Stop()
		s.connectTimer = nil
	}
	if s.heartbeatStop != nil {
		close(s.heartbeatStop)
		s.heartbeatStop = nil
	}
	s.info = nil
	s.emojis = nil
	conn := s.conn
	s.conn = nil
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	s.flushTransitions()

	if conn != nil {
		s.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.writeMu.Unlock()
		_ = conn.Close()
	}

	s.mu.Lock()
	s.setStateLocked(StateDisconnected)
	s.mu.Unlock()
	s.flushTransitions()

	return pending, true
}

func (s *Session) readLoop(gen uint64, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.cfg.Debugger.Error(err)
			s.teardown(gen, fmt.Errorf("%w: %w", domain.ErrConnectionClosed, err), false)
			return
		}
		s.cfg.Debugger.Incoming(data)

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			if s.State() != StateReady {
				s.teardown(gen, &domain.MalformedResponseError{Context: "decode gateway frame: " + err.Error()}, false)
				return
			}
			s.logger.Warn("skipping undecodable gateway frame", "error", err)
			continue
		}

		if !s.handleFrame(gen, frame) {
			return
		}
	}
}

// handleFrame reports whether the read loop should keep going.
func (s *Session) handleFrame(gen uint64, frame Frame) bool {
	switch frame.Op {
	case OpHello:
		return s.handleHello(gen, frame)
	case OpHeartbeat:
		if err := s.SendOperation(OpHeartbeat, nil); err != nil {
			s.logger.Warn("requested heartbeat failed", "error", err)
		}
	case OpHeartbeatAck:
		s.logger.Debug("heartbeat acknowledged")
	case OpReconnect:
		s.teardown(gen, domain.ErrReconnectRequested, false)
		return false
	case OpInvalidSession:
		s.teardown(gen, domain.ErrInvalidSession, false)
		return false
	case OpDispatch:
		if frame.Type == "READY" && !s.handleReady(gen, frame) {
			return false
		}
	}

	s.bus.publishRaw(frame)
	if frame.Type != "" {
		ev, err := decodeEvent(frame.Type, frame.Data)
		if err != nil {
			s.logger.Warn("gateway event decode failed", "event", frame.Type, "error", err)
		}
		s.bus.publish(ev)
	}
	return true
}

func (s *Session) handleHello(gen uint64, frame Frame) bool {
	var hello helloData
	if err := json.Unmarshal(frame.Data, &hello); err != nil || hello.HeartbeatInterval <= 0 {
		s.teardown(gen, &domain.MalformedResponseError{Context: "gateway hello without heartbeat interval"}, false)
		return false
	}
	interval := time.Duration(hello.HeartbeatInterval) * time.Millisecond

	s.mu.Lock()
	if gen != s.generation || s.state != StateConnecting {
		s.mu.Unlock()
		return true
	}
	stop := make(chan struct{})
	s.heartbeatStop = stop
	s.setStateLocked(StateIdentifying)
	s.mu.Unlock()
	s.flushTransitions()

	go s.heartbeat(interval, stop)

	err := s.SendOperation(OpIdentify, identifyData{
		Token:        s.cfg.Token,
		Capabilities: s.cfg.Capabilities,
		Properties:   s.cfg.Device,
	})
	if err != nil {
		s.teardown(gen, fmt.Errorf("%w: send identify: %w", domain.ErrConnectionClosed, err), false)
		return false
	}
	return true
}

func (s *Session) handleReady(gen uint64, frame Frame) bool {
	var info domain.SessionInfo
	if err := json.Unmarshal(frame.Data, &info); err != nil {
		s.teardown(gen, &domain.MalformedResponseError{Context: "decode READY payload: " + err.Error()}, false)
		return false
	}
	info.Raw = frame.Data

	s.mu.Lock()
	if gen != s.generation || s.state != StateIdentifying {
		s.mu.Unlock()
		return true
	}
	if s.connectTimer != nil {
		s.connectTimer.Stop()
		s.connectTimer = nil
	}
	s.info = &info
	s.emojis = info.Emojis()
	pending := s.pending
	s.pending = nil
	s.setStateLocked(StateReady)
	s.mu.Unlock()
	s.flushTransitions()

	s.logger.Info("gateway session ready", "user", info.User.Tag(), "guilds", len(info.Guilds))
	if pending != nil {
		pending <- nil
	}
	return true
}

func (s *Session) heartbeat(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := s.SendOperation(OpHeartbeat, nil); err != nil && !errors.Is(err, domain.ErrNotConnected) {
				s.logger.Warn("heartbeat send failed", "error", err)
			}
		}
	}
}

// SendOperation writes a single {op, d} frame.
func (s *Session) SendOperation(op int, payload any) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return domain.ErrNotConnected
	}

	data, err := json.Marshal(outboundFrame{Op: op, Data: payload})
	if err != nil {
		return fmt.Errorf("encode op %d: %w", op, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.cfg.Debugger.Outgoing(data)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.cfg.Debugger.Error(err)
		return fmt.Errorf("write op %d: %w", op, err)
	}
	return nil
}

func (s *Session) setStateLocked(to State) {
	if s.state == to {
		return
	}
	s.transitions = append(s.transitions, transition{from: s.state, to: to})
	s.state = to
}

func (s *Session) flushTransitions() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	queued := s.transitions
	s.transitions = nil
	s.mu.Unlock()

	for _, t := range queued {
		s.logger.Debug("gateway state change", "from", t.from, "to", t.to)
		if s.cfg.OnStateChange != nil {
			s.cfg.OnStateChange(t.from, t.to)
		}
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Ready() bool {
	return s.State() == StateReady
}

func (s *Session) SessionInfo() (domain.SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady || s.info == nil {
		return domain.SessionInfo{}, domain.ErrSessionNotReady
	}
	return *s.info, nil
}

// UserTag returns username#discriminator of the logged in account.
func (s *Session) UserTag() (string, error) {
	info, err := s.SessionInfo()
	if err != nil {
		return "", err
	}
	return info.User.Tag(), nil
}

func (s *Session) Guilds() ([]domain.Guild, error) {
	info, err := s.SessionInfo()
	if err != nil {
		return nil, err
	}
	return append([]domain.Guild(nil), info.Guilds...), nil
}

// KnownEmojis returns the custom emojis of every guild in the READY payload.
func (s *Session) KnownEmojis() ([]domain.Emoji, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return nil, domain.ErrSessionNotReady
	}
	return append([]domain.Emoji(nil), s.emojis...), nil
}
