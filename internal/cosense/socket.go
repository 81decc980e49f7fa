package cosense

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// engine.io v4 packet types and the socket.io packet types carried inside
// engine.io message packets.
const (
	eioOpen    = "0"
	eioClose   = "1"
	eioPing    = "2"
	eioPong    = "3"
	eioMessage = "4"

	sioConnect      = "0"
	sioDisconnect   = "1"
	sioEvent        = "2"
	sioAck          = "3"
	sioConnectError = "4"
)

// ErrSocketClosed is returned for requests issued on, or pending on, a closed socket.
var ErrSocketClosed = errors.New("cosense: socket closed")

type ackResult struct {
	data json.RawMessage
	err  error
}

// Socket is a minimal socket.io client speaking to the Cosense real-time API over a
// single websocket. Requests are acknowledged emits of the "socket.io-request" event.
type Socket struct {
	conn *websocket.Conn

	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int
	pending map[int]chan ackResult
	closed  bool

	done chan struct{}
}

// SocketURL returns the socket.io websocket endpoint of host.
func SocketURL(host string) string {
	if host == "" {
		host = DefaultHost
	}
	return "wss://" + host + "/socket.io/?EIO=4&transport=websocket"
}

// DialSocket connects to wsURL and completes the engine.io and socket.io handshakes.
func DialSocket(ctx context.Context, wsURL string, opts Options) (*Socket, error) {
	header := http.Header{}
	if cookie := opts.cookie(); cookie != "" {
		header.Set("Cookie", cookie)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return nil, PushError("Unauthorized: 401")
		}
		return nil, fmt.Errorf("cosense: dial socket: %w", err)
	}

	s := &Socket{
		conn:    conn,
		pending: make(map[int]chan ackResult),
		done:    make(chan struct{}),
	}
	if err := s.handshake(); err != nil {
		conn.Close()
		return nil, err
	}

	go s.readLoop()
	return s, nil
}

func (s *Socket) handshake() error {
	_, msg, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("cosense: read open packet: %w", err)
	}
	if !strings.HasPrefix(string(msg), eioOpen) {
		return fmt.Errorf("cosense: unexpected open packet %q", msg)
	}
	if err := s.write(eioMessage + sioConnect); err != nil {
		return err
	}

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("cosense: read connect packet: %w", err)
		}
		packet := string(msg)
		switch {
		case packet == eioPing:
			if err := s.write(eioPong); err != nil {
				return err
			}
		case strings.HasPrefix(packet, eioMessage+sioConnect):
			return nil
		case strings.HasPrefix(packet, eioMessage+sioConnectError):
			return PushError(strings.TrimPrefix(packet, eioMessage+sioConnectError))
		default:
			return fmt.Errorf("cosense: unexpected connect packet %q", packet)
		}
	}
}

// Request emits a socket.io-request with the given method and waits for its
// acknowledgement. Remote failures are returned as PushError.
func (s *Socket) Request(ctx context.Context, method string, data any) (json.RawMessage, error) {
	payload, err := json.Marshal([]any{"socket.io-request", map[string]any{
		"method": method,
		"data":   data,
	}})
	if err != nil {
		return nil, fmt.Errorf("cosense: encode %s request: %w", method, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSocketClosed
	}
	id := s.nextID
	s.nextID++
	ch := make(chan ackResult, 1)
	s.pending[id] = ch
	s.mu.Unlock()

	if err := s.write(eioMessage + sioEvent + strconv.Itoa(id) + string(payload)); err != nil {
		s.forget(id)
		return nil, err
	}

	select {
	case res := <-ch:
		return res.data, res.err
	case <-ctx.Done():
		s.forget(id)
		return nil, ctx.Err()
	case <-s.done:
		return nil, ErrSocketClosed
	}
}

// Close disconnects from the server.
func (s *Socket) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.write(eioMessage + sioDisconnect)
	return s.conn.Close()
}

func (s *Socket) write(packet string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, []byte(packet)); err != nil {
		return fmt.Errorf("cosense: write packet: %w", err)
	}
	return nil
}

func (s *Socket) forget(id int) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *Socket) readLoop() {
	defer func() {
		s.mu.Lock()
		s.closed = true
		s.pending = map[int]chan ackResult{}
		s.mu.Unlock()
		_ = s.conn.Close()
		close(s.done)
	}()

	for {
		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		packet := string(msg)
		switch {
		case packet == eioPing:
			if err := s.write(eioPong); err != nil {
				return
			}
		case packet == eioClose, strings.HasPrefix(packet, eioMessage+sioDisconnect):
			return
		case strings.HasPrefix(packet, eioMessage+sioAck):
			s.dispatchAck(strings.TrimPrefix(packet, eioMessage+sioAck))
		default:
			// Broadcast events (commits by other users, cursors) are not consumed.
		}
	}
}

func (s *Socket) dispatchAck(body string) {
	idx := strings.IndexByte(body, '[')
	if idx <= 0 {
		slog.Debug("cosense: malformed ack", slog.String("packet", body))
		return
	}
	id, err := strconv.Atoi(body[:idx])
	if err != nil {
		slog.Debug("cosense: malformed ack id", slog.String("packet", body))
		return
	}

	s.mu.Lock()
	ch, ok := s.pending[id]
	delete(s.pending, id)
	s.mu.Unlock()
	if !ok {
		return
	}
	ch <- decodeAck(body[idx:])
}

func decodeAck(raw string) ackResult {
	var args []struct {
		Data  json.RawMessage `json:"data"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil || len(args) == 0 {
		return ackResult{err: PushError("malformed acknowledgement: " + raw)}
	}
	if len(args[0].Error) > 0 && string(args[0].Error) != "null" {
		return ackResult{err: pushErrorFromJSON(args[0].Error)}
	}
	return ackResult{data: args[0].Data}
}

func pushErrorFromJSON(raw json.RawMessage) PushError {
	var named struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &named); err == nil && named.Name != "" {
		if named.Message == "" {
			return PushError(named.Name)
		}
		return PushError(named.Name + ": " + named.Message)
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return PushError(text)
	}
	return PushError(string(raw))
}
