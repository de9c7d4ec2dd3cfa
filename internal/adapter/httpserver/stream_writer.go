package httpserver

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const (
	writeDeadline     = 5 * time.Second
	pingInterval      = 30 * time.Second
	pongDeadline      = 60 * time.Second
	messageBufferSize = 4
)

// streamWriter owns all writes to one websocket. Snapshots are queued on a small
// buffer; when the peer falls behind, new snapshots are dropped since the next
// one supersedes them anyway.
type streamWriter struct {
	connection  *websocket.Conn
	clock       clockwork.Clock
	sendChannel chan []byte
	doneChannel chan struct{}
	doneOnce    sync.Once
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

func newStreamWriter(connection *websocket.Conn, clock clockwork.Clock) *streamWriter {
	sw := &streamWriter{
		connection:  connection,
		clock:       clock,
		sendChannel: make(chan []byte, messageBufferSize),
		doneChannel: make(chan struct{}),
	}
	sw.configurePongHandler()
	sw.wg.Add(1)
	go sw.run()
	return sw
}

// send queues msg; it reports false if the buffer is full or the writer stopped.
func (sw *streamWriter) send(msg []byte) bool {
	select {
	case <-sw.doneChannel:
		return false
	default:
	}
	select {
	case sw.sendChannel <- msg:
		return true
	default:
		return false
	}
}

// done is closed once the writer stops, including after a failed write.
func (sw *streamWriter) done() <-chan struct{} {
	return sw.doneChannel
}

func (sw *streamWriter) run() {
	ticker := sw.clock.NewTicker(pingInterval)
	defer ticker.Stop()
	defer sw.wg.Done()

	for {
		select {
		case msg := <-sw.sendChannel:
			sw.updateWriteDeadline()
			if err := sw.connection.WriteMessage(websocket.TextMessage, msg); err != nil {
				sw.closeDone()
				return
			}
		case <-ticker.Chan():
			sw.updateWriteDeadline()
			if err := sw.connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				sw.closeDone()
				return
			}
		case <-sw.doneChannel:
			return
		}
	}
}

// stopGraceful sends a close frame with reason and closes the connection.
func (sw *streamWriter) stopGraceful(reason string) {
	sw.closeDone()
	sw.wg.Wait()

	sw.closeOnce.Do(func() {
		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
		sw.updateWriteDeadline()
		_ = sw.connection.WriteMessage(websocket.CloseMessage, closeMsg)
		_ = sw.connection.Close()
	})
}

func (sw *streamWriter) stop() {
	sw.closeDone()
	sw.wg.Wait()
	sw.closeOnce.Do(func() { _ = sw.connection.Close() })
}

func (sw *streamWriter) closeDone() {
	sw.doneOnce.Do(func() { close(sw.doneChannel) })
}

func (sw *streamWriter) configurePongHandler() {
	sw.updateReadDeadline()
	sw.connection.SetPongHandler(func(string) error {
		sw.updateReadDeadline()
		return nil
	})
}

func (sw *streamWriter) updateWriteDeadline() {
	_ = sw.connection.SetWriteDeadline(sw.clock.Now().Add(writeDeadline))
}

func (sw *streamWriter) updateReadDeadline() {
	_ = sw.connection.SetReadDeadline(sw.clock.Now().Add(pongDeadline))
}
