package server

import (
	"context"
	"net/http"
	"time"

	"github.com/BDubDesigns/git-rich-quick/internal/game"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// streamMessage is every frame the server sends. Type is "view", "result" or
// "error".
type streamMessage struct {
	Type    string `json:"type"`
	Status  int    `json:"status,omitempty"`
	Payload any    `json:"payload"`
}

// stream upgrades to a websocket that pushes a View on connect and after every
// state change. Inbound text frames are action envelopes; each gets a result or
// error frame back.
func (a *api) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.log.Debug("websocket upgrade", zap.Error(err))
		return
	}
	log := a.log.With(zap.String("remote", conn.RemoteAddr().String()))
	log.Info("stream opened")

	snapshots, unsubscribe := a.store.Subscribe(1)
	defer unsubscribe()
	replies := make(chan streamMessage, 8)

	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// closing the conn unblocks the reader once the writer is done
		defer conn.Close()
		return a.writeLoop(ctx, conn, snapshots, replies)
	})
	g.Go(func() error {
		// a clean close returns nil, which would not cancel the group
		defer cancel()
		return a.readLoop(ctx, conn, replies)
	})
	err = g.Wait()
	log.Info("stream closed", zap.Error(err))
}

func (a *api) writeLoop(ctx context.Context, conn *websocket.Conn, snapshots <-chan *game.GameState, replies <-chan streamMessage) error {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	send := func(m streamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(m)
	}

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return nil
		case st, ok := <-snapshots:
			if !ok {
				return nil
			}
			if err := send(streamMessage{Type: "view", Payload: game.Describe(a.store.Tables(), st)}); err != nil {
				return err
			}
		case m := <-replies:
			if err := send(m); err != nil {
				return err
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

func (a *api) readLoop(ctx context.Context, conn *websocket.Conn, replies chan<- streamMessage) error {
	conn.SetReadLimit(maxActionBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		kind, body, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		if kind != websocket.TextMessage {
			continue
		}

		code, resp := a.apply(ctx, body)
		m := streamMessage{Type: "result", Status: code, Payload: resp}
		if code != http.StatusOK {
			m.Type = "error"
		} else if ar, ok := resp.(actionResponse); ok {
			// the view arrives on its own frame through the subscription
			ar.View = nil
			m.Payload = ar
		}
		select {
		case replies <- m:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
