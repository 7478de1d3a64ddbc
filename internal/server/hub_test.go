package server

import (
	"encoding/json"
	"testing"

	"secrethitler/internal/protocol"
)

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 8)}
}

func received(t *testing.T, c *Client) []string {
	t.Helper()
	var types []string
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return types
			}
			var env protocol.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				t.Fatal(err)
			}
			types = append(types, env.Type)
		default:
			return types
		}
	}
}

func TestHubNotify(t *testing.T) {
	h := NewHub()
	c := newTestClient()
	h.Register(c)

	h.Notify("s", "p", protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{Message: "x"}))
	if got := received(t, c); len(got) != 0 {
		t.Fatalf("unseated client received %v", got)
	}

	h.Attach(c, Seat{SessionID: "s", PlayerID: "p"})
	h.Notify("s", "p", protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{Message: "x"}))
	h.Notify("s", "other", protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{Message: "y"}))
	if got := received(t, c); len(got) != 1 || got[0] != protocol.MsgAlert {
		t.Fatalf("expected one alert, got %v", got)
	}
}

func TestHubNotifyNeverBlocks(t *testing.T) {
	h := NewHub()
	c := &Client{send: make(chan []byte, 1)}
	h.Register(c)
	h.Attach(c, Seat{SessionID: "s", PlayerID: "p"})

	for i := 0; i < 10; i++ {
		h.Notify("s", "p", protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{Message: "x"}))
	}
	if len(c.send) != 1 {
		t.Fatalf("expected the queue to hold 1 message, got %d", len(c.send))
	}
}

func TestHubStaleSocketKeepsNewerSeat(t *testing.T) {
	h := NewHub()
	seat := Seat{SessionID: "s", PlayerID: "p"}
	oldConn, newConn := newTestClient(), newTestClient()
	h.Register(oldConn)
	h.Register(newConn)

	h.Attach(oldConn, seat)
	if displaced := h.Attach(newConn, seat); displaced != oldConn {
		t.Fatalf("expected old connection displaced, got %v", displaced)
	}
	if _, ok := h.SeatOf(oldConn); ok {
		t.Fatal("displaced connection still seated")
	}

	if _, ok := h.Unregister(oldConn); ok {
		t.Fatal("stale socket reported owning the seat")
	}
	if got, ok := h.SeatOf(newConn); !ok || got != seat {
		t.Fatalf("newer connection lost its seat: %v %v", got, ok)
	}
	if _, open := <-oldConn.send; open {
		t.Fatal("expected old send queue closed")
	}

	got, ok := h.Unregister(newConn)
	if !ok || got != seat {
		t.Fatalf("expected seat %v on unregister, got %v %v", seat, got, ok)
	}
	if open, seated := h.Stats(); open != 0 || seated != 0 {
		t.Fatalf("expected empty hub, got %d open %d seated", open, seated)
	}
}

func TestHubDetach(t *testing.T) {
	h := NewHub()
	c := newTestClient()
	h.Register(c)
	h.Attach(c, Seat{SessionID: "s", PlayerID: "p"})
	h.Detach(c)

	if _, ok := h.SeatOf(c); ok {
		t.Fatal("detached client still seated")
	}
	h.Send(c, protocol.MustEnvelope(protocol.MsgAlert, protocol.Alert{Message: "still open"}))
	if got := received(t, c); len(got) != 1 {
		t.Fatalf("detached client should still receive direct sends, got %v", got)
	}
}
