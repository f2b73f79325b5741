package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	a, leaveA := h.Subscribe()
	b, leaveB := h.Subscribe()
	defer leaveB()

	h.Broadcast(PongResponse{Event: EventPong})

	assert.Equal(t, PongResponse{Event: EventPong}, <-a)
	assert.Equal(t, PongResponse{Event: EventPong}, <-b)

	leaveA()
	leaveA()
	assert.Equal(t, 1, h.Len())
}

func TestHubBroadcastDropsWhenFull(t *testing.T) {
	h := NewHub()
	ch, leave := h.Subscribe()
	defer leave()

	for i := 0; i < 20; i++ {
		h.Broadcast(i)
	}

	assert.Len(t, ch, cap(ch))
	assert.Equal(t, 0, <-ch)
}
