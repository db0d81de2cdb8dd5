package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(Event{Type: EventReleaseSubmitted, ReleaseID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked with no subscribers")
	}
	assert.Equal(t, 0, hub.ClientCount())
}

func TestStopIsIdempotentForPublish(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Stop()

	// Publishing after shutdown must not panic or block.
	done := make(chan struct{})
	go func() {
		hub.Publish(Event{Type: EventReleaseModerated, ReleaseID: 1})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked after Stop")
	}
}
