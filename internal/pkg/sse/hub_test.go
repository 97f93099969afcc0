package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEveryStreamOfRecipient(t *testing.T) {
	hub := NewHub()

	a1, cleanupA1 := hub.Subscribe("emp-a")
	defer cleanupA1()
	a2, cleanupA2 := hub.Subscribe("emp-a")
	defer cleanupA2()
	b, cleanupB := hub.Subscribe("emp-b")
	defer cleanupB()

	assert.Equal(t, 2, hub.SubscriberCount("emp-a"))
	assert.Equal(t, 3, hub.TotalSubscribers())

	hub.Publish("emp-a", Event{Event: "notification", Data: "hello"})

	for _, ch := range []<-chan Event{a1, a2} {
		ev := <-ch
		assert.Equal(t, "emp-a", ev.RecipientID)
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "hello", ev.Data)
	}
	assert.Len(t, b, 0)
}

func TestHub_PublishToMany(t *testing.T) {
	hub := NewHub()
	a, cleanupA := hub.Subscribe("emp-a")
	defer cleanupA()
	b, cleanupB := hub.Subscribe("emp-b")
	defer cleanupB()

	hub.PublishToMany([]string{"emp-a", "emp-b", "emp-offline"}, Event{Event: "broadcast"})

	assert.Equal(t, "emp-a", (<-a).RecipientID)
	assert.Equal(t, "emp-b", (<-b).RecipientID)
}

func TestHub_CleanupIsIdempotent(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-a")

	cleanup()
	cleanup()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, hub.SubscriberCount("emp-a"))

	hub.Publish("emp-a", Event{Event: "notification"})
}

func TestHub_FullBufferDropsEvents(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-a")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("emp-a", Event{Event: "notification", Data: i})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("emp-a")

	hub.Close()
	_, ok := <-ch
	assert.False(t, ok)
	cleanup()

	late, _ := hub.Subscribe("emp-b")
	_, ok = <-late
	require.False(t, ok)
	assert.Equal(t, 0, hub.TotalSubscribers())
}
