package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"windpermit/internal/models"
)

func TestPermitHub_PublishSubscribe(t *testing.T) {
	hub := NewPermitHub()

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	ev := models.PermitEvent{Type: models.PermitEventAdded, Permit: models.Permit{Number: "2024-CBE-X1-101"}}
	hub.Publish(ev)

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, ev, got1)
	assert.Equal(t, ev, got2)
}

func TestPermitHub_CancelClosesChannel(t *testing.T) {
	hub := NewPermitHub()

	ch, cancel := hub.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// повторная отписка безопасна
	cancel()

	// публикация после отписки не паникует
	hub.Publish(models.PermitEvent{Type: models.PermitEventRemoved})
}

func TestPermitHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewPermitHub()

	ch, cancel := hub.Subscribe()
	defer cancel()

	// переполняем буфер: лишние события отбрасываются, Publish не виснет
	for i := 0; i < 100; i++ {
		hub.Publish(models.PermitEvent{Type: models.PermitEventAdded, Permit: models.Permit{Number: "n"}})
	}

	require.Len(t, ch, 16)
}
