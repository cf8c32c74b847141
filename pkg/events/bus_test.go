package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jscyril/playdeck/api"
)

func TestSubscribeByType(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ended := bus.Subscribe(api.EventEnded)
	bus.Publish(api.MediaEvent{Type: api.EventTimeUpdate, Source: "a"})
	bus.Publish(api.MediaEvent{Type: api.EventEnded, Source: "a"})

	ev := <-ended
	assert.Equal(t, api.EventEnded, ev.Type)
	assert.Len(t, ended, 0)
}

func TestTimeUpdatesDropWhenFull(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	all := bus.SubscribeAll()
	for i := 0; i < 100; i++ {
		bus.Publish(api.MediaEvent{Type: api.EventTimeUpdate})
	}
	assert.Equal(t, cap(all), len(all))
}

func TestUnsubscribeAndClose(t *testing.T) {
	bus := NewEventBus()
	all := bus.SubscribeAll()
	errs := bus.Subscribe(api.EventError)

	bus.Unsubscribe(all)
	bus.Publish(api.MediaEvent{Type: api.EventError})
	assert.Len(t, all, 0)
	assert.Len(t, errs, 1)

	bus.Close()
	bus.Close()
	<-errs
	_, ok := <-errs
	require.False(t, ok)

	// Publishing after close is a no-op.
	bus.Publish(api.MediaEvent{Type: api.EventEnded})
}
