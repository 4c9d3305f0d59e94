package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishSubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe(TopicTasksChanged)
	defer b.Unsubscribe(sub)

	b.Publish(TopicTasksChanged, TasksChangedEvent{Origin: "ctx-1"})

	select {
	case event := <-sub.Ch():
		assert.Equal(t, TopicTasksChanged, event.Topic)
		payload, ok := event.Payload.(TasksChangedEvent)
		require.True(t, ok)
		assert.Equal(t, "ctx-1", payload.Origin)
	default:
		t.Fatal("expected a buffered event")
	}
}

func TestBus_PrefixMatching(t *testing.T) {
	tests := []struct {
		name          string
		prefix        string
		topic         string
		shouldReceive bool
	}{
		{name: "exact topic", prefix: "tasks.changed", topic: "tasks.changed", shouldReceive: true},
		{name: "topic group prefix", prefix: "tasks.", topic: "tasks.due", shouldReceive: true},
		{name: "empty prefix matches all", prefix: "", topic: "timer.finished", shouldReceive: true},
		{name: "unrelated topic", prefix: "badge.", topic: "tasks.changed", shouldReceive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			sub := b.Subscribe(tt.prefix)
			defer b.Unsubscribe(sub)

			b.Publish(tt.topic, nil)

			select {
			case <-sub.Ch():
				assert.True(t, tt.shouldReceive, "received an event the prefix should not match")
			default:
				assert.False(t, tt.shouldReceive, "expected an event for this prefix")
			}
		})
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()
	sub := b.Subscribe("")
	require.Equal(t, 1, b.SubscriberCount())

	b.Unsubscribe(sub)
	assert.Equal(t, 0, b.SubscriberCount())

	_, open := <-sub.Ch()
	assert.False(t, open, "unsubscribing closes the channel")

	// Unsubscribing twice must not panic.
	b.Unsubscribe(sub)
	b.Unsubscribe(nil)
}

func TestBus_FullBufferDropsInsteadOfBlocking(t *testing.T) {
	b := New()
	sub := b.Subscribe("")
	defer b.Unsubscribe(sub)

	for i := 0; i < defaultBufferSize+10; i++ {
		b.Publish("flood", i)
	}

	received := 0
	for {
		select {
		case <-sub.Ch():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, defaultBufferSize, received)
}

func TestBus_MultipleSubscribers(t *testing.T) {
	b := New()
	first := b.Subscribe("tasks.")
	second := b.Subscribe("tasks.")
	defer b.Unsubscribe(first)
	defer b.Unsubscribe(second)

	b.Publish(TopicTasksChanged, nil)

	for _, sub := range []*Subscription{first, second} {
		select {
		case <-sub.Ch():
		default:
			t.Fatal("every matching subscriber receives the event")
		}
	}
}
