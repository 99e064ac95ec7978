package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversToSubscribedTopics(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicPointsAwarded)

	businessID := uuid.New()
	bus.Publish(Event{Topic: TopicPointsAwarded, BusinessID: businessID, Points: 50})
	bus.Publish(Event{Topic: TopicPromotionCreated, BusinessID: businessID})

	select {
	case ev := <-ch:
		assert.Equal(t, TopicPointsAwarded, ev.Topic)
		assert.Equal(t, businessID, ev.BusinessID)
		assert.Equal(t, 50, ev.Points)
		assert.False(t, ev.OccurredAt.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}

	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected event for unsubscribed topic: %v", ev.Topic)
		}
	default:
	}
}

func TestBus_SaturatedSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe(TopicEnrollmentDecided)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			bus.Publish(Event{Topic: TopicEnrollmentDecided})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a saturated subscriber")
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.LessOrEqual(t, received, 64)
	assert.Greater(t, received, 0)
}

func TestBus_CloseEndsSubscribers(t *testing.T) {
	bus := NewBus()
	ch := bus.Subscribe(TopicPointsDeducted)

	bus.Close()
	bus.Publish(Event{Topic: TopicPointsDeducted})

	_, ok := <-ch
	assert.False(t, ok)
}
