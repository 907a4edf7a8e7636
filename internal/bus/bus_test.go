package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublish_FansOutInOrder(t *testing.T) {
	var b Bus
	var got []string
	b.Subscribe(TopicVisibility, func(...any) { got = append(got, "first") })
	b.Subscribe(TopicVisibility, func(...any) { got = append(got, "second") })
	b.Subscribe("other", func(...any) { got = append(got, "other") })

	b.Publish(TopicVisibility)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestPublish_PassesArgs(t *testing.T) {
	b := New()
	var got []any
	b.Subscribe("t", func(args ...any) { got = args })

	b.Publish("t", "a", 2)
	assert.Equal(t, []any{"a", 2}, got)
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	var n int
	off := b.Subscribe("t", func(...any) { n++ })
	b.Publish("t")
	off()
	off()
	b.Publish("t")
	assert.Equal(t, 1, n)
}

func TestPublish_PanickingSubscriberDoesNotBlockOthers(t *testing.T) {
	b := New()
	var reached bool
	b.Subscribe("t", func(...any) { panic("boom") })
	b.Subscribe("t", func(...any) { reached = true })

	assert.NotPanics(t, func() { b.Publish("t") })
	assert.True(t, reached)
}
