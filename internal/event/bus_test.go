package event

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DispatchInSubscriptionOrder(t *testing.T) {
	b := NewBus()
	var got []string

	b.Subscribe(func(e Event) { got = append(got, "a:"+e.Subject) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.Subject) })

	b.Publish(Event{Kind: CardEquipped, Subject: "Ember"})

	assert.Equal(t, []string{"a:Ember", "b:Ember"}, got)
}

func TestBus_UnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus()
	n := 0
	unsub := b.Subscribe(func(Event) { n++ })

	b.Publish(Event{Kind: CooldownStarted})
	unsub()
	unsub()
	b.Publish(Event{Kind: CooldownStarted})

	assert.Equal(t, 1, n)
}

func TestBus_StampsTime(t *testing.T) {
	b := NewBus()
	var at Event
	b.Subscribe(func(e Event) { at = e })

	b.Publish(Event{Kind: CardSold})

	assert.False(t, at.At.IsZero())
}

func TestBus_NilIsNoop(t *testing.T) {
	var b *Bus
	assert.NotPanics(t, func() { b.Publish(Event{Kind: CardSold}) })
}

func TestDiagnosticListener(t *testing.T) {
	var buf bytes.Buffer
	l := DiagnosticListener(log.New(&buf, "", 0))

	l(Event{Kind: CardSold, Subject: "Ember", Amount: 15})

	assert.Contains(t, buf.String(), `event card.sold subject="Ember" amount=15`)
}
