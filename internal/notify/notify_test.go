package notify

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type panicky struct{}

func (panicky) Notify(Event) { panic("toast crashed") }

func TestBuffer_FlushDeliversInOrder(t *testing.T) {
	var buf, sink Buffer
	buf.Notify(Event{Kind: TaskCreated, TaskIDs: []int{1}})
	buf.Notify(Event{Kind: TaskDeleted, TaskIDs: []int{1}})

	buf.Flush(&sink)

	assert.Empty(t, buf.Events())
	if assert.Len(t, sink.Events(), 2) {
		assert.Equal(t, TaskCreated, sink.Events()[0].Kind)
		assert.Equal(t, TaskDeleted, sink.Events()[1].Kind)
	}
}

func TestBuffer_Discard(t *testing.T) {
	var buf Buffer
	buf.Notify(Event{Kind: TaskCreated})
	buf.Discard()
	assert.Empty(t, buf.Events())
}

func TestSafe_SwallowsPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		Safe(panicky{}).Notify(Event{Kind: TaskCreated})
	})
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, Noop{}, OrNoop(nil))
	assert.NotPanics(t, func() { OrNoop(nil).Notify(Event{}) })
}

func TestLogNotifier_WritesRecord(t *testing.T) {
	var out bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&out, nil)))
	n.Notify(Event{Kind: ImportCommitted, TaskIDs: []int{4, 5}, Count: 2})

	assert.Contains(t, out.String(), "kind=import_committed")
	assert.Contains(t, out.String(), "count=2")
}

func TestMulti_DeliversToEveryNotifier(t *testing.T) {
	var a, b Buffer
	n := Multi(&a, nil, panicky{}, &b)
	n.Notify(Event{Kind: TaskAssigned, TaskIDs: []int{7}})

	assert.Len(t, a.Events(), 1)
	assert.Len(t, b.Events(), 1)
	assert.Equal(t, Noop{}, Multi(nil, nil))
}
