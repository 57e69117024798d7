package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/school-records/internal/domain/shared"
)

func newSyncBus() *InMemoryEventBus {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.EnableMetrics = true
	return NewInMemoryEventBus(cfg)
}

func TestInMemoryEventBus_SyncDelivery(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	var delivered []string
	err := bus.Subscribe(shared.EventGradeRecorded, func(e shared.Event) error {
		delivered = append(delivered, "typed:"+e.AggregateID())
		return nil
	})
	require.NoError(t, err)
	err = bus.SubscribeAll(func(e shared.Event) error {
		delivered = append(delivered, "all:"+e.AggregateID())
		return nil
	})
	require.NoError(t, err)

	event := shared.NewRecordChangedEvent(
		shared.EventGradeRecorded, "grade", "grade-1",
		shared.ChangeScope{GradeID: "grade-1"},
		"grade.grade",
	)
	require.NoError(t, bus.Publish(event))

	// Синхронный режим: оба обработчика выполнились до возврата Publish,
	// типизированные раньше глобальных.
	assert.Equal(t, []string{"typed:grade-1", "all:grade-1"}, delivered)
}

func TestInMemoryEventBus_UnrelatedTypeSkipsTypedHandler(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	calls := 0
	require.NoError(t, bus.Subscribe(shared.EventGradeRecorded, func(shared.Event) error {
		calls++
		return nil
	}))

	event := shared.NewRecordChangedEvent(
		shared.EventAttendanceMarked, "attendance", "att-1",
		shared.ChangeScope{AttendanceID: "att-1"},
	)
	require.NoError(t, bus.Publish(event))
	assert.Zero(t, calls)
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := newSyncBus()
	require.NoError(t, bus.Close())

	event := shared.NewRecordChangedEvent(
		shared.EventGradeRecorded, "grade", "grade-1",
		shared.ChangeScope{},
	)
	assert.ErrorIs(t, bus.Publish(event), ErrEventBusClosed)
	assert.ErrorIs(t, bus.Subscribe(shared.EventGradeRecorded, func(shared.Event) error { return nil }), ErrEventBusClosed)
}

func TestInMemoryEventBus_Metrics(t *testing.T) {
	bus := newSyncBus()
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return nil }))

	event := shared.NewRecordChangedEvent(
		shared.EventGradeRecorded, "grade", "grade-1",
		shared.ChangeScope{},
	)
	require.NoError(t, bus.Publish(event))
	require.NoError(t, bus.Publish(event))

	snapshot := bus.Metrics().Snapshot()
	assert.EqualValues(t, 2, snapshot.TotalPublished)
	assert.EqualValues(t, 2, snapshot.TotalHandlerExecs)
	assert.InDelta(t, 1.0, snapshot.HandlerSuccessRate, 1e-9)
}
