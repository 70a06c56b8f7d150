package queue

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/pos/internal/domain"
	"github.com/vladislavdragonenkov/pos/internal/metrics"
)

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger.WithField("component", "order-queue")
}

func TestOrderQueue_FIFO(t *testing.T) {
	q := New(quietLogger(), metrics.NewOrderMetrics(prometheus.NewRegistry()))
	require.True(t, q.IsEmpty())

	q.Enqueue(101)
	q.Enqueue(102)
	assert.Equal(t, 2, q.Size())
	assert.False(t, q.IsEmpty())

	id, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 101, id)

	id, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 102, id)

	_, err = q.Dequeue()
	assert.ErrorIs(t, err, domain.ErrEmptyQueue)
	assert.True(t, q.IsEmpty())
	assert.Zero(t, q.Size())
}

func TestOrderQueue_NilDependencies(t *testing.T) {
	q := New(nil, nil)
	q.Enqueue(1001)

	id, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1001, id)
}

func TestOrderQueue_InterleavedUse(t *testing.T) {
	q := New(quietLogger(), nil)

	q.Enqueue(1)
	q.Enqueue(2)
	first, err := q.Dequeue()
	require.NoError(t, err)
	q.Enqueue(3)

	second, err := q.Dequeue()
	require.NoError(t, err)
	third, err := q.Dequeue()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{first, second, third})
}
