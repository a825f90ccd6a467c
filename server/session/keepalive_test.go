package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeepAliveTickSendsFreshID(t *testing.T) {
	k := &KeepAlive{}
	var sent int64 = -1
	timedOut := k.Tick(time.Now(), func(id int64) { sent = id })
	require.False(t, timedOut)
	require.NotEqual(t, int64(-1), sent)
}

func TestKeepAliveTickTimesOutWhilePreviousUnacknowledged(t *testing.T) {
	k := &KeepAlive{}
	now := time.Now()
	require.False(t, k.Tick(now, func(int64) {}))

	timedOut := k.Tick(now.Add(keepAliveInterval), func(int64) {})
	require.True(t, timedOut)
}

func TestKeepAliveAckRejectsWrongID(t *testing.T) {
	k := &KeepAlive{}
	var id int64
	k.Tick(time.Now(), func(got int64) { id = got })

	require.False(t, k.Ack(id+1, time.Now()))
}

func TestKeepAliveAckUpdatesLatencyEMA(t *testing.T) {
	k := &KeepAlive{}
	var id int64
	sentAt := time.Now()
	k.Tick(sentAt, func(got int64) { id = got })

	require.True(t, k.Ack(id, sentAt.Add(100*time.Millisecond)))
	require.InDelta(t, 25*time.Millisecond, k.Latency(), float64(2*time.Millisecond))

	// A second round trip folds into the existing average: (3*25ms + 50ms)/4.
	var second int64
	sentAt2 := sentAt.Add(time.Second)
	k.Tick(sentAt2, func(got int64) { second = got })
	require.True(t, k.Ack(second, sentAt2.Add(50*time.Millisecond)))
	require.InDelta(t, 31250*time.Microsecond, k.Latency(), float64(2*time.Millisecond))
}

func TestKeepAliveAckWithoutPendingProbeFails(t *testing.T) {
	k := &KeepAlive{}
	require.False(t, k.Ack(1, time.Now()))
}
