package feedlistener

import (
	"testing"

	"itchfeed/constants"
	"itchfeed/types"
)

func TestNewSizesRingFromConstants(t *testing.T) {
	l := New("239.1.1.1", 26400)
	want := 1 << constants.FeedRingBits
	if len(l.slots) != want {
		t.Fatalf("len(slots) = %d, want %d", len(l.slots), want)
	}
	if cap(l.queue) != want {
		t.Fatalf("cap(queue) = %d, want %d", cap(l.queue), want)
	}
}

func TestPopOnEmptyQueueReturnsFalse(t *testing.T) {
	l := New("239.1.1.1", 26400)
	if _, ok := l.Pop(); ok {
		t.Fatal("Pop on a freshly constructed listener should report no datagram")
	}
}

func TestPopReturnsQueuedView(t *testing.T) {
	l := New("239.1.1.1", 26400)
	want := types.PacketView{Data: []byte{1, 2, 3}}
	l.queue <- want

	got, ok := l.Pop()
	if !ok {
		t.Fatal("Pop should report a queued datagram")
	}
	if len(got.Data) != len(want.Data) {
		t.Fatalf("Pop() = %v, want %v", got.Data, want.Data)
	}
	if _, ok := l.Pop(); ok {
		t.Fatal("queue should be drained after a single Pop")
	}
}

func TestStopWithoutStartIsNoOp(t *testing.T) {
	l := New("239.1.1.1", 26400)
	l.Stop() // must not block or panic when never started
}

func TestStopIsIdempotent(t *testing.T) {
	l := New("239.1.1.1", 26400)
	if !l.Start() {
		t.Skip("multicast join unavailable in this environment")
	}
	l.Stop()
	l.Stop() // second Stop on an already-stopped listener must be a no-op
}
