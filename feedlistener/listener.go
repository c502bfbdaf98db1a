// ════════════════════════════════════════════════════════════════════════════════════════════════
// ⚡ FEED LISTENER — UDP MULTICAST INGEST
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Receives one multicast feed (A or B) into a fixed ring of
// pre-allocated slots, exposing the received datagrams via a non-blocking
// pop, exactly mirroring the arbiter's PopFunc contract.
//
// Description:
//   Runs its own goroutine reading datagrams into a small ring of 4 KiB
//   slots so no allocation occurs on the receive path; a short read
//   deadline lets the goroutine notice Stop promptly instead of blocking
//   forever on an idle socket.
// ════════════════════════════════════════════════════════════════════════════════════════════════

package feedlistener

import (
	"net"
	"sync/atomic"
	"time"

	"itchfeed/constants"
	"itchfeed/control"
	"itchfeed/types"
)

// Listener receives one multicast feed into a fixed-size slot ring.
type Listener struct {
	group string
	port  int

	conn    *net.UDPConn
	running uint32

	slots    [][constants.FeedSlotBytes]byte
	views    []types.PacketView
	ringIdx  uint32
	queue    chan types.PacketView
	quitDone chan struct{}
}

// New constructs a Listener bound to mcastGroup:port, with a slot ring and
// pop queue sized to 1<<constants.FeedRingBits entries.
func New(mcastGroup string, port int) *Listener {
	n := 1 << constants.FeedRingBits
	return &Listener{
		group:    mcastGroup,
		port:     port,
		slots:    make([][constants.FeedSlotBytes]byte, n),
		views:    make([]types.PacketView, n),
		queue:    make(chan types.PacketView, n),
		quitDone: make(chan struct{}),
	}
}

// Start joins the multicast group and begins the receive loop on its own
// goroutine. Returns false if already running or if the socket could not
// be set up.
func (l *Listener) Start() bool {
	if !atomic.CompareAndSwapUint32(&l.running, 0, 1) {
		return false
	}

	addr := &net.UDPAddr{IP: net.ParseIP(l.group), Port: l.port}
	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		control.SignalActivity()
		atomic.StoreUint32(&l.running, 0)
		return false
	}
	_ = conn.SetReadBuffer(constants.FeedSlotBytes * len(l.slots))
	l.conn = conn

	go l.run()
	return true
}

// Stop signals the receive loop to exit and waits for it to return.
func (l *Listener) Stop() {
	if !atomic.CompareAndSwapUint32(&l.running, 1, 0) {
		return
	}
	<-l.quitDone
	if l.conn != nil {
		l.conn.Close()
	}
}

// run is the receive loop: read with a short deadline so the running flag
// is rechecked promptly, map each datagram into the next ring slot, and
// hand a non-owning view of it to the pop queue.
func (l *Listener) run() {
	defer close(l.quitDone)
	deadline := time.Duration(constants.RecvTimeoutMillis) * time.Millisecond
	n := uint32(len(l.slots))

	for atomic.LoadUint32(&l.running) == 1 {
		_ = l.conn.SetReadDeadline(time.Now().Add(deadline))
		slot := l.ringIdx % n
		buf := l.slots[slot][:]
		r, _, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			continue // timeout or transient error; recheck running
		}
		if r == 0 {
			continue
		}
		view := types.PacketView{Data: buf[:r]}
		l.views[slot] = view
		select {
		case l.queue <- view:
		default:
			// queue full: drop, matching the listener's own queue-full policy
		}
		l.ringIdx++
		control.SignalActivity()
	}
}

// Pop returns the next received datagram, or (_, false) if none is
// currently queued. The returned PacketView's backing array is only valid
// until that ring slot is reused, 1<<constants.FeedRingBits datagrams later.
func (l *Listener) Pop() (types.PacketView, bool) {
	select {
	case v := <-l.queue:
		return v, true
	default:
		return types.PacketView{}, false
	}
}
