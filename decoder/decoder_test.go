package decoder

import (
	"testing"

	"itchfeed/symboltable"
	"itchfeed/types"
)

func putBE16(b []byte, off int, v uint16) {
	b[off] = byte(v >> 8)
	b[off+1] = byte(v)
}

func putBE32(b []byte, off int, v uint32) {
	b[off] = byte(v >> 24)
	b[off+1] = byte(v >> 16)
	b[off+2] = byte(v >> 8)
	b[off+3] = byte(v)
}

func putBE64(b []byte, off int, v uint64) {
	for i := 0; i < 8; i++ {
		b[off+i] = byte(v >> uint(56-8*i))
	}
}

func putSymbol(b []byte, off int, s string) {
	copy(b[off:off+8], s)
	for i := len(s); i < 8; i++ {
		b[off+i] = ' '
	}
}

func newDecoder() *Decoder {
	return New(symboltable.New())
}

func TestMessageSizeKnownTypes(t *testing.T) {
	cases := map[byte]uint32{
		TypeSystemEvent:     12,
		TypeStockDirectory:  39,
		TypeAddOrder:        36,
		TypeAddOrderMPID:    40,
		TypeOrderExecuted:   31,
		TypeOrderExecutedPx: 36,
		TypeOrderCancel:     23,
		TypeOrderDelete:     19,
		TypeOrderReplace:    35,
	}
	for typ, want := range cases {
		if got := MessageSize(typ); got != want {
			t.Errorf("MessageSize(%q) = %d, want %d", typ, got, want)
		}
	}
}

func TestMessageSizeUnknownType(t *testing.T) {
	if got := MessageSize('Z'); got != 0 {
		t.Fatalf("MessageSize('Z') = %d, want 0", got)
	}
}

func TestTrackingNumber(t *testing.T) {
	buf := make([]byte, 12)
	buf[0] = TypeSystemEvent
	putBE16(buf, 3, 4242)
	if got := TrackingNumber(buf); got != 4242 {
		t.Fatalf("TrackingNumber() = %d, want 4242", got)
	}
}

func TestDecodeOneAddOrder(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 36)
	buf[0] = TypeAddOrder
	putBE64(buf, 11, 555)
	buf[19] = byte(types.SideBuy)
	putBE32(buf, 20, 100)
	putSymbol(buf, 24, "AAPL")
	putBE32(buf, 32, 45000)

	ev, n := d.DecodeOne(buf)
	if n != 36 {
		t.Fatalf("consumed = %d, want 36", n)
	}
	if ev.Kind != types.EventAdd || ev.ID != 555 || ev.Side != types.SideBuy || ev.Qty != 100 || ev.Price != 45000 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.SymbolID == 0 {
		t.Fatal("Add should intern a non-zero symbol id")
	}
	if view := d.Symbols.View(ev.SymbolID); string(view) != "AAPL" {
		t.Fatalf("interned symbol = %q, want AAPL", view)
	}
}

func TestDecodeOneAddOrderMPID(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 40)
	buf[0] = TypeAddOrderMPID
	putBE64(buf, 11, 1)
	buf[19] = byte(types.SideSell)
	putBE32(buf, 20, 10)
	putSymbol(buf, 24, "MSFT")
	putBE32(buf, 32, 30000)

	ev, n := d.DecodeOne(buf)
	if n != 40 {
		t.Fatalf("consumed = %d, want 40", n)
	}
	if ev.Kind != types.EventAdd || ev.Side != types.SideSell {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeOneOrderExecuted(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 31)
	buf[0] = TypeOrderExecuted
	putBE64(buf, 11, 777)
	putBE32(buf, 19, 42)

	ev, n := d.DecodeOne(buf)
	if n != 31 {
		t.Fatalf("consumed = %d, want 31", n)
	}
	if ev.Kind != types.EventExec || ev.ID != 777 || ev.Qty != 42 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeOneOrderExecutedWithPrice(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 36)
	buf[0] = TypeOrderExecutedPx
	putBE64(buf, 11, 778)
	putBE32(buf, 19, 5)

	ev, n := d.DecodeOne(buf)
	if n != 36 {
		t.Fatalf("consumed = %d, want 36", n)
	}
	if ev.Kind != types.EventExec || ev.ID != 778 || ev.Qty != 5 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeOneOrderCancel(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 23)
	buf[0] = TypeOrderCancel
	putBE64(buf, 11, 9)
	putBE32(buf, 19, 3)

	ev, n := d.DecodeOne(buf)
	if n != 23 {
		t.Fatalf("consumed = %d, want 23", n)
	}
	if ev.Kind != types.EventCancel || ev.ID != 9 || ev.Qty != 3 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeOneOrderDelete(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 19)
	buf[0] = TypeOrderDelete
	putBE64(buf, 11, 321)

	ev, n := d.DecodeOne(buf)
	if n != 19 {
		t.Fatalf("consumed = %d, want 19", n)
	}
	if ev.Kind != types.EventDelete || ev.ID != 321 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestDecodeOneOrderReplace(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 35)
	buf[0] = TypeOrderReplace
	putBE64(buf, 11, 1000)
	putBE64(buf, 19, 1001)
	putBE32(buf, 27, 50)
	putBE32(buf, 31, 46000)

	ev, n := d.DecodeOne(buf)
	if n != 35 {
		t.Fatalf("consumed = %d, want 35", n)
	}
	if ev.Kind != types.EventReplace || ev.OldID != 1000 || ev.ID != 1001 || ev.Qty != 50 || ev.Price != 46000 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.SymbolID != 0 {
		t.Fatal("Replace must not carry a symbol id off the wire")
	}
}

func TestDecodeOneStockDirectoryInternsSilently(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 39)
	buf[0] = TypeStockDirectory
	putSymbol(buf, 11, "GOOG")

	ev, n := d.DecodeOne(buf)
	if n != 39 {
		t.Fatalf("consumed = %d, want 39", n)
	}
	if ev.Kind != types.EventNone {
		t.Fatalf("StockDirectory should emit no event, got %+v", ev)
	}
	if _, found := d.Symbols.Lookup([]byte("GOOG     ")[:8]); !found {
		t.Fatal("StockDirectory should pre-register its symbol")
	}
}

func TestDecodeOneSystemEventEmitsNoEvent(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 12)
	buf[0] = TypeSystemEvent

	ev, n := d.DecodeOne(buf)
	if n != 12 || ev.Kind != types.EventNone {
		t.Fatalf("unexpected result: ev=%+v n=%d", ev, n)
	}
}

func TestDecodeOneUnknownType(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 20)
	buf[0] = 'Z'

	ev, n := d.DecodeOne(buf)
	if n != 0 || ev.Kind != types.EventNone {
		t.Fatalf("unknown type should consume 0 bytes, got ev=%+v n=%d", ev, n)
	}
}

func TestDecodeOneTruncatedBufferIsRejected(t *testing.T) {
	d := newDecoder()
	buf := make([]byte, 10) // shorter than Add-Order's declared 36 bytes
	buf[0] = TypeAddOrder

	ev, n := d.DecodeOne(buf)
	if n != 0 || ev.Kind != types.EventNone {
		t.Fatalf("truncated buffer should consume 0 bytes, got ev=%+v n=%d", ev, n)
	}
}

func TestDecodeOneShorterThanHeaderIsRejected(t *testing.T) {
	d := newDecoder()
	ev, n := d.DecodeOne([]byte{'A', 0, 0})
	if n != 0 || ev.Kind != types.EventNone {
		t.Fatalf("sub-header buffer should consume 0 bytes, got ev=%+v n=%d", ev, n)
	}
}

func TestDecodeOneSameSymbolAcrossMessagesInternsToSameID(t *testing.T) {
	d := newDecoder()

	dirBuf := make([]byte, 39)
	dirBuf[0] = TypeStockDirectory
	putSymbol(dirBuf, 11, "AMZN")
	d.DecodeOne(dirBuf)

	addBuf := make([]byte, 36)
	addBuf[0] = TypeAddOrder
	putBE64(addBuf, 11, 1)
	addBuf[19] = byte(types.SideBuy)
	putBE32(addBuf, 20, 10)
	putSymbol(addBuf, 24, "AMZN")
	putBE32(addBuf, 32, 1000)

	ev, _ := d.DecodeOne(addBuf)
	want, found := d.Symbols.Lookup([]byte("AMZN    "))
	if !found || ev.SymbolID != want {
		t.Fatalf("Add's symbol id (%d) should match the StockDirectory-interned id (%d, found=%v)", ev.SymbolID, want, found)
	}
}
