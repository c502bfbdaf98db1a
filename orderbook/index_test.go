package orderbook

import "testing"

func TestIndexPutGet(t *testing.T) {
	ix := newIndex(16)
	ix.Put(42, 7)

	slot, found := ix.Get(42)
	if !found || slot != 7 {
		t.Fatalf("Get(42) = (%d, %v), want (7, true)", slot, found)
	}
}

func TestIndexGetMissing(t *testing.T) {
	ix := newIndex(16)
	if _, found := ix.Get(1); found {
		t.Fatal("Get on empty index should report not found")
	}
}

func TestIndexZeroKeyIsLegal(t *testing.T) {
	ix := newIndex(16)
	ix.Put(0, 3)
	slot, found := ix.Get(0)
	if !found || slot != 3 {
		t.Fatalf("Get(0) = (%d, %v), want (3, true); zero must be a legal key", slot, found)
	}
}

func TestIndexDeleteThenReuseSlot(t *testing.T) {
	ix := newIndex(16)
	ix.Put(1, 1)
	ix.Put(2, 2)
	ix.Delete(1)

	if _, found := ix.Get(1); found {
		t.Fatal("deleted key should no longer be found")
	}
	if _, found := ix.Get(2); !found {
		t.Fatal("other keys must survive a delete of a different key")
	}

	// A tombstoned slot must be reusable by a later insert.
	ix.Put(3, 99)
	slot, found := ix.Get(3)
	if !found || slot != 99 {
		t.Fatalf("Get(3) = (%d, %v), want (99, true)", slot, found)
	}
}

func TestIndexLen(t *testing.T) {
	ix := newIndex(16)
	if ix.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", ix.Len())
	}
	ix.Put(1, 1)
	ix.Put(2, 2)
	if ix.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ix.Len())
	}
	ix.Delete(1)
	if ix.Len() != 1 {
		t.Fatalf("Len() = %d after delete, want 1", ix.Len())
	}
}

func TestIndexDeleteMissingIsNoOp(t *testing.T) {
	ix := newIndex(16)
	ix.Put(1, 1)
	ix.Delete(999)
	if ix.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (delete of unknown key is a no-op)", ix.Len())
	}
}

func TestIndexManyKeysRoundTrip(t *testing.T) {
	ix := newIndex(256)
	const n = 200
	for i := uint64(0); i < n; i++ {
		ix.Put(i, uint32(i*2))
	}
	for i := uint64(0); i < n; i++ {
		slot, found := ix.Get(i)
		if !found || slot != uint32(i*2) {
			t.Fatalf("Get(%d) = (%d, %v), want (%d, true)", i, slot, found, i*2)
		}
	}
	if ix.Len() != n {
		t.Fatalf("Len() = %d, want %d", ix.Len(), n)
	}
}

func TestIndexOverwriteExistingKey(t *testing.T) {
	ix := newIndex(16)
	ix.Put(5, 10)
	ix.Put(5, 20)

	slot, found := ix.Get(5)
	if !found {
		t.Fatal("key should still be found after overwrite")
	}
	if slot != 20 {
		t.Fatalf("Get(5) = %d, want 20 (Put overwrites the existing mapping)", slot)
	}
}
