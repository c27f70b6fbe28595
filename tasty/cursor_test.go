package tasty

import (
	"encoding/binary"
	"testing"
)

func TestCursorReadNat(t *testing.T) {
	tmp := make([]byte, binary.MaxVarintLen64)
	written := binary.PutUvarint(tmp, 300)

	c := NewCursor(tmp[:written])
	if got := c.ReadNat(); got != 300 {
		t.Fatalf("ReadNat() = %d, want 300", got)
	}
	if !c.AtEnd() {
		t.Fatalf("expected cursor at end after consuming the whole buffer")
	}
}

func TestCursorReadIntZigZag(t *testing.T) {
	cases := []int64{0, -1, 1, -2, 2, -64, 64, 12345, -12345}
	for _, want := range cases {
		u := uint64(want<<1) ^ uint64(want>>63)
		tmp := make([]byte, binary.MaxVarintLen64)
		n := binary.PutUvarint(tmp, u)
		c := NewCursor(tmp[:n])
		if got := c.ReadInt(); got != want {
			t.Fatalf("ReadInt() round trip for %d = %d", want, got)
		}
	}
}

func TestCursorForkIsIndependent(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4})
	c.ReadByte()
	fork := c.Fork()
	fork.ReadByte()
	if c.CurrentAddr() != 1 {
		t.Fatalf("advancing the fork moved the original cursor: %v", c.CurrentAddr())
	}
	if fork.CurrentAddr() != 2 {
		t.Fatalf("fork.CurrentAddr() = %v, want 2", fork.CurrentAddr())
	}
}

func TestCursorReadEndAndAssertAtEnd(t *testing.T) {
	tmp := make([]byte, binary.MaxVarintLen64)
	n := binary.PutUvarint(tmp, 3)
	payload := append(tmp[:n], []byte{9, 9, 9}...)
	c := NewCursor(payload)
	end := c.ReadEnd()
	c.ReadBytes(3)
	c.AssertAtEnd(end, "test") // must not panic
}

func TestCursorAssertAtEndPanicsOnMismatch(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected AssertAtEnd to panic on a cursor mismatch")
		}
		if _, ok := r.(*TypeError); !ok {
			t.Fatalf("expected panic value *TypeError, got %T", r)
		}
	}()
	c := NewCursor([]byte{1, 2, 3})
	c.ReadByte()
	c.AssertAtEnd(Addr(2), "test")
}

func TestCursorGotoOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Goto out of range to panic")
		}
	}()
	c := NewCursor([]byte{1, 2, 3})
	c.Goto(Addr(10))
}
