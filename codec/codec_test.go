package codec

import (
	"context"
	"testing"

	"github.com/xtxerr/gtsstore/gts"
)

func TestBufferAppendAndDecode(t *testing.T) {
	ctx := context.Background()
	b := New()

	tuples := []gts.Tuple{
		{Timestamp: 1000, Location: gts.NoLocation, Elevation: gts.NoElevation, Value: gts.LongValue(42)},
		{Timestamp: 2000, Location: 123, Elevation: 45, Value: gts.DoubleValue(3.14)},
		{Timestamp: 3000, Location: gts.NoLocation, Elevation: gts.NoElevation, Value: gts.BooleanValue(true)},
		{Timestamp: 4000, Location: gts.NoLocation, Elevation: gts.NoElevation, Value: gts.StringValue("hello world")},
	}

	for _, tup := range tuples {
		if err := b.Append(ctx, tup); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if got := b.Count(); got != uint64(len(tuples)) {
		t.Fatalf("Count() = %d, want %d", got, len(tuples))
	}

	dec := b.DecoderView(false)
	var got []gts.Tuple
	for dec.Next() {
		got = append(got, dec.Tuple())
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(got) != len(tuples) {
		t.Fatalf("decoded %d tuples, want %d", len(got), len(tuples))
	}
	for i, tup := range tuples {
		if got[i] != tup {
			t.Errorf("tuple %d = %+v, want %+v", i, got[i], tup)
		}
	}
}

func TestBufferEmptyDecoder(t *testing.T) {
	b := New()
	dec := b.DecoderView(false)
	if dec.Next() {
		t.Fatal("Next() on empty buffer returned true")
	}
	if err := dec.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBufferDecoderViewIndependentSnapshot(t *testing.T) {
	ctx := context.Background()
	b := New()
	if err := b.Append(ctx, gts.Tuple{Timestamp: 1, Value: gts.LongValue(1)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	snap := b.DecoderView(true)

	if err := b.Append(ctx, gts.Tuple{Timestamp: 2, Value: gts.LongValue(2)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var count int
	for snap.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("independent snapshot saw %d tuples after later append, want 1", count)
	}
}

func TestBufferSizeGrows(t *testing.T) {
	ctx := context.Background()
	b := New()
	if b.Size() != 0 {
		t.Fatalf("Size() on empty buffer = %d, want 0", b.Size())
	}
	if err := b.Append(ctx, gts.Tuple{Timestamp: 1, Value: gts.LongValue(1)}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if b.Size() == 0 {
		t.Fatal("Size() after append still 0")
	}
}

func TestDecodeTruncatedRecord(t *testing.T) {
	_, _, err := decodeTuple([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error decoding truncated record")
	}
}
