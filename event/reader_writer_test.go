package event_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/samboyer/flpx/event"
)

func TestReaderWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := event.NewWriter(&buf)

	if err := w.WriteInt(event.ID(0), 5); err != nil { // FLP_Enabled, BYTE class
		t.Fatal(err)
	}
	if err := w.WriteInt(event.ID(66), 140); err != nil { // FLP_Tempo, WORD class
		t.Fatal(err)
	}
	if err := w.WriteInt(event.ID(128), 0xDEADBEEF); err != nil { // FLP_Color, DWORD class
		t.Fatal(err)
	}
	if err := w.WriteText(event.ID(199), []byte("20")); err != nil { // FLP_Version, TEXT class
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r := event.NewReader(&buf)
	want := []struct {
		id  event.ID
		val uint64
		txt []byte
	}{
		{0, 5, nil},
		{66, 140, nil},
		{128, 0xDEADBEEF, nil},
		{199, 0, []byte("20")},
	}
	for i, w := range want {
		ev, err := r.Next()
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if ev.ID != w.id {
			t.Fatalf("event %d: id = %d, want %d", i, ev.ID, w.id)
		}
		if w.txt != nil {
			if !bytes.Equal(ev.Payload.Bytes(), w.txt) {
				t.Fatalf("event %d: payload = %v, want %v", i, ev.Payload.Bytes(), w.txt)
			}
		} else if ev.Payload.Int() != w.val {
			t.Fatalf("event %d: payload = %d, want %d", i, ev.Payload.Int(), w.val)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestWriteIntOutOfRangeRejected(t *testing.T) {
	var buf bytes.Buffer
	w := event.NewWriter(&buf)
	if err := w.WriteInt(event.ID(0), 256); err == nil {
		t.Fatal("expected error writing 256 into a BYTE-class event")
	}
}
