package bufseekio

import (
	"bytes"
	"io"
	"testing"
)

func TestWriteBufferPatchLengthPrefix(t *testing.T) {
	w := NewWriteBuffer()
	if _, err := w.Write([]byte("AAAA")); err != nil { // placeholder length
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Seek(0, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte{5, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}

	var dst bytes.Buffer
	if err := w.Flush(&dst); err != nil {
		t.Fatal(err)
	}
	want := append([]byte{5, 0, 0, 0}, "hello"...)
	if !bytes.Equal(dst.Bytes(), want) {
		t.Fatalf("got %v, want %v", dst.Bytes(), want)
	}
}
