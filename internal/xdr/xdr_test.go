package xdr

import "testing"

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter(make([]byte, 0, 32))
	w.PutUint16(0x1234)
	w.PutUint32(0xdeadbeef)
	w.PutInt32(-1)
	w.PutBytes([]byte{1, 2, 3})

	r := NewReader(w.Bytes())
	if got := r.GetUint16(); got != 0x1234 {
		t.Fatalf("GetUint16() = %#x, want 0x1234", got)
	}
	if got := r.GetUint32(); got != 0xdeadbeef {
		t.Fatalf("GetUint32() = %#x, want 0xdeadbeef", got)
	}
	if got := r.GetInt32(); got != -1 {
		t.Fatalf("GetInt32() = %d, want -1", got)
	}
	if got := r.GetBytes(3); string(got) != "\x01\x02\x03" {
		t.Fatalf("GetBytes(3) = %v, want [1 2 3]", got)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestPatchUint32(t *testing.T) {
	w := NewWriter(make([]byte, 0, 16))
	off := w.Len()
	w.PutUint32(0)
	w.PutBytes([]byte{0xaa, 0xbb})
	w.PatchUint32(off, 42)

	r := NewReader(w.Bytes())
	if got := r.GetUint32(); got != 42 {
		t.Fatalf("patched value = %d, want 42", got)
	}
}

func TestLittleEndianByteOrder(t *testing.T) {
	w := NewWriter(nil)
	w.PutUint16(0x0102)
	got := w.Bytes()
	want := []byte{0x02, 0x01}
	if got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("PutUint16 bytes = %v, want %v (little-endian)", got, want)
	}
}
