package protocol

import "testing"

func TestReframer_ChunkingAtEveryPosition(t *testing.T) {
	frame := []byte{0x0D, 0x0A, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	for split := 0; split <= len(frame)-1; split++ {
		r := NewReframer()
		var got [][]byte
		got = append(got, r.Feed(frame[:split])...)
		got = append(got, r.Feed(frame[split:])...)
		if len(got) != 1 {
			t.Fatalf("split=%d: got %d frames, want 1", split, len(got))
		}
		if string(got[0]) != string(frame) {
			t.Fatalf("split=%d: got %x, want %x", split, got[0], frame)
		}
	}
}

func TestReframer_DropsLeadingGarbage(t *testing.T) {
	frame := []byte{0x0D, 0x04, 1, 2, 3}
	garbage := []byte{0xFF, 0xAA, 0x00}
	r := NewReframer()
	got := r.Feed(append(append([]byte{}, garbage...), frame...))
	if len(got) != 1 || string(got[0]) != string(frame) {
		t.Fatalf("got %v, want one frame %x", got, frame)
	}
}

func TestReframer_RetainsTrailingBytesAcrossFeeds(t *testing.T) {
	frame1 := []byte{0x0D, 0x04, 1, 2, 3}
	frame2 := []byte{0x0D, 0x04, 9, 8, 7}
	r := NewReframer()
	var got [][]byte
	got = append(got, r.Feed(append(append([]byte{}, frame1...), frame2[:2]...))...)
	got = append(got, r.Feed(frame2[2:])...)
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if string(got[0]) != string(frame1) || string(got[1]) != string(frame2) {
		t.Fatalf("got %x / %x, want %x / %x", got[0], got[1], frame1, frame2)
	}
}

func TestReframer_MultipleFramesInOneChunk(t *testing.T) {
	frame1 := []byte{0x0D, 0x04, 1, 2, 3}
	frame2 := []byte{0x0D, 0x04, 9, 8, 7}
	r := NewReframer()
	got := r.Feed(append(append([]byte{}, frame1...), frame2...))
	if len(got) != 2 {
		t.Fatalf("got %d frames, want 2", len(got))
	}
	if string(got[0]) != string(frame1) || string(got[1]) != string(frame2) {
		t.Fatalf("got %x / %x, want %x / %x", got[0], got[1], frame1, frame2)
	}
}

func TestReframer_FastPathExactBuffer(t *testing.T) {
	frame := []byte{0x0D, 0x04, 1, 2, 3}
	r := NewReframer()
	got := r.Feed(frame)
	if len(got) != 1 || string(got[0]) != string(frame) {
		t.Fatalf("got %v, want one frame %x", got, frame)
	}
}
