package tts_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"mediaforge/internal/tts"
)

// makeWAV builds a minimal canonical PCM WAV with the given payload.
func makeWAV(payload []byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(payload)))
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))      // PCM
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))      // mono
	_ = binary.Write(buf, binary.LittleEndian, uint32(24000))  // sample rate
	_ = binary.Write(buf, binary.LittleEndian, uint32(48000))  // byte rate
	_ = binary.Write(buf, binary.LittleEndian, uint16(2))      // block align
	_ = binary.Write(buf, binary.LittleEndian, uint16(16))     // bits
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)
	return buf.Bytes()
}

func TestConcatWAVJoinsFramesInOrder(t *testing.T) {
	a := makeWAV([]byte{1, 1, 1, 1})
	b := makeWAV([]byte{2, 2})
	c := makeWAV([]byte{3, 3, 3, 3, 3, 3})

	combined, err := tts.ConcatWAV([][]byte{a, b, c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	frames := combined[44:]
	want := []byte{1, 1, 1, 1, 2, 2, 3, 3, 3, 3, 3, 3}
	if !bytes.Equal(frames, want) {
		t.Fatalf("unexpected frames %v", frames)
	}
	dataSize := binary.LittleEndian.Uint32(combined[40:44])
	if dataSize != uint32(len(want)) {
		t.Fatalf("data size %d, want %d", dataSize, len(want))
	}
	riffSize := binary.LittleEndian.Uint32(combined[4:8])
	if riffSize != uint32(len(combined)-8) {
		t.Fatalf("riff size %d, want %d", riffSize, len(combined)-8)
	}
}

func TestConcatWAVSingleChunkPassthrough(t *testing.T) {
	a := makeWAV([]byte{9, 9})
	combined, err := tts.ConcatWAV([][]byte{a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(combined, a) {
		t.Fatal("single chunk should pass through unchanged")
	}
}

func TestConcatWAVRejectsGarbage(t *testing.T) {
	if _, err := tts.ConcatWAV(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := tts.ConcatWAV([][]byte{makeWAV([]byte{1}), []byte("not a wav")}); err == nil {
		t.Fatal("expected error for malformed chunk")
	}
}
