package tts

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// wavHeaderSize is the canonical PCM RIFF header length VOICEVOX emits.
const wavHeaderSize = 44

// ConcatWAV joins WAV payloads by appending the raw audio frames of every
// chunk under the first chunk's header, then patching the RIFF and data
// sizes. All chunks must share format parameters, which holds when they come
// from one synthesis run. Chunk order is preserved.
func ConcatWAV(chunks [][]byte) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("concat wav: no chunks")
	}
	if len(chunks) == 1 {
		return chunks[0], nil
	}

	for i, chunk := range chunks {
		if len(chunk) < wavHeaderSize {
			return nil, fmt.Errorf("concat wav: chunk %d too short (%d bytes)", i, len(chunk))
		}
		if !bytes.HasPrefix(chunk, []byte("RIFF")) {
			return nil, fmt.Errorf("concat wav: chunk %d missing RIFF header", i)
		}
	}

	var out bytes.Buffer
	out.Write(chunks[0][:wavHeaderSize])
	dataSize := 0
	for _, chunk := range chunks {
		frames := chunk[wavHeaderSize:]
		dataSize += len(frames)
		out.Write(frames)
	}

	result := out.Bytes()
	// RIFF chunk size excludes the 8-byte RIFF descriptor.
	binary.LittleEndian.PutUint32(result[4:8], uint32(len(result)-8))
	binary.LittleEndian.PutUint32(result[40:44], uint32(dataSize))
	return result, nil
}
