package protocol

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// The transport is a byte stream, so frames carry their own boundary: one
// JSON object per line, newline-terminated. The reader accumulates partial
// reads and splits coalesced ones; neither side may assume one message per
// Read call.

// MaxFrameSize bounds a single frame. Anything larger is a protocol error.
const MaxFrameSize = 64 * 1024

// FrameReader splits a byte stream into newline-delimited frames. An
// incomplete frame survives a read timeout: the next ReadFrame call resumes
// accumulating where the interrupted one stopped.
type FrameReader struct {
	r       *bufio.Reader
	partial []byte
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReader(r)}
}

// ReadFrame returns the next non-empty frame without its trailing newline.
// A frame longer than MaxFrameSize is an error.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	for {
		chunk, err := fr.r.ReadSlice('\n')
		fr.partial = append(fr.partial, chunk...)

		if err == bufio.ErrBufferFull {
			if len(fr.partial) > MaxFrameSize {
				fr.partial = nil
				return nil, fmt.Errorf("frame exceeds %d bytes", MaxFrameSize)
			}
			continue
		}
		if err != nil {
			// Timeout or disconnect mid-frame. Whatever accumulated stays
			// in fr.partial so a retry can finish the frame.
			return nil, err
		}

		frame := bytes.TrimRight(fr.partial, "\r\n")
		fr.partial = nil

		if len(frame) == 0 {
			continue // blank line
		}
		if len(frame) > MaxFrameSize {
			return nil, fmt.Errorf("frame exceeds %d bytes", MaxFrameSize)
		}
		return frame, nil
	}
}

// WriteFrame writes one payload as a newline-terminated frame.
func WriteFrame(w io.Writer, payload []byte) error {
	if _, err := w.Write(payload); err != nil {
		return err
	}
	_, err := w.Write([]byte{'\n'})
	return err
}
