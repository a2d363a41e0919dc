// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stream

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Writer frames stream updates as newline-delimited JSON, one event per
// line. Every update is validated before it is written; an invalid update
// is reported and nothing is emitted for it.
type Writer struct {
	enc *json.Encoder
}

// NewWriter returns a Writer emitting frames to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Write validates and emits one update frame.
func (w *Writer) Write(u types.StreamUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if err := w.enc.Encode(u); err != nil {
		return fmt.Errorf("writing update frame: %w", err)
	}
	return nil
}

// Reader decodes newline-delimited update frames. Blank lines are
// skipped; a frame that fails to parse or validate is reported with its
// line number.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader returns a Reader consuming frames from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &Reader{sc: sc}
}

// Read returns the next update frame, or io.EOF when the input is
// exhausted.
func (r *Reader) Read() (types.StreamUpdate, error) {
	for r.sc.Scan() {
		r.line++
		line := r.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		u, err := types.Decode[types.StreamUpdate](line)
		if err != nil {
			return types.StreamUpdate{}, fmt.Errorf("line %d: %w", r.line, err)
		}
		return u, nil
	}
	if err := r.sc.Err(); err != nil {
		return types.StreamUpdate{}, fmt.Errorf("reading update stream: %w", err)
	}
	return types.StreamUpdate{}, io.EOF
}

// ReadAll decodes every frame from r in order.
func ReadAll(r io.Reader) ([]types.StreamUpdate, error) {
	rd := NewReader(r)
	var updates []types.StreamUpdate
	for {
		u, err := rd.Read()
		if err == io.EOF {
			return updates, nil
		}
		if err != nil {
			return nil, err
		}
		updates = append(updates, u)
	}
}
