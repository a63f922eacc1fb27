// Package tracelog records applied configuration instructions as
// zstd-compressed JSON lines.
package tracelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/sarchlab/bcastnet/bcast"
)

// Entry is one line of the trace log.
type Entry struct {
	Seq     uint64            `json:"seq"`
	Session string            `json:"session"`
	Phase   string            `json:"phase"`
	Index   int               `json:"index"`
	Inst    bcast.Instruction `json:"inst"`
	Text    string            `json:"text"`
	TimeMS  int64             `json:"time_ms"`
}

// Writer appends entries to a single .jsonl.zst file.
type Writer struct {
	path string

	mu  sync.Mutex
	seq uint64
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
	err error
}

// Create opens a new trace log at path, truncating any previous one.
func Create(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &Writer{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// Path returns the file the writer appends to.
func (w *Writer) Path() string {
	return w.path
}

// Write appends one entry. The sequence number is assigned by the writer.
func (w *Writer) Write(e Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return os.ErrClosed
	}

	w.seq++
	e.Seq = w.seq
	if e.Text == "" {
		e.Text = e.Inst.String()
	}

	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}

	return w.w.WriteByte('\n')
}

// Hook returns an instruction hook that logs every applied instruction under
// the session and phase. A failed write is kept and reported by Err and
// Close; it never interrupts configuration.
func (w *Writer) Hook(session, phase string) bcast.Hook {
	return func(index int, inst bcast.Instruction) {
		err := w.Write(Entry{
			Session: session,
			Phase:   phase,
			Index:   index,
			Inst:    inst,
			TimeMS:  time.Now().UnixMilli(),
		})
		if err != nil {
			w.mu.Lock()
			if w.err == nil {
				w.err = err
			}
			w.mu.Unlock()
		}
	}
}

// Err returns the first error a hook ran into.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.err
}

// Count returns how many entries were written.
func (w *Writer) Count() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.seq
}

// Close flushes the stream and closes the file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.w == nil {
		return nil
	}

	errs := []error{w.err, w.w.Flush(), w.enc.Close(), w.f.Close()}
	w.w = nil
	w.enc = nil
	w.f = nil

	return errors.Join(errs...)
}

// ReadAll decodes every entry of a trace log.
func ReadAll(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads entries from a zstd JSONL stream.
func Decode(r io.Reader) ([]Entry, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	entries := make([]Entry, 0)
	jd := json.NewDecoder(dec)

	for {
		var e Entry
		err := jd.Decode(&e)
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return entries, err
		}

		entries = append(entries, e)
	}
}
