// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package profile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tomtom215/animerec/internal/catalog"
)

// Writer stages a profile table and publishes it atomically.
//
// Rows are streamed to a temporary body file as they arrive. Commit writes the
// two header lines, appends the body and renames the result over the target path.
// Abort discards everything and leaves any existing table untouched.
type Writer struct {
	path   string
	width  int
	prec   int
	header []string

	body *os.File
	buf  *bufio.Writer
	row  []string
	done bool

	// users holds one key per written user, for the duplicate check and the count.
	users map[int]struct{}
}

// NewWriter starts a table for vocab at path whose values carry prec decimals.
// The parent directory is created if needed.
func NewWriter(path string, vocab *catalog.Vocabulary, prec int) (*Writer, error) {
	if prec < 0 {
		return nil, fmt.Errorf("profile precision must not be negative, got %d", prec)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}

	body, err := os.CreateTemp(dir, "."+filepath.Base(path)+".body-*")
	if err != nil {
		return nil, fmt.Errorf("create profile staging file: %w", err)
	}

	return &Writer{
		path:   path,
		width:  vocab.Len(),
		prec:   prec,
		header: HeaderColumns(vocab.Names()),
		body:   body,
		buf:    bufio.NewWriterSize(body, 64<<10),
		users:  make(map[int]struct{}),
		row:    make([]string, 0, vocab.Len()+2),
	}, nil
}

// Path returns the final table path.
func (w *Writer) Path() string {
	return w.path
}

// Users returns the number of rows written so far.
func (w *Writer) Users() int {
	return len(w.users)
}

// Write appends one profile row. It implements Sink.
func (w *Writer) Write(p *UserProfile) error {
	if w.done {
		return ErrClosed
	}
	if len(p.Preferences) != w.width {
		return fmt.Errorf("%w: user %d has %d slots, want %d", ErrWrongWidth, p.UserID, len(p.Preferences), w.width)
	}
	if _, dup := w.users[p.UserID]; dup {
		return fmt.Errorf("%w: %d", ErrDuplicateUser, p.UserID)
	}
	w.users[p.UserID] = struct{}{}

	w.row = w.row[:0]
	w.row = append(w.row, strconv.Itoa(p.UserID))
	for _, v := range p.Preferences {
		w.row = append(w.row, FormatValue(v, w.prec))
	}
	w.row = append(w.row, FormatIDList(p.Watched))

	if _, err := w.buf.WriteString(strings.Join(w.row, "\t")); err != nil {
		return fmt.Errorf("write profile row: %w", err)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("write profile row: %w", err)
	}
	return nil
}

// Commit publishes the table. entries is the event count recorded in the first line.
func (w *Writer) Commit(entries int) error {
	if w.done {
		return ErrClosed
	}
	w.done = true
	defer os.Remove(w.body.Name())

	if err := w.buf.Flush(); err != nil {
		_ = w.body.Close()
		return fmt.Errorf("flush profile rows: %w", err)
	}
	if _, err := w.body.Seek(0, io.SeekStart); err != nil {
		_ = w.body.Close()
		return fmt.Errorf("rewind profile rows: %w", err)
	}

	out, err := os.CreateTemp(filepath.Dir(w.path), "."+filepath.Base(w.path)+".tmp-*")
	if err != nil {
		_ = w.body.Close()
		return fmt.Errorf("create profile output: %w", err)
	}
	tmp := out.Name()

	err = w.assemble(out, entries)
	closeErr := w.body.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}

	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync profile table: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close profile table: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("publish profile table: %w", err)
	}
	return nil
}

func (w *Writer) assemble(out io.Writer, entries int) error {
	bw := bufio.NewWriterSize(out, 64<<10)
	if _, err := fmt.Fprintf(bw, "%d\t%d\n", entries, len(w.users)); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	if _, err := bw.WriteString(strings.Join(w.header, "\t") + "\n"); err != nil {
		return fmt.Errorf("write column header: %w", err)
	}
	if _, err := io.Copy(bw, w.body); err != nil {
		return fmt.Errorf("copy profile rows: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush profile table: %w", err)
	}
	return nil
}

// Abort discards the staged table. It is safe to call after Commit.
func (w *Writer) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	_ = w.body.Close()
	if err := os.Remove(w.body.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove profile staging file: %w", err)
	}
	return nil
}
