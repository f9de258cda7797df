package tree

import (
	"bytes"
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/errs"
)

func TestBuilder_Leaf(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(&buf, codec.LeI32(), WithLogger(slogt.New(t)))

	require.NoError(t, b.AddNode(42, 0))

	require.Equal(t, []byte{42, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}, buf.Bytes())
	require.Equal(t, int64(12), b.Written())
	require.Equal(t, 1, b.OpenCount())
	require.Equal(t, []uint64{12}, b.OpenSizes())
}

func TestBuilder_TwoLeafChildren(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(&buf, codec.U8())

	require.NoError(t, b.AddNode(1, 0))
	require.NoError(t, b.AddNode(2, 0))
	require.Equal(t, []uint64{9, 9}, b.OpenSizes())

	require.NoError(t, b.AddNode(3, 2))
	require.Equal(t, []uint64{27}, b.OpenSizes())

	want := []byte{
		1, 1, 0, 0, 0, 0, 0, 0, 0,
		2, 1, 0, 0, 0, 0, 0, 0, 0,
		3, 19, 0, 0, 0, 0, 0, 0, 0,
	}
	require.Equal(t, want, buf.Bytes())
}

func TestBuilder_AttachesMostRecentSubtrees(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(&buf, codec.U8(), WithStackCapacity(2))

	require.NoError(t, b.AddNode(1, 0))
	require.NoError(t, b.AddNode(2, 0))
	require.NoError(t, b.AddNode(3, 0))
	// Only the last two subtrees become children; the first stays open.
	require.NoError(t, b.AddNode(4, 2))

	require.Equal(t, []uint64{9, 27}, b.OpenSizes())
	require.Equal(t, 2, b.OpenCount())
}

func TestBuilder_PreconditionPanics(t *testing.T) {
	var buf bytes.Buffer
	b := NewBuilder(&buf, codec.U8())

	require.PanicsWithValue(t, "tree: AddNode with 1 children but only 0 unattached subtrees", func() {
		_ = b.AddNode(1, 1)
	})
	require.Zero(t, buf.Len(), "a rejected node must not write anything")

	require.NoError(t, b.AddNode(1, 0))
	require.Panics(t, func() { _ = b.AddNode(2, 2) })
	require.Panics(t, func() { _ = b.AddNode(2, -1) })
	require.Equal(t, 9, buf.Len())
	require.Equal(t, 1, b.OpenCount())
}

// limitWriter accepts limit bytes and then fails.
type limitWriter struct {
	buf   bytes.Buffer
	limit int
}

var errDiskFull = errors.New("disk full")

func (w *limitWriter) Write(p []byte) (int, error) {
	room := w.limit - w.buf.Len()
	if room >= len(p) {
		return w.buf.Write(p)
	}
	if room > 0 {
		w.buf.Write(p[:room])
	} else {
		room = 0
	}

	return room, errDiskFull
}

func TestBuilder_SinkFailureOnValue(t *testing.T) {
	w := &limitWriter{limit: 2}
	b := NewBuilder(w, codec.LeI32(), WithLogger(slogt.New(t)))

	err := b.AddNode(7, 0)
	require.ErrorIs(t, err, errs.ErrSinkWrite)
	require.ErrorIs(t, err, errDiskFull)
	require.Contains(t, err.Error(), "value")
	require.Equal(t, int64(2), b.Written())

	err = b.AddNode(8, 0)
	require.ErrorIs(t, err, errs.ErrBuilderPoisoned)
	require.ErrorIs(t, err, errDiskFull)
	require.ErrorIs(t, b.Err(), errDiskFull)
	require.Equal(t, 2, w.buf.Len(), "poisoned builder must not write")
}

func TestBuilder_SinkFailureOnTrailer(t *testing.T) {
	w := &limitWriter{limit: 6}
	b := NewBuilder(w, codec.LeI32())

	err := b.AddNode(7, 0)
	require.ErrorIs(t, err, errs.ErrSinkWrite)
	require.Contains(t, err.Error(), "trailer")
	require.Equal(t, int64(6), b.Written())
	require.Zero(t, b.OpenCount(), "the failed node must not be recorded")
}

type shortTrailerWriter struct{ n int }

func (w *shortTrailerWriter) Write(p []byte) (int, error) {
	w.n++
	if w.n == 2 {
		return len(p) - 1, nil
	}

	return len(p), nil
}

func TestBuilder_ShortWrite(t *testing.T) {
	b := NewBuilder(&shortTrailerWriter{}, codec.U8())

	err := b.AddNode(1, 0)
	require.ErrorIs(t, err, errs.ErrSinkWrite)
}

func TestBuilder_InvalidOption(t *testing.T) {
	require.Panics(t, func() {
		NewBuilder(&bytes.Buffer{}, codec.U8(), WithStackCapacity(-1))
	})

	// A nil logger keeps the discarding default.
	b := NewBuilder(&bytes.Buffer{}, codec.U8(), WithLogger(nil))
	require.NoError(t, b.AddNode(1, 0))
}
