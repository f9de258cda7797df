package tree

import (
	"errors"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/ctree/codec"
	"github.com/arloliu/ctree/errs"
	"github.com/arloliu/ctree/format"
)

func TestMemBuilder_Finish(t *testing.T) {
	m := NewMemBuilder(codec.LeI32(), WithLogger(slogt.New(t)))

	require.NoError(t, m.AddNode(1, 0))
	require.NoError(t, m.AddNode(2, 0))
	require.Equal(t, 2, m.OpenCount())
	require.Equal(t, 24, m.Len())

	_, err := m.Finish()
	require.ErrorIs(t, err, errs.ErrIncompleteTree)

	// Still usable after an incomplete Finish.
	require.NoError(t, m.AddNode(3, 2))
	owned, err := m.Finish()
	require.NoError(t, err)
	require.Equal(t, 36, owned.Len())
	require.NoError(t, owned.View().Validate())

	value, children := owned.View().Root()
	require.Equal(t, int32(3), value)
	require.Len(t, children.Collect(), 2)

	require.Panics(t, func() { _ = m.AddNode(4, 0) })
	require.Panics(t, func() { _, _ = m.Finish() })
	m.Discard()
}

func TestMemBuilder_EmptyFinish(t *testing.T) {
	m := NewMemBuilder(codec.U8())
	_, err := m.Finish()
	require.ErrorIs(t, err, errs.ErrIncompleteTree)
	m.Discard()
}

func TestMemBuilder_OwnedDoesNotAliasPool(t *testing.T) {
	first, err := Build[uint8](codec.U8(), func(b *Builder[uint8]) error {
		return b.AddNode(7, 0)
	})
	require.NoError(t, err)
	snapshot := append([]byte(nil), first.Bytes()...)

	// Reusing pooled buffers must not disturb earlier results.
	for range 10 {
		_, err := Build[uint8](codec.U8(), func(b *Builder[uint8]) error {
			return b.AddNode(9, 0)
		})
		require.NoError(t, err)
	}

	require.Equal(t, snapshot, first.Bytes())
}

func TestBuild_PropagatesCallbackError(t *testing.T) {
	boom := errors.New("parse failed")

	owned, err := Build[uint8](codec.U8(), func(b *Builder[uint8]) error {
		_ = b.AddNode(1, 0)
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Nil(t, owned)
}

func TestBuild_Forest(t *testing.T) {
	_, err := Build[uint8](codec.U8(), func(b *Builder[uint8]) error {
		_ = b.AddNode(1, 0)
		return b.AddNode(2, 0)
	})
	require.ErrorIs(t, err, errs.ErrIncompleteTree)
}

type unencodable struct {
	Ch chan int
}

func TestMemBuilder_PoisonedByCodecError(t *testing.T) {
	m := NewMemBuilder(codec.CBOR[unencodable]{})

	err := m.AddNode(unencodable{Ch: make(chan int)}, 0)
	require.ErrorIs(t, err, errs.ErrSinkWrite)

	_, err = m.Finish()
	require.ErrorIs(t, err, errs.ErrBuilderPoisoned)
	m.Discard()
}

func TestBuild_CompressedValues(t *testing.T) {
	c, err := codec.NewCompressed(format.CompressionS2)
	require.NoError(t, err)

	big := make([]byte, 2048)
	owned, err := Build[[]byte](c, func(b *Builder[[]byte]) error {
		if err := b.AddNode(big, 0); err != nil {
			return err
		}

		return b.AddNode([]byte("parent"), 1)
	})
	require.NoError(t, err)
	require.Less(t, owned.Len(), len(big), "zero-filled leaf should compress")

	value, children := owned.View().Root()
	require.Equal(t, []byte("parent"), value)
	leaf, ok := children.Next()
	require.True(t, ok)
	require.Equal(t, big, leaf.Value())
}
