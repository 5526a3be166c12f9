package uploads

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newTestStore(t *testing.T, maxBytes int64) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "/uploads/payments/", maxBytes)
	require.NoError(t, err)
	return store
}

func TestStore_SaveAndDelete(t *testing.T) {
	store := newTestStore(t, 1<<20)
	ctx := context.Background()

	uri, err := store.Save(ctx, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "/uploads/payments/"))
	assert.True(t, strings.HasSuffix(uri, ".png"))

	path := filepath.Join(store.Dir(), filepath.Base(uri))
	_, err = os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, uri))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// повторное удаление не ошибка
	assert.NoError(t, store.Delete(ctx, uri))
}

func TestStore_SaveRejectsLargeFile(t *testing.T) {
	store := newTestStore(t, 32)

	data := append(append([]byte{}, pngHeader...), make([]byte, 64)...)
	_, err := store.Save(context.Background(), bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestStore_SaveRejectsUnsupportedType(t *testing.T) {
	store := newTestStore(t, 1<<20)

	_, err := store.Save(context.Background(), strings.NewReader("%PDF-1.4 not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestStore_DeleteIgnoresTraversal(t *testing.T) {
	store := newTestStore(t, 1<<20)

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.NoError(t, store.Delete(context.Background(), "/uploads/payments/../../"+filepath.Base(outside)))
	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
