package ledger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoredName(t *testing.T) {
	name, err := StoredName("abc", "photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, "abc_photo.jpg", name)

	name, err = StoredName("abc", "../../etc/passwd.png")
	require.NoError(t, err)
	assert.Equal(t, "abc_passwd.png", name)

	name, err = StoredName("abc", `C:\Users\me\pic.jpeg`)
	require.NoError(t, err)
	assert.Equal(t, "abc_pic.jpeg", name)

	for _, bad := range []string{"", ".", "..", "/", "  "} {
		_, err := StoredName("abc", bad)
		assert.Error(t, err, bad)
	}
}

func TestImageDir_SaveAndRead(t *testing.T) {
	ctx := context.Background()
	dir := NewImageDir(filepath.Join(t.TempDir(), "uploads"))

	data := bytes.Repeat([]byte{0x89, 'P', 'N', 'G', 0x00, 0xff}, 1024)
	ref, err := dir.SaveImage(ctx, "id-1", "launch.png", data)
	require.NoError(t, err)
	assert.Equal(t, "id-1_launch.png", ref)

	onDisk, err := os.ReadFile(filepath.Join(dir.Root(), ref))
	require.NoError(t, err)
	assert.Equal(t, data, onDisk)

	got, err := dir.ReadImage(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestImageDir_SameNameDifferentPosts(t *testing.T) {
	ctx := context.Background()
	dir := NewImageDir(t.TempDir())

	a, err := dir.SaveImage(ctx, "a", "pic.jpg", []byte("first"))
	require.NoError(t, err)
	b, err := dir.SaveImage(ctx, "b", "pic.jpg", []byte("second"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	got, err := dir.ReadImage(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), got)
}

func TestImageDir_ReadRejectsEscapes(t *testing.T) {
	ctx := context.Background()
	dir := NewImageDir(t.TempDir())

	_, err := dir.ReadImage(ctx, "../secret")
	assert.ErrorIs(t, err, ErrImageMissing)
	_, err = dir.ReadImage(ctx, "missing.png")
	assert.ErrorIs(t, err, ErrImageMissing)
}

func TestImageDir_Delete(t *testing.T) {
	ctx := context.Background()
	dir := NewImageDir(t.TempDir())

	ref, err := dir.SaveImage(ctx, "id", "x.png", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, dir.DeleteImage(ctx, ref))
	require.NoError(t, dir.DeleteImage(ctx, ref))

	ok, err := dir.exists(ref)
	require.NoError(t, err)
	assert.False(t, ok)
}
