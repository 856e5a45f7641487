package iochecksum_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/seafront/seafront/internal/iochecksum"
	"github.com/seafront/seafront/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sha256 of "hello"
const helloHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestLookupMissing(t *testing.T) {
	res, err := iochecksum.Lookup(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestLookupSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	ledger := "abc123 a.h5ad\n" +
		"garbage\n" +
		"zzzz b.h5ad\n" +
		"\n" +
		"def456 c.h5ad\n" +
		"111111 a.h5ad\n"
	require.NoError(t, os.WriteFile(iochecksum.LedgerPath(dir), []byte(ledger), 0644))

	res, err := iochecksum.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"a.h5ad": "111111",
		"c.h5ad": "def456",
	}, res)
}

func TestUpdate(t *testing.T) {
	dir := t.TempDir()
	path := iochecksum.LedgerPath(dir)
	ledger := "aa a.h5ad\nnot a record\nbb b.h5ad\ncc a.h5ad\n"
	require.NoError(t, os.WriteFile(path, []byte(ledger), 0644))

	require.NoError(t, iochecksum.Update(dir, "a.h5ad", "dd"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not a record\nbb b.h5ad\ndd a.h5ad\n", string(data))

	res, err := iochecksum.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, "dd", res["a.h5ad"])
	assert.Equal(t, "bb", res["b.h5ad"])
	assert.Len(t, res, 2)
}

func TestUpdateCreates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, iochecksum.Update(dir, "x.h5ad", helloHash))
	res, err := iochecksum.Lookup(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"x.h5ad": helloHash}, res)
}

func TestFileChecksumAndVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	hash, err := iochecksum.FileChecksum(path)
	require.NoError(t, err)
	assert.Equal(t, helloHash, hash)

	ok, err := iochecksum.Verify(path, strings.ToUpper(helloHash))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = iochecksum.Verify(path, "00")
	require.NoError(t, err)
	assert.False(t, ok)

	// larger than one block
	big := strings.Repeat("x", iochecksum.BlockSize*2+7)
	require.NoError(t, os.WriteFile(path, []byte(big), 0644))
	hash2, err := iochecksum.FileChecksum(path)
	require.NoError(t, err)
	assert.Len(t, hash2, 64)
	assert.NotEqual(t, hash, hash2)
}

func TestFileChecksumMissing(t *testing.T) {
	_, err := iochecksum.FileChecksum(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ChecksumError, gnErr.Code)
}
