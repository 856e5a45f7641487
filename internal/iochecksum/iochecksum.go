// Package iochecksum keeps the per-directory checksum ledger: a text
// file of "<sha256 hex> <filename>" lines recording the content hash
// of each cached file.
package iochecksum

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
)

const (
	// LedgerFile is the name of the ledger inside a cache directory.
	LedgerFile = ".checksums"

	// BlockSize is the read size used while hashing.
	BlockSize = 65536
)

// LedgerPath returns the ledger location for a directory.
func LedgerPath(dir string) string {
	return filepath.Join(dir, LedgerFile)
}

// Lookup reads the ledger of dir into a filename to hash map. A missing
// ledger gives an empty map. Malformed lines are logged and skipped.
// When a file is listed twice the last record wins.
func Lookup(dir string) (map[string]string, error) {
	res := make(map[string]string)
	path := LedgerPath(dir)
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return nil, LedgerReadError(path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	var line int
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		hash, name, ok := parseLine(text)
		if !ok {
			slog.Warn("Skipping malformed checksum line",
				"ledger", path, "line", line)
			continue
		}
		res[name] = hash
	}
	if err = sc.Err(); err != nil {
		return nil, LedgerReadError(path, err)
	}
	return res, nil
}

// Update records hash for filename in the ledger of dir. Earlier records
// of the same file are removed, other lines, malformed ones included,
// keep their order. The ledger is replaced atomically.
func Update(dir, filename, hash string) error {
	path := LedgerPath(dir)
	var lines []string
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return LedgerReadError(path, err)
	}
	for _, l := range strings.Split(string(data), "\n") {
		if l == "" {
			continue
		}
		if _, name, ok := parseLine(l); ok && name == filename {
			continue
		}
		lines = append(lines, l)
	}
	lines = append(lines, hash+" "+filename)

	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	if err = renameio.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return LedgerWriteError(path, err)
	}
	return nil
}

// FileChecksum returns the SHA-256 of a file as lower-case hex.
func FileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", ChecksumReadError(path, err)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, BlockSize)
	if _, err = io.CopyBuffer(h, f, buf); err != nil {
		return "", ChecksumReadError(path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file content hashes to expected. Hex case
// is ignored.
func Verify(path, expected string) (bool, error) {
	hash, err := FileChecksum(path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(hash, strings.TrimSpace(expected)), nil
}

func parseLine(line string) (string, string, bool) {
	hash, name, ok := strings.Cut(line, " ")
	if !ok || hash == "" || name == "" {
		return "", "", false
	}
	if _, err := hex.DecodeString(hash); err != nil {
		return "", "", false
	}
	return strings.ToLower(hash), name, true
}
