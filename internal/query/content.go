package query

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// contentChunkSize is the read-buffer size for streamed content scans.
const contentChunkSize = 64 << 10

// rkBase is the Rabin-Karp rolling-hash multiplier.
const rkBase = 257

// FileContentMatches reports whether the file at path contains needle.
//
// Unreadable or vanished files resolve to (false, nil) rather than an
// error: a file disappearing between indexing and scanning is an
// ordinary outcome for a live index. Cancellation is checked once per
// chunk and surfaces as ctx.Err(), a distinct outcome from "not found".
//
// Single-byte needles use a plain streamed scan. Longer needles use
// per-chunk Rabin-Karp with an overlap carry of len(needle)-1 bytes from
// the previous chunk's tail, so matches straddling a chunk boundary are
// found. In case-insensitive mode only newly read bytes are lowercased;
// carried bytes were lowercased on their first pass.
func FileContentMatches(ctx context.Context, path, needle string, caseInsensitive bool) (bool, error) {
	if needle == "" {
		return false, nil
	}
	if caseInsensitive {
		needle = strings.ToLower(needle)
	}

	f, err := os.Open(path)
	if err != nil {
		return false, nil
	}
	defer f.Close()

	if len(needle) == 1 {
		return scanSingleByte(ctx, f, needle[0], caseInsensitive)
	}
	return scanRabinKarp(ctx, f, []byte(needle), caseInsensitive)
}

func scanSingleByte(ctx context.Context, r io.Reader, b byte, caseInsensitive bool) (bool, error) {
	var alt byte
	hasAlt := false
	if caseInsensitive && b >= 'a' && b <= 'z' {
		alt = b - 'a' + 'A'
		hasAlt = true
	}

	buf := make([]byte, contentChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if bytes.IndexByte(chunk, b) >= 0 {
				return true, nil
			}
			if hasAlt && bytes.IndexByte(chunk, alt) >= 0 {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, nil
		}
	}
}

func scanRabinKarp(ctx context.Context, r io.Reader, needle []byte, caseInsensitive bool) (bool, error) {
	m := len(needle)

	var target, pow uint64
	pow = 1
	for i := 0; i < m; i++ {
		target = target*rkBase + uint64(needle[i])
		if i > 0 {
			pow *= rkBase
		}
	}

	// window holds up to m-1 carried bytes plus the current chunk.
	window := make([]byte, 0, m-1+contentChunkSize)
	buf := make([]byte, contentChunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if caseInsensitive {
				lowerASCII(chunk)
			}
			window = append(window, chunk...)

			if len(window) >= m {
				var h uint64
				for i := 0; i < m; i++ {
					h = h*rkBase + uint64(window[i])
				}
				for i := 0; ; i++ {
					if h == target && bytes.Equal(window[i:i+m], needle) {
						return true, nil
					}
					if i+m >= len(window) {
						break
					}
					h = (h-uint64(window[i])*pow)*rkBase + uint64(window[i+m])
				}
				// Carry the tail so a match can straddle the boundary.
				carry := len(window) - (m - 1)
				window = append(window[:0], window[carry:]...)
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, nil
		}
	}
}

func lowerASCII(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
}

// contentCacheKey identifies one scan outcome. Size and mtime invalidate
// the entry when the file changes.
type contentCacheKey struct {
	path      string
	size      int64
	mtimeUnix int64
	needle    string
}

// contentCache memoizes content-scan verdicts across queries.
type contentCache struct {
	lru *lru.Cache[contentCacheKey, bool]
}

func newContentCache(size int) *contentCache {
	c, err := lru.New[contentCacheKey, bool](size)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &contentCache{lru: c}
}

func (c *contentCache) get(key contentCacheKey) (bool, bool) {
	return c.lru.Get(key)
}

func (c *contentCache) put(key contentCacheKey, matched bool) {
	c.lru.Add(key, matched)
}
