// Package cache keeps downloaded audio clips on disk so repeated items do not hit the network again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/calcoloergosum/vocagen/filesystem"
	"github.com/calcoloergosum/vocagen/log"
	"github.com/calcoloergosum/vocagen/where"
	"github.com/spf13/afero"
)

// TTL is how long a cached clip stays valid.
const TTL = 7 * 24 * time.Hour

// Dir is where clips are cached.
func Dir() string {
	path := filepath.Join(where.Cache(), "clips")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Key derives a file name from an arbitrary identifier such as a clip URL.
func Key(id string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(id)))
	return hex.EncodeToString(hash[:])
}

// Read returns the cached data for key if present and fresh.
func Read(key string) ([]byte, bool) {
	path := filepath.Join(Dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return nil, false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, false
	}

	return data, true
}

// Write stores data under key.
func Write(key string, data []byte) error {
	return filesystem.WriteAtomic(filepath.Join(Dir(), key), data)
}

// CollectGarbage removes expired entries in the background.
func CollectGarbage() {
	go func() {
		removed := 0
		_ = afero.Walk(filesystem.API(), Dir(), func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() {
				return nil
			}
			if time.Since(info.ModTime()) > TTL {
				if filesystem.API().Remove(path) == nil {
					removed++
				}
			}
			return nil
		})

		if removed > 0 {
			log.Debugf("removed %d expired clips from cache", removed)
		}
	}()
}
