package utils

import (
	"crypto/rand"
	"encoding/hex"
	"hash/fnv"
	mrand "math/rand"
	"strconv"
)

// GenerateID возвращает prefix + 16 hex-символов криптослучайности (ID событий и запросов).
func GenerateID(prefix string) string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate random ID: " + err.Error())
	}
	return prefix + hex.EncodeToString(b)
}

// NewRand возвращает детерминированный источник для seed != 0 и криптозасеянный иначе.
func NewRand(seed int64) *mrand.Rand {
	if seed == 0 {
		var b [8]byte
		if _, err := rand.Read(b[:]); err == nil {
			for _, v := range b {
				seed = seed<<8 | int64(v)
			}
		}
	}
	return mrand.New(mrand.NewSource(seed))
}

// SeedFromString выводит стабильный seed из имени (например, ID комнаты).
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}

// ParseSeed читает числовой seed, а все остальное хеширует через SeedFromString.
func ParseSeed(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return SeedFromString(s)
}
