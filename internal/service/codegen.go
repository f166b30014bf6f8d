package service

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
	mrand "math/rand"
	"strings"
	"time"
)

// GeneratePIN returns a 12-digit recharge PIN. The first digit is never
// zero so the printed PIN keeps its full width.
func GeneratePIN() string {
	n := randomInt64(900000000000) + 100000000000
	return fmt.Sprintf("%012d", n)
}

// GenerateSerialNumber returns a serial of the form PREFIX + 6 time
// digits + 4 random digits. The prefix is the first three characters of
// the network id, uppercased.
func GenerateSerialNumber(network string, now time.Time) string {
	prefix := strings.ToUpper(network)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	millis := now.UnixMilli() % 1000000
	random := randomInt64(9000) + 1000
	return fmt.Sprintf("%s%06d%04d", prefix, millis, random)
}

// generateBatchNo builds a batch number from the commit time plus a
// random suffix.
func generateBatchNo(now time.Time) string {
	return fmt.Sprintf("BATCH-%s-%04d", now.Format("20060102150405"), randomInt64(10000))
}

// randomInt64 returns a uniform value in [0, max), preferring
// crypto/rand with a time-seeded fallback.
func randomInt64(max int64) int64 {
	if max <= 0 {
		return 0
	}
	n, err := crand.Int(crand.Reader, big.NewInt(max))
	if err != nil {
		rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
		return rng.Int63n(max)
	}
	return n.Int64()
}
