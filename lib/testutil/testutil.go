package testutil

import (
	"fmt"
	"math/rand"
	"testing"

	"classfinder-backend/lib/telemetry"

	"github.com/mazen160/go-random"
)

// Setup wires slog/otel for a package's tests and returns a cleanup func.
func Setup(t testing.TB, name string) func() {
	return telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", name))
}

// RandomNRP generates a plausible 10-digit student number from the
// pseudo random source.
func RandomNRP(rndm *rand.Rand) string {
	digits := make([]byte, 10)
	digits[0] = '5'
	for i := 1; i < len(digits); i++ {
		digits[i] = byte('0' + rndm.Intn(10))
	}
	return string(digits)
}

// RandomSessionID generates an opaque token shaped like a PHPSESSID.
func RandomSessionID(t testing.TB) string {
	token, err := random.String(26)
	if err != nil {
		t.Fatal(err)
	}
	return token
}
