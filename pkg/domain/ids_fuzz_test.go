//go:build go1.18

package domain

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseIdentity tests that parsing never panics on arbitrary input
// and always returns either a valid identity or an error.
//
// Justification: Trust boundary functions must handle arbitrary input safely.
func FuzzParseIdentity(f *testing.F) {
	f.Add("")
	f.Add("SP2J6ZY48GV1EZ5V2V5RB9MP66SW86PYKKNRV9EJ7")
	f.Add("SP000000000000000000002Q6VF78")
	f.Add("'; DROP TABLE consent_records;--")
	f.Add(string([]byte{0x00, 0x01, 0x02}))
	f.Add("SP2J6ZY48GV1\x00suffix")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseIdentity(input)
		if err == nil {
			roundTrip, err2 := ParseIdentity(id.String())
			if err2 != nil {
				t.Errorf("Valid identity failed round-trip: %v", err2)
			}
			if roundTrip != id {
				t.Error("Round-trip changed identity value")
			}
		}

		if !utf8.ValidString(input) && err == nil {
			t.Error("Non-UTF8 input was accepted")
		}
	})
}

// FuzzParseDataID ensures numeric parsing never panics and round-trips.
func FuzzParseDataID(f *testing.F) {
	f.Add("1")
	f.Add("0")
	f.Add("18446744073709551615")
	f.Add("18446744073709551616")
	f.Add("-1")

	f.Fuzz(func(t *testing.T, input string) {
		id, err := ParseDataID(input)
		if err != nil {
			return
		}
		again, err := ParseDataID(id.String())
		if err != nil || again != id {
			t.Errorf("data id %q failed round-trip", input)
		}
	})
}
