package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. ULIDs are lexicographically sortable
// by creation time, which the OTP table relies on: the newest record for
// a user is simply the highest sort key in the partition.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
