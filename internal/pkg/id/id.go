package id

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewToken returns a random UUID used as both confirmation token and
// subscription id.
func NewToken() string {
	return uuid.NewString()
}

// NewMessageID returns an RFC 5322 Message-ID for the given host. The local
// part is a ULID, so ids sort by send time in mail logs.
func NewMessageID(host string) string {
	return fmt.Sprintf("<%s@%s>", ulid.MustNew(ulid.Now(), rand.Reader).String(), host)
}
