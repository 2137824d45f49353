package builder

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator allocates instance identities for fillings.
type IDGenerator func() string

// UUIDGenerator allocates random version 4 UUIDs.
func UUIDGenerator() IDGenerator {
	return uuid.NewString
}

// SequenceGenerator allocates "<salt>-<n>" identities from a process-local
// counter. Distinct salts keep identities from different builders apart.
func SequenceGenerator(salt string) IDGenerator {
	var counter atomic.Uint64
	return func() string {
		return salt + "-" + strconv.FormatUint(counter.Add(1), 10)
	}
}
