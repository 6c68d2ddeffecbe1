package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// NewReference builds a provider reference like MM-DEP-<uuid>. The reference
// is the join key the webhook reconciler matches callbacks against.
func NewReference(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.New().String())
}

// NewElectricityToken generates a 20-digit prepaid token grouped in fours,
// e.g. 1234-5678-9012-3456-7890.
func NewElectricityToken() string {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// NewReceiptNumber generates a school-fees receipt number.
func NewReceiptNumber() string {
	return "RCP-" + strings.ToUpper(uuid.New().String()[:8])
}
