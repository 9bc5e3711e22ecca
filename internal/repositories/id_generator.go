package repositories

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FirstProductID is assigned when the catalog is empty.
const FirstProductID = "000001"

const fallbackIDLength = 6

// NextProductID derives the ID following lastID, the greatest existing ID in
// descending lexicographic order. found is false for an empty catalog.
//
// IDs made only of decimal digits are incremented and zero-padded to six
// digits. Anything else, including a leading sign or a value past the int32
// range, yields a random six character uppercase hex ID; uniqueness is then
// left to the store's primary key.
func NextProductID(lastID string, found bool) string {
	if !found {
		return FirstProductID
	}
	if n, err := strconv.ParseUint(lastID, 10, 31); err == nil {
		return fmt.Sprintf("%06d", n+1)
	}
	return randomProductID()
}

func randomProductID() string {
	return strings.ToUpper(uuid.New().String())[:fallbackIDLength]
}
