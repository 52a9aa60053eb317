package data

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// ParseID converts a caller-supplied id string into a bson.ObjectID.
// Every store parses ids through this before querying so malformed input
// fails with ErrInvalidID instead of silently matching nothing.
func ParseID(s string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(strings.TrimSpace(s))
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}
