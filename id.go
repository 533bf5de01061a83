package beacon

import "github.com/xraph/beacon/id"

// ID is the primary identifier type for all Beacon entities.
type ID = id.ID

// Prefix identifies the entity type encoded in a TypeID.
type Prefix = id.Prefix
