package object

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// LocatorKind selects how a Locator identifies an object.
type LocatorKind int

const (
	ByID LocatorKind = iota + 1
	ByHandle
	ByUUID
)

func (k LocatorKind) String() string {
	switch k {
	case ByID:
		return "id"
	case ByHandle:
		return "handle"
	case ByUUID:
		return "uuid"
	}
	return "unknown"
}

// Locator identifies one registry entry of a known object type.
type Locator struct {
	kind   LocatorKind
	id     uint64
	handle string
	uuid   uuid.UUID
}

// WithID locates an object by its numeric registry id.
func WithID(id uint64) Locator {
	return Locator{kind: ByID, id: id}
}

// WithHandle locates an object by handle; the case rule is applied when the
// locator is bound to a type.
func WithHandle(handle string) Locator {
	return Locator{kind: ByHandle, handle: handle}
}

// WithUUID locates an object by its registry UUID.
func WithUUID(id uuid.UUID) Locator {
	return Locator{kind: ByUUID, uuid: id}
}

// ParseLocator builds a locator from a kind name ("id", "handle", "uuid") and
// its textual value.
func ParseLocator(kind, value string) (Locator, error) {
	switch kind {
	case ByID.String():
		id, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Locator{}, fmt.Errorf("invalid object id %q: %w", value, err)
		}
		return WithID(id), nil
	case ByHandle.String():
		if value == "" {
			return Locator{}, fmt.Errorf("empty handle")
		}
		return WithHandle(value), nil
	case ByUUID.String():
		id, err := uuid.Parse(value)
		if err != nil {
			return Locator{}, fmt.Errorf("invalid object uuid %q: %w", value, err)
		}
		return WithUUID(id), nil
	}
	return Locator{}, fmt.Errorf("unknown locator kind %q", kind)
}

func (l Locator) Kind() LocatorKind { return l.kind }
func (l Locator) ID() uint64        { return l.id }
func (l Locator) UUID() uuid.UUID   { return l.uuid }

// Handle returns the handle normalized for objects of type t.
func (l Locator) Handle(t Type) string {
	return t.NormalizeHandle(l.handle)
}

// RawHandle returns the handle as supplied.
func (l Locator) RawHandle() string {
	return l.handle
}

func (l Locator) String() string {
	switch l.kind {
	case ByID:
		return "id:" + strconv.FormatUint(l.id, 10)
	case ByHandle:
		return "handle:" + l.handle
	case ByUUID:
		return "uuid:" + l.uuid.String()
	}
	return "unset"
}
