// Package supplier defines how cart items are attributed to the seller that
// fulfills them.
package supplier

// Key identifies the seller a group of cart items belongs to. It is either
// confirmed (a real supplier identifier) or provisional (derived from a
// product id when no supplier identifier could be determined). Keys are
// comparable and used directly as grouping-map keys.
type Key struct {
	kind kind
	id   string
}

type kind uint8

const (
	kindConfirmed kind = iota + 1
	kindProvisional
)

// Confirmed returns a Key for a known supplier identifier.
func Confirmed(id string) Key {
	return Key{kind: kindConfirmed, id: id}
}

// Provisional returns a fallback Key derived from a product id. Provisional
// keys group at most the items of a single product and are only sent upstream
// as a best-effort identifier when resolution failed.
func Provisional(productID string) Key {
	return Key{kind: kindProvisional, id: productID}
}

// IsConfirmed reports whether the key holds a real supplier identifier.
func (k Key) IsConfirmed() bool { return k.kind == kindConfirmed }

// IsProvisional reports whether the key is a product-derived fallback.
func (k Key) IsProvisional() bool { return k.kind == kindProvisional }

// IsZero reports whether the key is unset.
func (k Key) IsZero() bool { return k.kind == 0 }

// SupplierID returns the confirmed supplier identifier, or "" for
// provisional and zero keys.
func (k Key) SupplierID() string {
	if k.kind == kindConfirmed {
		return k.id
	}
	return ""
}

// ProductID returns the product id a provisional key was derived from, or ""
// for confirmed and zero keys.
func (k Key) ProductID() string {
	if k.kind == kindProvisional {
		return k.id
	}
	return ""
}

// Wire returns the identifier sent to the order endpoint for this key.
// Provisional keys are rendered as "product:<id>" so the upstream service can
// tell them apart from real supplier identifiers.
func (k Key) Wire() string {
	switch k.kind {
	case kindConfirmed:
		return k.id
	case kindProvisional:
		return "product:" + k.id
	default:
		return ""
	}
}

// String implements fmt.Stringer for logging.
func (k Key) String() string { return k.Wire() }
