package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// PropertyType is the deal kind of a listing.
type PropertyType uint8

const (
	_ PropertyType = iota
	TypeBuy
	TypeSell
	TypeRent
)

var propertyTypeNames = []string{"", "BUY", "SELL", "RENT"}

// ListingStatus is the availability of a listing.
type ListingStatus uint8

const (
	_ ListingStatus = iota
	StatusAvailable
	StatusSold
	StatusRented
	StatusPending
)

var listingStatusNames = []string{"", "AVAILABLE", "SOLD", "RENTED", "PENDING"}

// Role classifies an account.
type Role uint8

const (
	_ Role = iota
	RoleAdmin
	RoleAgent
)

var roleNames = []string{"", "ADMIN", "AGENT"}

// Zero values are unnamed: an unset field never reads as a real variant.
type enum interface {
	~uint8
}

func enumName[T enum](names []string, v T) string {
	if int(v) <= 0 || int(v) >= len(names) {
		return ""
	}
	return names[v]
}

func parseEnum[T enum](kind string, names []string, s string) (T, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i := 1; i < len(names); i++ {
		if names[i] == s {
			return T(i), nil
		}
	}
	return 0, Invalid(kind, fmt.Sprintf("must be one of %s", strings.Join(names[1:], ", ")))
}

func scanEnum[T enum](kind string, names []string, src any) (T, error) {
	switch v := src.(type) {
	case string:
		return parseEnum[T](kind, names, v)
	case []byte:
		return parseEnum[T](kind, names, string(v))
	case nil:
		return 0, fmt.Errorf("scan %s: null", kind)
	default:
		return 0, fmt.Errorf("scan %s: unsupported type %T", kind, src)
	}
}

func ParsePropertyType(s string) (PropertyType, error) {
	return parseEnum[PropertyType]("property_type", propertyTypeNames, s)
}

func (t PropertyType) String() string { return enumName(propertyTypeNames, t) }
func (t PropertyType) Valid() bool    { return t.String() != "" }

func (t PropertyType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid property type %d", t)
	}
	return []byte(t.String()), nil
}

func (t *PropertyType) UnmarshalText(b []byte) error {
	v, err := ParsePropertyType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t *PropertyType) Scan(src any) error {
	v, err := scanEnum[PropertyType]("property_type", propertyTypeNames, src)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t PropertyType) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid property type %d", t)
	}
	return t.String(), nil
}

func ParseListingStatus(s string) (ListingStatus, error) {
	return parseEnum[ListingStatus]("status", listingStatusNames, s)
}

func (s ListingStatus) String() string { return enumName(listingStatusNames, s) }
func (s ListingStatus) Valid() bool    { return s.String() != "" }

func (s ListingStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid listing status %d", s)
	}
	return []byte(s.String()), nil
}

func (s *ListingStatus) UnmarshalText(b []byte) error {
	v, err := ParseListingStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s *ListingStatus) Scan(src any) error {
	v, err := scanEnum[ListingStatus]("status", listingStatusNames, src)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (s ListingStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid listing status %d", s)
	}
	return s.String(), nil
}

func ParseRole(s string) (Role, error) {
	return parseEnum[Role]("role", roleNames, s)
}

func (r Role) String() string { return enumName(roleNames, r) }
func (r Role) Valid() bool    { return r.String() != "" }

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	v, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r *Role) Scan(src any) error {
	v, err := scanEnum[Role]("role", roleNames, src)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", r)
	}
	return r.String(), nil
}
