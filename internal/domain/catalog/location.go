package catalog

// Location identifies one of the shops. The set is closed: costing tables
// are validated against it at construction time.
type Location string

const (
	// LocationSGN is the primary location. It sells a single size, so its
	// weighting table is fixed rather than derived from price tiers.
	LocationSGN Location = "SGN"
	// LocationNTR is the non-primary express location.
	LocationNTR Location = "NTR"
)

// AllLocations returns the closed set of supported locations
func AllLocations() []Location {
	return []Location{LocationSGN, LocationNTR}
}

// IsValid checks if the location is part of the closed set
func (l Location) IsValid() bool {
	switch l {
	case LocationSGN, LocationNTR:
		return true
	}
	return false
}

// IsPrimary reports whether this is the primary location
func (l Location) IsPrimary() bool {
	return l == LocationSGN
}

// String returns the string representation of Location
func (l Location) String() string {
	return string(l)
}

// Size identifies a drink size tier
type Size string

const (
	SizeS Size = "S"
	SizeM Size = "M"
	SizeL Size = "L"
)

// AllSizes returns the closed set of sizes in ascending order
func AllSizes() []Size {
	return []Size{SizeS, SizeM, SizeL}
}

// IsValid checks if the size is part of the closed set
func (s Size) IsValid() bool {
	switch s {
	case SizeS, SizeM, SizeL:
		return true
	}
	return false
}

// String returns the string representation of Size
func (s Size) String() string {
	return string(s)
}
