package domain

import "time"

// CargoType represents the category of goods in a listing.
type CargoType string

const (
	CargoTypeElectronics CargoType = "electronics"
	CargoTypeFurniture   CargoType = "furniture"
	CargoTypeClothing    CargoType = "clothing"
	CargoTypeFood        CargoType = "food"
	CargoTypeMachinery   CargoType = "machinery"
	CargoTypeChemicals   CargoType = "chemicals"
	CargoTypeTextiles    CargoType = "textiles"
	CargoTypeAutomotive  CargoType = "automotive"
	CargoTypeMedical     CargoType = "medical"
	CargoTypeOther       CargoType = "other"
)

// Valid reports whether t is a known cargo category.
func (t CargoType) Valid() bool {
	switch t {
	case CargoTypeElectronics, CargoTypeFurniture, CargoTypeClothing,
		CargoTypeFood, CargoTypeMachinery, CargoTypeChemicals,
		CargoTypeTextiles, CargoTypeAutomotive, CargoTypeMedical, CargoTypeOther:
		return true
	}
	return false
}

// CargoStatus represents the lifecycle state of a listing.
type CargoStatus string

const (
	CargoStatusActive    CargoStatus = "active"
	CargoStatusMatched   CargoStatus = "matched"
	CargoStatusInTransit CargoStatus = "in_transit"
	CargoStatusDelivered CargoStatus = "delivered"
	CargoStatusCancelled CargoStatus = "cancelled"
)

// CargoPriority represents how urgently a shipper needs the cargo moved.
type CargoPriority string

const (
	CargoPriorityLow    CargoPriority = "low"
	CargoPriorityMedium CargoPriority = "medium"
	CargoPriorityHigh   CargoPriority = "high"
	CargoPriorityUrgent CargoPriority = "urgent"
)

// Valid reports whether p is a known priority.
func (p CargoPriority) Valid() bool {
	switch p {
	case CargoPriorityLow, CargoPriorityMedium, CargoPriorityHigh, CargoPriorityUrgent:
		return true
	}
	return false
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the pair lies inside the WGS84 ranges.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// CargoListing represents a shipper's request to move cargo from Origin to Destination.
type CargoListing struct {
	ID                  string
	UserID              string
	CargoType           CargoType
	Origin              string
	Destination         string
	OriginCoords        *Coordinates // nil when the shipper gave no coordinates
	DestinationCoords   *Coordinates
	Weight              float64 // kg
	Volume              float64 // m³
	SpecialRequirements string
	Budget              float64
	PickupDate          time.Time
	DeliveryDate        time.Time
	Status              CargoStatus
	Priority            CargoPriority
	CreatedAt           time.Time
	UpdatedAt           time.Time

	// Owner is populated by repositories that join the users table.
	Owner *User
}

// Route returns the human readable "origin → destination" form.
func (l *CargoListing) Route() string {
	return FormatRoute(l.Origin, l.Destination)
}

// IsReverseOf reports whether l runs exactly opposite to other.
func (l *CargoListing) IsReverseOf(other *CargoListing) bool {
	return l.Origin == other.Destination && l.Destination == other.Origin
}
