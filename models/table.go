package models

// TableLocation is the seating area a table belongs to.
type TableLocation string

const (
	LocationIndoor  TableLocation = "INDOOR"
	LocationOutdoor TableLocation = "OUTDOOR"
	LocationPatio   TableLocation = "PATIO"
	LocationBar     TableLocation = "BAR"
)

// TableStatus is set administratively and is independent of reservation status.
type TableStatus string

const (
	TableAvailable   TableStatus = "AVAILABLE"
	TableOccupied    TableStatus = "OCCUPIED"
	TableReserved    TableStatus = "RESERVED"
	TableMaintenance TableStatus = "MAINTENANCE"
)

type Table struct {
	ID          uint          `gorm:"column:table_id;primaryKey" json:"tableId"`
	TableNumber int           `gorm:"column:table_number;uniqueIndex;not null" json:"tableNumber"`
	Capacity    int           `gorm:"column:capacity;not null" json:"capacity"`
	Location    TableLocation `gorm:"column:location;type:varchar(20);not null;default:'INDOOR'" json:"location"`
	Status      TableStatus   `gorm:"column:status;type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
}

// Valid reports whether s is one of the known table statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved, TableMaintenance:
		return true
	}
	return false
}

func (l TableLocation) Valid() bool {
	switch l {
	case LocationIndoor, LocationOutdoor, LocationPatio, LocationBar:
		return true
	}
	return false
}
