package common

// Ticket is the stored weighbridge record. ID is assigned by the store.
type Ticket struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp     int64  `gorm:"not null" json:"timestamp"`
	LicenseNumber string `gorm:"size:64;index" json:"license_number"`
	DriverName    string `gorm:"size:255" json:"driver_name"`
	InWeight      int64  `json:"in_weight"`
	OutWeight     int64  `json:"out_weight"`
}

func (Ticket) TableName() string {
	return "tickets"
}
