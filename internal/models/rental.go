package models

// Rental is owned by the listing service; only ownership is read here.
type Rental struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}
