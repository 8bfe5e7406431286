package models

import "time"

type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	// BarcodeNumber stays NULL until a barcode is generated, so the unique
	// index only applies to generated numbers.
	BarcodeImage  string  `gorm:"size:512" json:"barcode_image"`
	BarcodeNumber *string `gorm:"size:13;uniqueIndex" json:"barcode_number"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) HasBarcode() bool {
	return t.BarcodeImage != "" && t.BarcodeNumber != nil
}
