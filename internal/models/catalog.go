package models

// Tag, MeasurementUnit and Ingredient are reference data loaded by the
// import commands and never changed through the API.

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}

type MeasurementUnit struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:200;uniqueIndex;not null" json:"name"`
}

type Ingredient struct {
	ID                uint            `gorm:"primarykey" json:"id"`
	Name              string          `gorm:"size:200;uniqueIndex;not null" json:"name"`
	MeasurementUnitID uint            `gorm:"not null;index" json:"measurement_unit_id"`
	MeasurementUnit   MeasurementUnit `gorm:"constraint:OnDelete:RESTRICT" json:"measurement_unit"`
}
