package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultOrderAvailable  = 20
	DefaultPeopleAvailable = 20
	DefaultLimitTime       = 2
)

type Restaurant struct {
	gorm.Model
	OwnerID      uint           `json:"ownerID" gorm:"not null;index"`
	Owner        *User          `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name         string         `json:"name" gorm:"not null;index"`
	Province     string         `json:"province" gorm:"index"`
	ProvinceCode string         `json:"provinceCode"`
	District     string         `json:"district"`
	DistrictCode string         `json:"districtCode"`
	AddressLine  string         `json:"addressLine"`
	PriceFrom    float64        `json:"priceFrom"`
	PriceTo      float64        `json:"priceTo"`
	Types        datatypes.JSON `json:"types"`
	MainImage    string         `json:"mainImage"`
	Gallery      datatypes.JSON `json:"gallery"`
	OpenTime     string         `json:"openTime"`
	CloseTime    string         `json:"closeTime"`
	Description  string         `json:"description" gorm:"type:text"`
	Rating       float64        `json:"rating" gorm:"default:0"`
	Lat          float64        `json:"lat"`
	Lng          float64        `json:"lng"`

	// Capacity configuration used by the booking check.
	OrderAvailable  int `json:"orderAvailable" gorm:"default:20"`
	PeopleAvailable int `json:"peopleAvailable" gorm:"default:20"`
	LimitTime       int `json:"limitTime" gorm:"default:2"` // hours
	BookingCount    int `json:"bookingCount" gorm:"default:0"`

	// Receiving account for bank transfer QR payments.
	BankAcqID       string `json:"bankAcqID"`
	BankAccountNo   string `json:"bankAccountNo"`
	BankAccountName string `json:"bankAccountName"`

	MenuItems  []MenuItem  `json:"menuItems,omitempty" gorm:"foreignKey:RestaurantID"`
	Promotions []Promotion `json:"promotions,omitempty" gorm:"foreignKey:RestaurantID"`
}

// ApplyCapacityDefaults fills zero capacity settings with the defaults a new restaurant starts with.
func (r *Restaurant) ApplyCapacityDefaults() {
	if r.OrderAvailable <= 0 {
		r.OrderAvailable = DefaultOrderAvailable
	}
	if r.PeopleAvailable <= 0 {
		r.PeopleAvailable = DefaultPeopleAvailable
	}
	if r.LimitTime <= 0 {
		r.LimitTime = DefaultLimitTime
	}
}

func (r *Restaurant) MarshalJSON() ([]byte, error) {
	type Alias Restaurant
	aux := &struct {
		Types   []string `json:"types"`
		Gallery []string `json:"gallery"`
		*Alias
	}{
		Types:   []string{},
		Gallery: []string{},
		Alias:   (*Alias)(r),
	}

	if r.Types != nil {
		var types []string
		if err := json.Unmarshal(r.Types, &types); err == nil {
			aux.Types = types
		}
	}
	if r.Gallery != nil {
		var gallery []string
		if err := json.Unmarshal(r.Gallery, &gallery); err == nil {
			aux.Gallery = gallery
		}
	}

	return json.Marshal(aux)
}
