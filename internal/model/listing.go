package model

import "time"

type PropertyType string

const (
	PropertyApartment PropertyType = "apartment"
	PropertyHouse     PropertyType = "house"
	PropertyVilla     PropertyType = "villa"
	PropertyShophouse PropertyType = "shophouse"
	PropertyOffice    PropertyType = "office"
	PropertyLand      PropertyType = "land"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyApartment, PropertyHouse, PropertyVilla, PropertyShophouse, PropertyOffice, PropertyLand:
		return true
	}
	return false
}

// ListingStatus is the market status of a property or land parcel.
type ListingStatus string

const (
	ForSale ListingStatus = "for_sale"
	ForRent ListingStatus = "for_rent"
	Sold    ListingStatus = "sold"
	Rented  ListingStatus = "rented"
)

func (s ListingStatus) Valid() bool {
	switch s {
	case ForSale, ForRent, Sold, Rented:
		return true
	}
	return false
}

type LandType string

const (
	LandResidential  LandType = "residential"
	LandCommercial   LandType = "commercial"
	LandIndustrial   LandType = "industrial"
	LandAgricultural LandType = "agricultural"
)

func (t LandType) Valid() bool {
	switch t {
	case LandResidential, LandCommercial, LandIndustrial, LandAgricultural:
		return true
	}
	return false
}

type SimStatus string

const (
	SimAvailable SimStatus = "available"
	SimSold      SimStatus = "sold"
)

// Listing is a public record in one of the three listing stores.
type Listing interface {
	ListingID() string
	Kind() PostType
}

type Property struct {
	ID           string        `bson:"_id" json:"id"`
	Title        string        `bson:"title" json:"title"`
	Description  string        `bson:"description" json:"description"`
	PropertyType PropertyType  `bson:"property_type" json:"property_type"`
	Status       ListingStatus `bson:"status" json:"status"`
	Price        float64       `bson:"price" json:"price"`
	PricePerSqm  *float64      `bson:"price_per_sqm,omitempty" json:"price_per_sqm,omitempty"`
	Area         float64       `bson:"area" json:"area"` // m2
	Bedrooms     int           `bson:"bedrooms" json:"bedrooms"`
	Bathrooms    int           `bson:"bathrooms" json:"bathrooms"`
	Address      string        `bson:"address" json:"address"`
	District     string        `bson:"district" json:"district"`
	City         string        `bson:"city" json:"city"`
	Latitude     *float64      `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude    *float64      `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Images       []string      `bson:"images" json:"images"`
	Featured     bool          `bson:"featured" json:"featured"`
	ContactPhone string        `bson:"contact_phone" json:"contact_phone"`
	ContactEmail string        `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	AgentName    string        `bson:"agent_name,omitempty" json:"agent_name,omitempty"`
	Views        int           `bson:"views" json:"views"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

func (p *Property) ListingID() string { return p.ID }
func (p *Property) Kind() PostType    { return PostProperty }

type Land struct {
	ID           string        `bson:"_id" json:"id"`
	Title        string        `bson:"title" json:"title"`
	Description  string        `bson:"description" json:"description"`
	LandType     LandType      `bson:"land_type" json:"land_type"`
	Status       ListingStatus `bson:"status" json:"status"`
	Price        float64       `bson:"price" json:"price"`
	PricePerSqm  *float64      `bson:"price_per_sqm,omitempty" json:"price_per_sqm,omitempty"`
	Area         float64       `bson:"area" json:"area"`
	Width        float64       `bson:"width" json:"width"`
	Length       float64       `bson:"length" json:"length"`
	Address      string        `bson:"address" json:"address"`
	District     string        `bson:"district" json:"district"`
	City         string        `bson:"city" json:"city"`
	LegalStatus  string        `bson:"legal_status" json:"legal_status"`
	Orientation  string        `bson:"orientation" json:"orientation"`
	RoadWidth    float64       `bson:"road_width" json:"road_width"`
	Images       []string      `bson:"images" json:"images"`
	Featured     bool          `bson:"featured" json:"featured"`
	ContactPhone string        `bson:"contact_phone" json:"contact_phone"`
	ContactEmail string        `bson:"contact_email,omitempty" json:"contact_email,omitempty"`
	AgentName    string        `bson:"agent_name,omitempty" json:"agent_name,omitempty"`
	Views        int           `bson:"views" json:"views"`
	CreatedAt    time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at" json:"updated_at"`
}

func (l *Land) ListingID() string { return l.ID }
func (l *Land) Kind() PostType    { return PostLand }

type Sim struct {
	ID           string    `bson:"_id" json:"id"`
	Title        string    `bson:"title,omitempty" json:"title,omitempty"`
	PhoneNumber  string    `bson:"phone_number" json:"phone_number"`
	Network      string    `bson:"network" json:"network"`   // viettel, mobifone, vinaphone...
	SimType      string    `bson:"sim_type" json:"sim_type"` // prepaid/postpaid
	Price        float64   `bson:"price" json:"price"`
	IsVIP        bool      `bson:"is_vip" json:"is_vip"`
	Features     []string  `bson:"features" json:"features"`
	Description  string    `bson:"description" json:"description"`
	Status       SimStatus `bson:"status" json:"status"`
	Featured     bool      `bson:"featured" json:"featured"`
	ContactPhone string    `bson:"contact_phone,omitempty" json:"contact_phone,omitempty"`
	Views        int       `bson:"views" json:"views"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (s *Sim) ListingID() string { return s.ID }
func (s *Sim) Kind() PostType    { return PostSim }
