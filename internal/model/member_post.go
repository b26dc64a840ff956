package model

import "time"

type PostType string

const (
	PostProperty PostType = "property"
	PostLand     PostType = "land"
	PostSim      PostType = "sim"
	PostNews     PostType = "news"
)

func (t PostType) Valid() bool {
	switch t {
	case PostProperty, PostLand, PostSim, PostNews:
		return true
	}
	return false
}

type PostStatus string

const (
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
	PostRejected PostStatus = "rejected"
	PostExpired  PostStatus = "expired"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostPending, PostApproved, PostRejected, PostExpired:
		return true
	}
	return false
}

// Editable reports whether the author may still change or withdraw the post.
func (s PostStatus) Editable() bool {
	return s == PostPending || s == PostRejected
}

// PostDraft is the author-controlled part of a member post.
type PostDraft struct {
	Title        string   `json:"title" binding:"required"`
	Description  string   `json:"description"`
	PostType     PostType `json:"post_type" binding:"required"`
	Price        float64  `json:"price"`
	Images       []string `json:"images"`
	ContactPhone string   `json:"contact_phone"`
	ContactEmail string   `json:"contact_email"`

	PropertyType   PropertyType  `json:"property_type"`
	PropertyStatus ListingStatus `json:"property_status"`
	Area           float64       `json:"area"`
	Bedrooms       int           `json:"bedrooms"`
	Bathrooms      int           `json:"bathrooms"`
	Address        string        `json:"address"`
	District       string        `json:"district"`
	City           string        `json:"city"`

	LandType    LandType `json:"land_type"`
	Width       float64  `json:"width"`
	Length      float64  `json:"length"`
	LegalStatus string   `json:"legal_status"`
	Orientation string   `json:"orientation"`
	RoadWidth   float64  `json:"road_width"`

	PhoneNumber string   `json:"phone_number"`
	Network     string   `json:"network"`
	SimType     string   `json:"sim_type"`
	IsVIP       bool     `json:"is_vip"`
	Features    []string `json:"features"`
}

// MemberPost is a member's submission waiting for (or past) moderation.
type MemberPost struct {
	ID           string     `bson:"_id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Description  string     `bson:"description" json:"description"`
	PostType     PostType   `bson:"post_type" json:"post_type"`
	Status       PostStatus `bson:"status" json:"status"`
	AuthorID     string     `bson:"author_id" json:"author_id"`
	Price        float64    `bson:"price" json:"price"`
	Images       []string   `bson:"images" json:"images"`
	ContactPhone string     `bson:"contact_phone" json:"contact_phone"`
	ContactEmail string     `bson:"contact_email,omitempty" json:"contact_email,omitempty"`

	// property
	PropertyType   PropertyType  `bson:"property_type,omitempty" json:"property_type,omitempty"`
	PropertyStatus ListingStatus `bson:"property_status,omitempty" json:"property_status,omitempty"`
	Area           float64       `bson:"area,omitempty" json:"area,omitempty"`
	Bedrooms       int           `bson:"bedrooms,omitempty" json:"bedrooms,omitempty"`
	Bathrooms      int           `bson:"bathrooms,omitempty" json:"bathrooms,omitempty"`
	Address        string        `bson:"address,omitempty" json:"address,omitempty"`
	District       string        `bson:"district,omitempty" json:"district,omitempty"`
	City           string        `bson:"city,omitempty" json:"city,omitempty"`

	// land
	LandType    LandType `bson:"land_type,omitempty" json:"land_type,omitempty"`
	Width       float64  `bson:"width,omitempty" json:"width,omitempty"`
	Length      float64  `bson:"length,omitempty" json:"length,omitempty"`
	LegalStatus string   `bson:"legal_status,omitempty" json:"legal_status,omitempty"`
	Orientation string   `bson:"orientation,omitempty" json:"orientation,omitempty"`
	RoadWidth   float64  `bson:"road_width,omitempty" json:"road_width,omitempty"`

	// sim
	PhoneNumber string   `bson:"phone_number,omitempty" json:"phone_number,omitempty"`
	Network     string   `bson:"network,omitempty" json:"network,omitempty"`
	SimType     string   `bson:"sim_type,omitempty" json:"sim_type,omitempty"`
	IsVIP       bool     `bson:"is_vip,omitempty" json:"is_vip,omitempty"`
	Features    []string `bson:"features,omitempty" json:"features,omitempty"`

	Featured        bool       `bson:"featured" json:"featured"`
	AdminNotes      string     `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	RejectionReason string     `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`
	ApprovedBy      string     `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	ExpiresAt       time.Time  `bson:"expires_at" json:"expires_at"`
	Views           int        `bson:"views" json:"views"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
}

// ApplyDraft overwrites every author-editable field with the draft's values.
func (p *MemberPost) ApplyDraft(d PostDraft) {
	p.Title = d.Title
	p.Description = d.Description
	p.PostType = d.PostType
	p.Price = d.Price
	p.Images = append([]string(nil), d.Images...)
	p.ContactPhone = d.ContactPhone
	p.ContactEmail = d.ContactEmail

	p.PropertyType = d.PropertyType
	p.PropertyStatus = d.PropertyStatus
	p.Area = d.Area
	p.Bedrooms = d.Bedrooms
	p.Bathrooms = d.Bathrooms
	p.Address = d.Address
	p.District = d.District
	p.City = d.City

	p.LandType = d.LandType
	p.Width = d.Width
	p.Length = d.Length
	p.LegalStatus = d.LegalStatus
	p.Orientation = d.Orientation
	p.RoadWidth = d.RoadWidth

	p.PhoneNumber = d.PhoneNumber
	p.Network = d.Network
	p.SimType = d.SimType
	p.IsVIP = d.IsVIP
	p.Features = append([]string(nil), d.Features...)
}
