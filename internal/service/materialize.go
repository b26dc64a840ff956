package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mrleocoder/coderbds/internal/model"
)

// PricePerSqm is price / area rounded to two decimals; nil when the area
// is not positive.
func PricePerSqm(price, area float64) *float64 {
	if area <= 0 {
		return nil
	}
	v := decimal.NewFromFloat(price).
		DivRound(decimal.NewFromFloat(area), 2).
		InexactFloat64()
	return &v
}

// Materialize maps an approved post onto its public listing. The listing
// reuses the post id and starts with zero views. News posts have no target.
func Materialize(p *model.MemberPost, at time.Time) (model.Listing, error) {
	switch p.PostType {
	case model.PostProperty:
		return &model.Property{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			PropertyType: p.PropertyType,
			Status:       listingStatus(p.PropertyStatus),
			Price:        p.Price,
			PricePerSqm:  PricePerSqm(p.Price, p.Area),
			Area:         p.Area,
			Bedrooms:     p.Bedrooms,
			Bathrooms:    p.Bathrooms,
			Address:      p.Address,
			District:     p.District,
			City:         p.City,
			Images:       nonNil(p.Images),
			Featured:     p.Featured,
			ContactPhone: p.ContactPhone,
			ContactEmail: p.ContactEmail,
			CreatedAt:    at,
			UpdatedAt:    at,
		}, nil
	case model.PostLand:
		return &model.Land{
			ID:           p.ID,
			Title:        p.Title,
			Description:  p.Description,
			LandType:     p.LandType,
			Status:       listingStatus(p.PropertyStatus),
			Price:        p.Price,
			PricePerSqm:  PricePerSqm(p.Price, p.Area),
			Area:         p.Area,
			Width:        p.Width,
			Length:       p.Length,
			Address:      p.Address,
			District:     p.District,
			City:         p.City,
			LegalStatus:  p.LegalStatus,
			Orientation:  p.Orientation,
			RoadWidth:    p.RoadWidth,
			Images:       nonNil(p.Images),
			Featured:     p.Featured,
			ContactPhone: p.ContactPhone,
			ContactEmail: p.ContactEmail,
			CreatedAt:    at,
			UpdatedAt:    at,
		}, nil
	case model.PostSim:
		return &model.Sim{
			ID:           p.ID,
			Title:        p.Title,
			PhoneNumber:  p.PhoneNumber,
			Network:      p.Network,
			SimType:      p.SimType,
			Price:        p.Price,
			IsVIP:        p.IsVIP,
			Features:     nonNil(p.Features),
			Description:  p.Description,
			Status:       model.SimAvailable,
			Featured:     p.Featured,
			ContactPhone: p.ContactPhone,
			CreatedAt:    at,
			UpdatedAt:    at,
		}, nil
	case model.PostNews:
		return nil, ErrNoListingTarget
	}
	return nil, invalid("post_type", fmt.Sprintf("unknown post type %q", p.PostType))
}

func listingStatus(s model.ListingStatus) model.ListingStatus {
	if s == "" {
		return model.ForSale
	}
	return s
}

func nonNil(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
