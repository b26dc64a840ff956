package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/service"
)

// ListingHandler serves one public catalogue (properties, lands, sims or
// news) and its admin CRUD.
type ListingHandler[T any, F any] struct {
	Catalog *service.Catalog[T, F]
	// Filter builds the store filter from the query string.
	Filter func(c *gin.Context) (F, error)
	Noun   string
}

// RegisterRoutes mounts GET /<path>, GET /<path>/:id on public and
// POST/PUT/DELETE on admin.
func (h *ListingHandler[T, F]) RegisterRoutes(public, admin *gin.RouterGroup, path string) {
	public.GET(path, h.List)
	public.GET(path+"/:id", h.Get)
	admin.POST(path, h.Create)
	admin.PUT(path+"/:id", h.Update)
	admin.DELETE(path+"/:id", h.Delete)
}

// GET /api/<path>?...&skip=&limit=
func (h *ListingHandler[T, F]) List(c *gin.Context) {
	f, err := h.Filter(c)
	if err != nil {
		respondError(c, err)
		return
	}
	list, err := h.Catalog.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/<path>/:id
func (h *ListingHandler[T, F]) Get(c *gin.Context) {
	v, err := h.Catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ListingHandler[T, F]) Create(c *gin.Context) {
	var v T
	if !bindJSON(c, &v) {
		return
	}
	created, err := h.Catalog.Create(c.Request.Context(), &v)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// PUT /api/<path>/:id: fields missing from the body keep their values.
func (h *ListingHandler[T, F]) Update(c *gin.Context) {
	updated, err := h.Catalog.Update(c.Request.Context(), c.Param("id"), func(v *T) error {
		return c.ShouldBindJSON(v)
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ListingHandler[T, F]) Delete(c *gin.Context) {
	if err := h.Catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.Noun + " deleted successfully"})
}

// Featured serves GET /api/properties/featured (limit defaults to 6, max 20).
func Featured(catalog *service.Catalog[model.Property, repository.PropertyFilter]) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(6)
		if v := c.Query("limit"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || n < 1 {
				respondError(c, &service.ValidationError{Field: "limit", Reason: "must be a positive integer"})
				return
			}
			limit = min(n, 20)
		}
		featured := true
		f := repository.PropertyFilter{Featured: &featured, Page: repository.Page{Limit: limit}}
		list, err := catalog.List(c.Request.Context(), f)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func PropertyFilter(c *gin.Context) (repository.PropertyFilter, error) {
	p, errPage := page(c, maxLimit)
	s, errSort := sortParams(c)
	minPrice, e1 := optFloat(c, "min_price")
	maxPrice, e2 := optFloat(c, "max_price")
	minArea, e3 := optFloat(c, "min_area")
	maxArea, e4 := optFloat(c, "max_area")
	bedrooms, e5 := optInt(c, "bedrooms")
	bathrooms, e6 := optInt(c, "bathrooms")
	featured, e7 := optBool(c, "featured")
	if err := firstErr(errPage, errSort, e1, e2, e3, e4, e5, e6, e7); err != nil {
		return repository.PropertyFilter{}, err
	}
	return repository.PropertyFilter{
		PropertyType: model.PropertyType(c.Query("property_type")),
		Status:       model.ListingStatus(c.Query("status")),
		City:         c.Query("city"),
		District:     c.Query("district"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		MinArea:      minArea,
		MaxArea:      maxArea,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		Featured:     featured,
		Sort:         s,
		Page:         p,
	}, nil
}

func LandFilter(c *gin.Context) (repository.LandFilter, error) {
	p, errPage := page(c, maxLimit)
	s, errSort := sortParams(c)
	minPrice, e1 := optFloat(c, "min_price")
	maxPrice, e2 := optFloat(c, "max_price")
	minArea, e3 := optFloat(c, "min_area")
	maxArea, e4 := optFloat(c, "max_area")
	featured, e5 := optBool(c, "featured")
	if err := firstErr(errPage, errSort, e1, e2, e3, e4, e5); err != nil {
		return repository.LandFilter{}, err
	}
	return repository.LandFilter{
		LandType: model.LandType(c.Query("land_type")),
		Status:   model.ListingStatus(c.Query("status")),
		City:     c.Query("city"),
		District: c.Query("district"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		MinArea:  minArea,
		MaxArea:  maxArea,
		Featured: featured,
		Sort:     s,
		Page:     p,
	}, nil
}

func SimFilter(c *gin.Context) (repository.SimFilter, error) {
	p, errPage := page(c, maxLimit)
	s, errSort := sortParams(c)
	isVIP, e1 := optBool(c, "is_vip")
	minPrice, e2 := optFloat(c, "min_price")
	maxPrice, e3 := optFloat(c, "max_price")
	featured, e4 := optBool(c, "featured")
	if err := firstErr(errPage, errSort, e1, e2, e3, e4); err != nil {
		return repository.SimFilter{}, err
	}
	return repository.SimFilter{
		Network:  c.Query("network"),
		SimType:  c.Query("sim_type"),
		IsVIP:    isVIP,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Featured: featured,
		Sort:     s,
		Page:     p,
	}, nil
}

// NewsFilter lists published articles unless published=false is asked for.
func NewsFilter(c *gin.Context) (repository.NewsFilter, error) {
	p, errPage := page(c, 50)
	published, errPub := optBool(c, "published")
	if err := firstErr(errPage, errPub); err != nil {
		return repository.NewsFilter{}, err
	}
	if published == nil {
		t := true
		published = &t
	}
	return repository.NewsFilter{Category: c.Query("category"), Published: published, Page: p}, nil
}
