package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrleocoder/coderbds/internal/middleware"
	"github.com/mrleocoder/coderbds/internal/model"
	"github.com/mrleocoder/coderbds/internal/repository"
	"github.com/mrleocoder/coderbds/internal/service"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// respondError maps service errors onto status codes and {"error": ...}
// bodies. Anything unrecognised is logged and reported as a 500.
func respondError(c *gin.Context, err error) {
	var (
		ib *service.InsufficientBalanceError
		ve *service.ValidationError
		ce *service.ConflictError
	)
	switch {
	case errors.As(err, &ib):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     ib.Error(),
			"required":  ib.Required,
			"available": ib.Available,
		})
	case errors.As(err, &ve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Error()})
	case errors.Is(err, service.ErrNoListingTarget):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": service.ErrNoListingTarget.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrUnauthorized.Error()})
	case errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrAccountInactive.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrForbidden.Error()})
	case errors.Is(err, service.ErrPostLocked):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrPostLocked.Error()})
	case errors.Is(err, service.ErrPostUndeletable):
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrPostUndeletable.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, gin.H{"error": ce.Reason})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		log.Printf("[handler] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// bindJSON binds the body and answers 422 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid payload: " + err.Error()})
		return false
	}
	return true
}

func mustUser(c *gin.Context) *model.User {
	u, _ := middleware.CurrentUser(c)
	return u
}

// page reads skip and limit; limit defaults to 20 and is capped at capAt.
func page(c *gin.Context, capAt int64) (repository.Page, error) {
	skip, err := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)
	if err != nil || skip < 0 {
		return repository.Page{}, &service.ValidationError{Field: "skip", Reason: "must be a non-negative integer"}
	}
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)), 10, 64)
	if err != nil || limit < 1 {
		return repository.Page{}, &service.ValidationError{Field: "limit", Reason: "must be a positive integer"}
	}
	if limit > capAt {
		limit = capAt
	}
	return repository.Page{Skip: skip, Limit: limit}, nil
}

// query helpers return nil when the parameter is absent.

func optFloat(c *gin.Context, key string) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Reason: "must be a number"}
	}
	return &f, nil
}

func optInt(c *gin.Context, key string) (*int, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Reason: "must be an integer"}
	}
	return &n, nil
}

func optBool(c *gin.Context, key string) (*bool, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, &service.ValidationError{Field: key, Reason: "must be true or false"}
	}
	return &b, nil
}

func sortParams(c *gin.Context) (repository.Sort, error) {
	field := c.DefaultQuery("sort_by", "created_at")
	switch field {
	case "created_at", "price", "area", "views":
	default:
		return repository.Sort{}, &service.ValidationError{Field: "sort_by", Reason: "must be created_at, price, area or views"}
	}
	switch c.DefaultQuery("order", "desc") {
	case "asc":
		return repository.Sort{Field: field, Asc: true}, nil
	case "desc":
		return repository.Sort{Field: field}, nil
	}
	return repository.Sort{}, &service.ValidationError{Field: "order", Reason: "must be asc or desc"}
}

// firstErr returns the first non-nil error.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
