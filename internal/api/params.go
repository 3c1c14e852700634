package api

import (
	"strconv"
	"strings"

	"alcyxob/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func invalidParam(field, message string) error {
	return &service.ValidationError{Fields: map[string]string{field: message}}
}

// pathID parses the named path parameter as an ObjectID.
func pathID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		respondError(c, invalidParam(name, "must be a valid id"))
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryInt returns the named query parameter as an int, or nil when absent.
func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, invalidParam(name, "must be an integer")
	}
	return &v, nil
}

// queryDate returns the named query parameter as a date, or nil when absent.
func queryDate(c *gin.Context, name string) (*service.DateTime, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	d, err := service.ParseDateTime(raw)
	if err != nil {
		return nil, invalidParam(name, "must be a date in yyyy-MM-dd format")
	}
	return &d, nil
}

// pageQuery reads page, size, sortBy and direction. The legacy sortDir
// parameter is accepted when direction is absent. An explicit size below 1
// is rejected; an absent size takes the configured default.
func pageQuery(c *gin.Context) (service.PageQuery, error) {
	var q service.PageQuery

	page, err := queryInt(c, "page")
	if err != nil {
		return q, err
	}
	if page != nil {
		if *page < 0 {
			return q, invalidParam("page", "must be greater than or equal to 0")
		}
		q.Page = *page
	}

	size, err := queryInt(c, "size")
	if err != nil {
		return q, err
	}
	if size != nil {
		if *size < 1 {
			return q, invalidParam("size", "must be greater than or equal to 1")
		}
		q.Size = *size
	}

	q.SortBy = c.Query("sortBy")
	q.Direction = c.Query("direction")
	if q.Direction == "" {
		q.Direction = c.Query("sortDir")
	}
	return q, nil
}
