// internal/api/request.go
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gurkanbulca/workdesk/internal/models"
	"github.com/gurkanbulca/workdesk/internal/repository"
	"github.com/gurkanbulca/workdesk/internal/service"
)

const dateLayout = "2006-01-02"

// jsonTime accepts RFC 3339 timestamps and plain dates. An empty string
// decodes to the zero time, which callers treat as "no value".
type jsonTime struct {
	time.Time
}

func (t *jsonTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := parseTime(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, &service.ValidationError{Field: "date", Message: "must be RFC 3339 or YYYY-MM-DD"}
	}
	return parsed, nil
}

func (t *jsonTime) ptr() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

func optionalTime(o models.Optional[jsonTime]) models.Optional[time.Time] {
	if !o.Set {
		return models.Optional[time.Time]{}
	}
	if o.Value == nil || o.Value.IsZero() {
		return models.Null[time.Time]()
	}
	return models.Some(o.Value.Time)
}

// parseID turns an optional id from a request body into a uuid. Empty
// strings mean "no reference".
func parseID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, &service.ValidationError{Field: field, Message: "must be a valid id"}
	}
	return &id, nil
}

func optionalID(field string, o models.Optional[string]) (models.Optional[uuid.UUID], error) {
	if !o.Set {
		return models.Optional[uuid.UUID]{}, nil
	}
	id, err := parseID(field, o.Value)
	if err != nil {
		return models.Optional[uuid.UUID]{}, err
	}
	if id == nil {
		return models.Null[uuid.UUID](), nil
	}
	return models.Some(*id), nil
}

func optionalEnum[T ~string](o models.Optional[string]) models.Optional[T] {
	if !o.Set {
		return models.Optional[T]{}
	}
	if o.Value == nil {
		return models.Null[T]()
	}
	return models.Some(T(*o.Value))
}

// bindJSON decodes the request body into dst. It writes a 400 and returns
// false when the body is not valid JSON for dst.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeError(c, verr)
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"field":   "body",
			"message": err.Error(),
		})
		return false
	}
	return true
}

// pathID parses a uuid path parameter. Anything unparsable cannot name a
// record, so it is reported as not found.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		writeError(c, service.ErrNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// pagination returns nil unless page or limit was supplied.
func pagination(c *gin.Context) (*repository.Pagination, error) {
	rawPage, hasPage := c.GetQuery("page")
	rawLimit, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		return nil, nil
	}

	var p repository.Pagination
	var err error
	if hasPage && rawPage != "" {
		if p.Page, err = strconv.Atoi(rawPage); err != nil || p.Page < 1 {
			return nil, &service.ValidationError{Field: "page", Message: "must be a positive integer"}
		}
	}
	if hasLimit && rawLimit != "" {
		if p.Limit, err = strconv.Atoi(rawLimit); err != nil || p.Limit < 1 {
			return nil, &service.ValidationError{Field: "limit", Message: "must be a positive integer"}
		}
	}
	p = p.Normalize()
	return &p, nil
}

func queryID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	return parseID(name, &raw)
}

func queryEnum[T ~string](c *gin.Context, name string) *T {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v := T(raw)
	return &v
}

func taskFilter(c *gin.Context) (repository.TaskFilter, error) {
	filter := repository.TaskFilter{
		Status:   queryEnum[models.TaskStatus](c, "status"),
		Priority: queryEnum[models.Priority](c, "priority"),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	var err error
	if filter.ProjectID, err = queryID(c, "projectId"); err != nil {
		return filter, err
	}
	if filter.ClientID, err = queryID(c, "clientId"); err != nil {
		return filter, err
	}
	return filter, nil
}

// respondList writes a plain array, or a page envelope when the request
// asked for pagination.
func respondList[T any](c *gin.Context, items []T, total int, page *repository.Pagination) {
	if page == nil {
		if items == nil {
			items = []T{}
		}
		c.JSON(http.StatusOK, items)
		return
	}
	c.JSON(http.StatusOK, models.NewPage(items, total, page.Page, page.Limit))
}
