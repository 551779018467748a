package api

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/apperror"
)

// fail hands err to the error middleware
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// bindJSON decodes the body into req. Binding failures are reported as
// validation errors naming the offending field.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := snakeCase(fe.Field())
		fail(c, apperror.ValidationFailed(field, field+" failed the "+fe.Tag()+" check"))
		return false
	}
	fail(c, apperror.ValidationFailed("", "malformed request body"))
	return false
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// idParam parses the :id path segment of a resource
func idParam(c *gin.Context, resource string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, apperror.NotFound(resource, c.Param("id")))
		return 0, false
	}
	return uint(id), true
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperror.NotFound("user", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// boolQuery reads a numeric flag: 0 is false, any other number is true.
// Absent parameters yield nil.
func boolQuery(c *gin.Context, name string) (*bool, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, apperror.ValidationFailed(name, name+" must be a number"))
		return nil, false
	}
	v := n != 0
	return &v, true
}
