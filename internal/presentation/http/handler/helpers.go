package handler

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/request"
	"github.com/sangkips/billbook-api/internal/presentation/http/dto/response"
	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/sangkips/billbook-api/pkg/pagination"
)

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) *uuid.UUID {
	userIDVal, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	userID, ok := userIDVal.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// requireUser writes a 401 and returns false when the request is anonymous
func requireUser(c *gin.Context) (uuid.UUID, bool) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return uuid.Nil, false
	}
	return *userID, true
}

// bindJSON decodes the body into req. Malformed JSON is a 400; failed
// binding rules are reported as field errors.
func bindJSON(c *gin.Context, req interface{}) bool {
	return bindWith(c, c.ShouldBindJSON(req))
}

// bindQuery decodes the query string into req
func bindQuery(c *gin.Context, req interface{}) bool {
	return bindWith(c, c.ShouldBindQuery(req))
}

func bindWith(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   jsonFieldName(fe),
				Message: validationMessage(fe),
			})
		}
		response.Error(c, apperror.NewValidationError(fields))
		return false
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		response.Error(c, apperror.NewFieldError(typeErr.Field, "has the wrong type"))
		return false
	}
	if errors.As(err, &syntaxErr) {
		response.BadRequest(c, "Malformed JSON body")
		return false
	}
	response.BadRequest(c, "Invalid request body")
	return false
}

// jsonFieldName converts a struct field name to snake_case, keeping
// acronyms together ("CustomerID" -> "customer_id").
func jsonFieldName(fe validator.FieldError) string {
	runes := []rune(fe.Field())
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			acronymEnd := i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1])
			if prevLower || acronymEnd {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "must match " + strings.ToLower(fe.Param())
	case "datetime":
		return "must be a date formatted as YYYY-MM-DD"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid":
		return "must be a valid id"
	default:
		return "is invalid"
	}
}

// parseDate parses an already validated YYYY-MM-DD string
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(request.DateLayout, value)
	if err != nil {
		return nil
	}
	return &t
}

func parseOptionalDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	return parseDate(*value)
}

func pageParams(page, perPage int) *pagination.PaginationParams {
	p := &pagination.PaginationParams{Page: page, PerPage: perPage}
	p.Validate()
	return p
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}
