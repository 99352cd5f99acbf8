package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/pkg/contracts/domain"
)

// DashboardQuery holds the selector parameters shared by the dashboard
// endpoints. Zero values mean "not supplied".
type DashboardQuery struct {
	Year     int    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
	Category string `json:"category" validate:"omitempty,category"`
	Theme    string `json:"theme" validate:"omitempty,theme"`
	Sort     string `json:"sort" validate:"omitempty,oneof=value entity"`
	Format   string `json:"format" validate:"omitempty,oneof=csv xlsx"`
}

// QueryValidator validates dashboard query parameters using struct tags
type QueryValidator struct {
	validator *validator.Validate
	logger    *slog.Logger
}

// NewQueryValidator creates a new query parameter validator
func NewQueryValidator(logger *slog.Logger) *QueryValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	// Register custom validators
	_ = v.RegisterValidation("category", isCategory)
	_ = v.RegisterValidation("theme", isColorTheme)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator: v,
		logger:    logger.With(slog.String("component", "query_validator")),
	}
}

// ParseDashboardQuery reads and validates the selector parameters of r.
// Every invalid field is reported, not only the first.
func (v *QueryValidator) ParseDashboardQuery(r *http.Request) (DashboardQuery, error) {
	values := r.URL.Query()
	q := DashboardQuery{
		Category: strings.TrimSpace(values.Get("category")),
		Theme:    strings.ToLower(strings.TrimSpace(values.Get("theme"))),
		Sort:     strings.ToLower(strings.TrimSpace(values.Get("sort"))),
		Format:   strings.ToLower(strings.TrimSpace(values.Get("format"))),
	}

	var fieldErrors []apierrors.ValidationError
	if raw := strings.TrimSpace(values.Get("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fieldErrors = append(fieldErrors, apierrors.ValidationError{
				Field:   "year",
				Value:   raw,
				Message: "year must be a valid integer",
			})
		case year == 0:
			// omitempty would let an explicit zero through
			fieldErrors = append(fieldErrors, apierrors.ValidationError{
				Field:   "year",
				Value:   raw,
				Message: "year must be greater than or equal to 1900",
			})
		default:
			q.Year = year
		}
	}

	if err := v.ValidateStruct(q); err != nil {
		var apiErr *apierrors.APIError
		if !errors.As(err, &apiErr) {
			return DashboardQuery{}, err
		}
		if details, ok := apiErr.Details.(apierrors.ValidationErrors); ok {
			fieldErrors = append(fieldErrors, details.Errors...)
		}
	}

	if len(fieldErrors) > 0 {
		v.logger.DebugContext(r.Context(), "query rejected",
			slog.String("path", r.URL.Path),
			slog.Int("errors", len(fieldErrors)))
		return DashboardQuery{}, apierrors.NewValidationErrors(fieldErrors)
	}
	return q, nil
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Value:   fmt.Sprint(fe.Value()),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// CategoryValue returns the parsed category, or fallback when none was given.
// The query must have been validated.
func (q DashboardQuery) CategoryValue(fallback domain.Category) domain.Category {
	if q.Category == "" {
		return fallback
	}
	c, err := domain.ParseCategory(q.Category)
	if err != nil {
		return fallback
	}
	return c
}

// ThemeValue returns the color theme, or fallback when none was given.
func (q DashboardQuery) ThemeValue(fallback domain.ColorTheme) domain.ColorTheme {
	if q.Theme == "" {
		return fallback
	}
	return domain.ColorTheme(q.Theme)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "category":
		return fmt.Sprintf("%s must be one of: amount, share, 금액, 비중", field)
	case "theme":
		names := make([]string, 0, len(domain.ColorThemes()))
		for _, t := range domain.ColorThemes() {
			names = append(names, string(t))
		}
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isCategory(fl validator.FieldLevel) bool {
	_, err := domain.ParseCategory(fl.Field().String())
	return err == nil
}

func isColorTheme(fl validator.FieldLevel) bool {
	return domain.ColorTheme(fl.Field().String()).Valid()
}
