package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"hobbyhub-client/internal/models"
)

const (
	MinTitleLength       = 5
	MaxTitleLength       = 100
	MinDescriptionLength = 20
	MaxDescriptionLength = 2000
	MinTags              = 1
	MaxTags              = 10
)

var uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// IsUUID reports whether id has the canonical 8-4-4-4-12 hex shape.
func IsUUID(id string) bool {
	return uuidPattern.MatchString(id)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Errors collects every failed rule of a request so a form can show them
// all at once.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Get returns the first message for field, or "".
func (e Errors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (e Errors) Has(field string) bool {
	return e.Get(field) != ""
}

// NormalizeCreateProject trims the text fields and normalizes the tags in place.
func NormalizeCreateProject(req *models.CreateProjectRequest) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	req.Tags = NormalizeTags(req.Tags)
	if req.SquadID != nil {
		squadID := strings.TrimSpace(*req.SquadID)
		if squadID == "" {
			req.SquadID = nil
		} else {
			req.SquadID = &squadID
		}
	}
}

// ValidateCreateProject checks a normalized create request.
func ValidateCreateProject(req *models.CreateProjectRequest) error {
	errs := structErrors(req)
	if req.Visibility == models.VisibilitySquadOnly && req.SquadID == nil && !errs.Has("visibility") {
		errs = append(errs, FieldError{Field: "visibility", Message: "squad_only visibility requires a squad"})
	}
	return asError(errs)
}

// NormalizeUpdateProject trims whatever fields are set.
func NormalizeUpdateProject(req *models.UpdateProjectRequest) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		req.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		req.Description = &description
	}
	if req.Tags != nil {
		req.Tags = NormalizeTags(req.Tags)
	}
}

func ValidateUpdateProject(req *models.UpdateProjectRequest) error {
	return asError(structErrors(req))
}

func ValidateAddFile(req *models.AddFileRequest) error {
	return asError(structErrors(req))
}

func ValidateAddUpdate(req *models.AddUpdateRequest) error {
	return asError(structErrors(req))
}

// ParseProgress keeps raw only when it is an integer percentage.
func ParseProgress(raw string) *int {
	n, ok := parseInt(raw)
	if !ok || n < 0 || n > 100 {
		return nil
	}
	return &n
}

// ParseHours keeps raw only when it is a non-negative integer.
func ParseHours(raw string) *int {
	n, ok := parseInt(raw)
	if !ok || n < 0 {
		return nil
	}
	return &n
}

// ParsePositiveInt keeps raw only when it is an integer above zero.
func ParsePositiveInt(raw string) *int {
	n, ok := parseInt(raw)
	if !ok || n <= 0 {
		return nil
	}
	return &n
}

func parseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func structErrors(s interface{}) Errors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{{Field: "", Message: err.Error()}}
	}
	errs := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, FieldError{Field: fe.Field(), Message: describe(fe)})
	}
	return errs
}

func asError(errs Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, fe.Param(), unit(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, fe.Param(), unit(fe))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or more", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "unique":
		return field + " must not contain duplicates"
	case "url":
		return field + " must be a valid URL"
	}
	return fmt.Sprintf("%s failed on the '%s' tag", field, fe.Tag())
}

func unit(fe validator.FieldError) string {
	switch fe.Kind() {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array:
		return " item(s)"
	}
	return ""
}
