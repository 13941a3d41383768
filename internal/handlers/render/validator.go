package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const usernameTag = "username"

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(usernameTag, validateUsername)
	v.RegisterTagNameFunc(useJSONTagNames)
	return v
}

// Report fields by json name instead of struct field name
func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Usernames are used as URL path segments
// Dot segments are cleaned out of paths by the router, so they are never valid
func validateUsername(fl validator.FieldLevel) bool {
	username := fl.Field().String()
	if username == "." || username == ".." {
		return false
	}

	for _, c := range username {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.' || c == '_' || c == '-':
		default:
			return false
		}
	}

	return true
}
