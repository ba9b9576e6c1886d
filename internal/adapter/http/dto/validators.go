package dto

import (
"html"
"reflect"
"regexp"
"strings"

"presale-backend/internal/core/domain"

"github.com/gin-gonic/gin/binding"
"github.com/go-playground/validator/v10"
"github.com/shopspring/decimal"
)

var (
safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
// at most 78 digits fits a uint256 base-unit amount
uintStringRe = regexp.MustCompile(`^[0-9]{1,78}$`)
)

func init() {
if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
_ = v.RegisterValidation("safe_id", validateSafeID)
_ = v.RegisterValidation("tx_hash", validateTxHash)
_ = v.RegisterValidation("decimal_str", validateDecimalString)
_ = v.RegisterValidation("uint_str", validateUintString)
}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
return safeStringRe.MatchString(fl.Field().String())
}

// validateTxHash accepts a 0x-prefixed 32-byte hex hash.
func validateTxHash(fl validator.FieldLevel) bool {
return domain.IsValidTxHash(strings.TrimSpace(fl.Field().String()))
}

// validateDecimalString accepts a plain or fractional decimal number.
func validateDecimalString(fl validator.FieldLevel) bool {
_, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
return err == nil
}

// validateUintString accepts an unsigned base-10 integer: no sign, fraction or exponent.
func validateUintString(fl validator.FieldLevel) bool {
return uintStringRe.MatchString(strings.TrimSpace(fl.Field().String()))
}

// SanitizeStruct trims whitespace and HTML-escapes every exported string
// field (including *string) of a struct pointer.
func SanitizeStruct(v interface{}) {
rv := reflect.ValueOf(v)
if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
return
}
sanitizeFields(rv.Elem())
}

func sanitizeFields(rv reflect.Value) {
for i := 0; i < rv.NumField(); i++ {
f := rv.Field(i)
if !f.CanSet() {
continue
}
switch f.Kind() {
case reflect.String:
f.SetString(sanitize(f.String()))
case reflect.Ptr:
if f.IsNil() {
continue
}
elem := f.Elem()
if elem.Kind() == reflect.String {
s := sanitize(elem.String())
elem.SetString(s)
}
}
}
}

func sanitize(s string) string {
return html.EscapeString(strings.TrimSpace(s))
}
