package v1

import (
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "reflect"
    "regexp"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/tinoosan/fintrack/internal/ledger"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// validate checks request DTOs. Editor rules stay in the transaction service;
// these tags only cover shape and size.
var validate = newValidator()

func newValidator() *validator.Validate {
    v := validator.New(validator.WithRequiredStructEnabled())
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" { return "" }
        return name
    })
    _ = v.RegisterValidation("hex_color", func(fl validator.FieldLevel) bool {
        return hexColor.MatchString(fl.Field().String())
    })
    _ = v.RegisterValidation("category_type", func(fl validator.FieldLevel) bool {
        return ledger.CategoryType(fl.Field().String()).Valid()
    })
    _ = v.RegisterValidation("iso4217", func(fl validator.FieldLevel) bool {
        return ledger.ValidCurrency(fl.Field().String())
    })
    _ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
        _, err := ledger.ParseDate(fl.Field().String())
        return err == nil
    })
    return v
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) { return err.Error() }
    parts := make([]string, 0, len(verrs))
    for _, fe := range verrs {
        if fe.Param() != "" {
            parts = append(parts, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
            continue
        }
        parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
    }
    return strings.Join(parts, "; ")
}

// decodeJSON reads a strict JSON body into dst and runs struct validation.
// It writes the error response itself and returns false on any failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
    if !requireJSON(w, r) { return false }
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(dst); err != nil {
        badRequest(w, "invalid JSON: "+err.Error())
        return false
    }
    if err := validate.Struct(dst); err != nil {
        writeErr(w, http.StatusBadRequest, validationMessage(err), "validation_error")
        return false
    }
    return true
}
