package ppcp

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their wire names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("decimal", isDecimal); err != nil {
		panic(err)
	}
	return v
}

func isDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

// Validate checks that the order carries every field PayPal requires to create it.
//
// Fields are checked in declaration order and the first violation is returned as
// a [MissingFieldError], [InvalidEnumError] or [InvalidValueError].
// Address and platform fee fields are only checked when their parent is present.
func Validate(o *Order) error {
	if o == nil {
		return &MissingFieldError{Field: "body"}
	}
	if err := check(o); err != nil {
		return err
	}
	for i, pu := range o.PurchaseUnits {
		id := pu.ReferenceID
		if id == "" {
			continue
		}
		if slices.IndexFunc(o.PurchaseUnits[:i], func(it *PurchaseUnit) bool {
			return it.ReferenceID == id
		}) >= 0 {
			return &InvalidValueError{Field: "reference_id", Value: id}
		}
	}
	return nil
}

func validatePaymentSource(ps *PaymentSource) error {
	if ps == nil {
		return nil
	}
	return check(ps)
}

// check runs the struct tags of v and converts the first violation.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := ves[0]
	switch fe.Tag() {
	case "required", "required_unless", "min":
		return &MissingFieldError{Field: missingField(fe.Field())}
	case "oneof":
		return &InvalidEnumError{Field: fe.Field(), Value: fmt.Sprint(fe.Value())}
	default:
		return &InvalidValueError{Field: fe.Field(), Value: fmt.Sprint(fe.Value())}
	}
}

// nullElementFields names the field reported for a null element of a sequence.
var nullElementFields = map[string]string{
	"purchase_units": "amount",
	"items":          "name",
	"platform_fees":  "amount",
}

// missingField maps an element name such as items[2] to the first required field of the element.
func missingField(field string) string {
	name, _, isElem := strings.Cut(field, "[")
	if f, ok := nullElementFields[name]; isElem && ok {
		return f
	}
	return field
}
