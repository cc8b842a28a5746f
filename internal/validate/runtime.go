package validate

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/blossom"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/errs"
	"github.com/kitsudaiki/libKitsunemimiSakuraLang-sub000/internal/ir"
)

// validate is a single shared validator instance; Var() calls are
// stateless and safe for concurrent use across dispatches.
var validate = validator.New()

// CheckInput runs the runtime type check: every resolved input is
// checked against its FieldDefinition (kind, match, regex,
// numeric bounds) immediately before a blossom is dispatched. The
// schema is data, not compile-time struct metadata, so numeric bounds
// are enforced through validator.Var() with a tag string built per
// field rather than struct tags.
func CheckInput(h blossom.Handler, resolved map[string]*ir.DataItem) error {
	for _, f := range h.Fields() {
		if f.IOType != ir.FieldInput || f.Name == ir.RequiredKeysWildcard {
			continue
		}

		value, ok := resolved[f.Name]
		if !ok {
			if f.Default != nil {
				resolved[f.Name] = f.Default.Clone()
				continue
			}
			if f.Required {
				return errs.New(errs.ErrMissingKey, f.Name)
			}
			continue
		}

		if !f.FieldType.Matches(value.Kind) {
			return errs.New(errs.ErrTypeMismatch,
				fmt.Sprintf("field %q: expected %s, got %s", f.Name, f.FieldType, value.Kind))
		}

		if f.Match != nil && value.Stringify() != *f.Match {
			return errs.New(errs.ErrMatchFailed,
				fmt.Sprintf("field %q: expected %q, got %q", f.Name, *f.Match, value.Stringify()))
		}

		if f.Regex != "" {
			matched, err := regexp.MatchString(f.Regex, value.Stringify())
			if err != nil {
				return errs.New(errs.ErrMatchFailed, fmt.Sprintf("field %q: invalid regex %q", f.Name, f.Regex))
			}
			if !matched {
				return errs.New(errs.ErrMatchFailed,
					fmt.Sprintf("field %q: value %q does not match pattern %q", f.Name, value.Stringify(), f.Regex))
			}
		}

		if f.Min != nil || f.Max != nil {
			if err := checkBounds(f, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkBounds enforces Min/Max for Int/Float fields via
// validator.Var(), building the "gte"/"lte" tag string dynamically from
// the field's declared bounds.
func checkBounds(f ir.FieldDefinition, value *ir.DataItem) error {
	var num float64
	switch f.FieldType {
	case ir.FieldInt:
		n, _ := value.Int()
		num = float64(n)
	case ir.FieldFloat:
		n, _ := value.Float()
		num = n
	default:
		return nil
	}

	if f.Min != nil {
		if err := validate.Var(num, fmt.Sprintf("gte=%g", *f.Min)); err != nil {
			return errs.New(errs.ErrMatchFailed,
				fmt.Sprintf("field %q: %g below minimum %g", f.Name, num, *f.Min))
		}
	}
	if f.Max != nil {
		if err := validate.Var(num, fmt.Sprintf("lte=%g", *f.Max)); err != nil {
			return errs.New(errs.ErrMatchFailed,
				fmt.Sprintf("field %q: %g above maximum %g", f.Name, num, *f.Max))
		}
	}
	return nil
}
