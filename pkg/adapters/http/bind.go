package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/gensyn/pkg/domain"
)

// maxBodyBytes bounds request bodies; a full snapshot of a large patch fits comfortably.
const maxBodyBytes = 1 << 20

var (
	vOnce  sync.Once
	vValid *validator.Validate
	vTrans ut.Translator
)

func validate() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		vTrans, _ = uni.GetTranslator("en")

		vValid = validator.New(validator.WithRequiredStructEnabled())
		vValid.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			name, _, _ := strings.Cut(tag, ",")
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(vValid, vTrans)
	})
	return vValid, vTrans
}

// decodeJSON reads a single JSON value into T, rejects unknown fields and
// trailing data, then runs struct validation.
func decodeJSON[T any](r *http.Request) (T, error) {
	var dst T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return dst, domain.NewError("decode", "", domain.ErrInvalidArgument, "empty body")
		}
		return dst, domain.NewError("decode", "", domain.ErrInvalidArgument, "invalid JSON: %v", err)
	}
	if dec.More() {
		return dst, domain.NewError("decode", "", domain.ErrInvalidArgument, "unexpected trailing data")
	}

	v, trans := validate()
	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return dst, domain.NewError("decode", "", domain.ErrInvalidArgument, "%s", verrs[0].Translate(trans))
		}
		return dst, fmt.Errorf("validation error: %w", err)
	}
	return dst, nil
}

// pathParam binds a chi URL parameter using OpenAPI simple style.
func pathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return "", domain.NewError("bind", "", domain.ErrInvalidArgument, "path parameter %s: %v", name, err)
	}
	return value, nil
}

// queryParam binds an optional form-style query parameter into dest.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return domain.NewError("bind", "", domain.ErrInvalidArgument, "query parameter %s: %v", name, err)
	}
	return nil
}
