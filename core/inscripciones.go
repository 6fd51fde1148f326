package core

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

const emailBasicoTag = "email_basico"

var emailBasicoRegex = regexp.MustCompile(EmailPattern)

// mensajesInscripcion maps validation tag -> json field -> message.
var mensajesInscripcion = map[string]map[string]string{
	"required":     {"eventoId": MsgEventoIdRequerido},
	emailBasicoTag: {"parejaAlumnoEmail": MsgEmailParejaInvalido},
}

// EnrollmentValidator checks enrollment requests. It does not look at the target event.
type EnrollmentValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewEnrollmentValidator() *EnrollmentValidator {
	spanish := es.New()
	translator, _ := ut.New(spanish, spanish).GetTranslator("es")

	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	_ = validate.RegisterValidation(emailBasicoTag, func(fl validator.FieldLevel) bool {
		return emailBasicoRegex.MatchString(fl.Field().String())
	})

	for tag, campos := range mensajesInscripcion {
		registrarMensajes(validate, translator, tag, campos)
	}

	return &EnrollmentValidator{validate: validate, translator: translator}
}

func registrarMensajes(validate *validator.Validate, translator ut.Translator, tag string, campos map[string]string) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error {
			for campo, mensaje := range campos {
				err := t.Add(campo+"."+tag, mensaje, true)
				if err != nil {
					return err
				}
			}

			return nil
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, err := t.T(fe.Field() + "." + fe.Tag())
			if err != nil {
				return fe.Error()
			}

			return s
		},
	)
}

// ValidarInscripcion reports every problem with the request, in field order.
func (v *EnrollmentValidator) ValidarInscripcion(inscripcion EnrollmentRequest) Resultado {
	inscripcion.EventoId = Identificador(strings.TrimSpace(string(inscripcion.EventoId)))

	var errores []string

	var fieldErrs validator.ValidationErrors
	if errors.As(v.validate.Struct(inscripcion), &fieldErrs) {
		for _, fe := range fieldErrs {
			errores = append(errores, fe.Translate(v.translator))
		}
	}

	return nuevoResultado(errores)
}
