package generator

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/pullstream/constructors/core/models"
	"github.com/pullstream/constructors/sdk/validation"
)

// FuncMap returns the template function map: sprig's text functions plus the
// naming transforms shared with the definition loader, so templates and
// normalized definitions agree on every identifier.
func FuncMap() template.FuncMap {
	fm := sprig.TxtFuncMap()

	fm["camel"] = models.ToCamelCase
	fm["pascal"] = models.ToPascalCase
	fm["snake"] = models.ToSnakeCase
	fm["kebab"] = models.ToKebabCase
	fm["titlecase"] = models.TitleCase
	fm["plural"] = models.Pluralize
	fm["singular"] = models.Singularize
	fm["slug"] = validation.Slugify
	fm["enumName"] = models.EnumName
	fm["enumValue"] = models.EnumValueName
	fm["joiRule"] = joiRule
	fm["tsType"] = tsType

	return fm
}

// joiRule builds the Joi validator chain for one field. forUpdate drops the
// required() call so update payloads stay partial.
func joiRule(svc *models.ServiceDefinition, f models.FieldDefinition, forUpdate bool) string {
	var b strings.Builder

	switch f.DataType {
	case models.TypeInt:
		b.WriteString("Joi.number().integer()")
	case models.TypeFloat, models.TypeDecimal:
		b.WriteString("Joi.number()")
	case models.TypeBoolean:
		b.WriteString("Joi.boolean()")
	case models.TypeDateTime:
		b.WriteString("Joi.date().iso()")
	case models.TypeUUID:
		b.WriteString("Joi.string().guid({ version: 'uuidv4' })")
	case models.TypeJSON:
		b.WriteString("Joi.object()")
	case models.TypeBytes:
		b.WriteString("Joi.binary()")
	case models.TypeEnum:
		b.WriteString("Joi.string()")
		if enum, ok := svc.EnumByID(f.EnumDefnID); ok && len(enum.Values) > 0 {
			quoted := make([]string, len(enum.Values))
			for i, v := range enum.Values {
				quoted[i] = "'" + v.Value + "'"
			}
			fmt.Fprintf(&b, ".valid(%s)", strings.Join(quoted, ", "))
		}
	default:
		b.WriteString("Joi.string()")
	}

	if f.DataType == models.TypeString && validation.GetIntOrZero(f.MaxLength) > 0 {
		fmt.Fprintf(&b, ".max(%d)", *f.MaxLength)
	}

	if forUpdate {
		return b.String()
	}
	if f.IsOptional {
		b.WriteString(".allow(null)")
	} else {
		b.WriteString(".required()")
	}
	return b.String()
}

// tsType maps a canonical data type onto its TypeScript counterpart for the
// frontend page templates.
func tsType(f models.FieldDefinition) string {
	switch f.DataType {
	case models.TypeInt, models.TypeFloat, models.TypeDecimal:
		return "number"
	case models.TypeBoolean:
		return "boolean"
	case models.TypeJSON:
		return "Record<string, unknown>"
	default:
		return "string"
	}
}
