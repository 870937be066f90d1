package resolve

import (
	"time"

	"github.com/zjrosen/paratext/internal/value"
)

// Context attribute names.
const (
	attrVersion       = "version"
	attrDate          = "date"
	attrFile          = "file"
	attrComponent     = "component"
	attrSketch        = "sketch"
	attrConfiguration = "configuration"
	attrCompDesc      = "compdesc"
	attrPartNum       = "partnum"
	attrNewline       = "newline"
)

// Parameter attribute names.
const (
	attrValue    = "value"
	attrUnit     = "unit"
	attrExpr     = "expr"
	attrComment  = "comment"
	attrInchFrac = "inchfrac"
)

// Resolve looks up a field's base name and attribute. The context symbol "_"
// resolves against ctx and the per-target target context; everything else
// resolves against the parameter namespace. An omitted attribute defaults to
// "version" for "_" and "value" for parameters.
func Resolve(base, attribute string, params Namespace, ctx Context, target TargetContext) (value.Value, error) {
	if base == ContextName {
		return resolveContext(attribute, ctx, target)
	}

	param, ok := params[base]
	if !ok {
		return value.Value{}, &UnknownParameterError{Name: base}
	}

	switch attribute {
	case "", attrValue:
		return value.Number(param.Value), nil
	case attrUnit:
		return value.Text(param.Unit), nil
	case attrExpr:
		return value.Text(param.Expr), nil
	case attrComment:
		return value.Text(param.Comment), nil
	case attrInchFrac:
		return value.Text(value.MixedFracInch(param.Value)), nil
	default:
		return value.Value{}, &UnknownAttributeError{Base: base, Attribute: attribute}
	}
}

func resolveContext(attribute string, ctx Context, target TargetContext) (value.Value, error) {
	switch attribute {
	case "", attrVersion:
		if !ctx.Saved {
			return value.Number(0), nil
		}
		return value.Number(float64(ctx.Version)), nil
	case attrDate:
		if !ctx.Saved {
			// Never-saved documents have no save timestamp yet. Render a
			// provisional midnight-of-today date, restamped on first save.
			now := time.Now()
			midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
			return value.Time(midnight), nil
		}
		return value.Time(ctx.SaveTime), nil
	case attrFile:
		return value.Text(StripVersionSuffix(ctx.File)), nil
	case attrNewline:
		return value.Newline(), nil
	case attrComponent:
		// The root component carries the document name with its version
		// suffix, strip it as for _.file.
		return value.Text(StripVersionSuffix(target.Component)), nil
	case attrSketch:
		return value.Text(target.Sketch), nil
	case attrCompDesc:
		return value.Text(target.ComponentDesc), nil
	case attrPartNum:
		return value.Text(target.PartNumber), nil
	case attrConfiguration:
		return value.Text(target.Configuration), nil
	default:
		return value.Value{}, &UnknownAttributeError{Base: ContextName, Attribute: attribute}
	}
}
