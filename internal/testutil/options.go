package testutil

import "github.com/zjrosen/paratext/internal/resolve"

// ParamOption configures a user parameter added through WithParam.
type ParamOption func(*resolve.Parameter)

// WithUnit sets the parameter's unit string.
func WithUnit(unit string) ParamOption {
	return func(p *resolve.Parameter) { p.Unit = unit }
}

// WithExpr sets the parameter's defining expression.
func WithExpr(expr string) ParamOption {
	return func(p *resolve.Parameter) { p.Expr = expr }
}

// WithComment sets the parameter's comment.
func WithComment(comment string) ParamOption {
	return func(p *resolve.Parameter) { p.Comment = comment }
}
