package core

import (
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("github.com/hyperledger-labs/yui-colony/core")
)

// WithChainAttributes returns a SpanStartOption that describes the relay
// between src and dst.
func WithChainAttributes(src string, dst Chain) trace.SpanStartOption {
	return trace.WithAttributes(
		AttributeKeySourceChain.String(src),
		AttributeKeyChainName.String(dst.ChainName()),
	)
}

// WithPackage adds the package name of the function/method `v`
func WithPackage(v any) trace.SpanStartOption {
	return trace.WithAttributes(AttributeKeyPackage.String(getPackageName(v)))
}

func getPackageName(v any) string {
	if v == nil {
		return ""
	}

	rt := reflect.TypeOf(v)
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt.PkgPath()
}
