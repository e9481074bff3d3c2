package core

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	AttributeKeyChainName   = attribute.Key("chain_name")
	AttributeKeySourceChain = attribute.Key("source_chain")
	AttributeKeyHeight      = attribute.Key("height")
	AttributeKeySequence    = attribute.Key("sequence")
	AttributeKeyMessageKind = attribute.Key("message_kind")
	AttributeKeyContract    = attribute.Key("contract")
	AttributeKeyResult      = attribute.Key("result")
	AttributeKeyReason      = attribute.Key("reason")
	AttributeKeyPackage     = attribute.Key("package")
)

// AttributeGroup prefixes the given key to all attributes.
//
// For example, if the key is "foo" and the key of an attribute is "bar", the new key will be "foo.bar".
func AttributeGroup(key string, attributes ...attribute.KeyValue) []attribute.KeyValue {
	newAttrs := make([]attribute.KeyValue, 0, len(attributes))
	for _, attr := range attributes {
		newAttrs = append(newAttrs, attribute.KeyValue{
			Key:   attribute.Key(key + "." + string(attr.Key)),
			Value: attr.Value,
		})

	}
	return newAttrs
}
