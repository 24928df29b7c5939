package strictvalue

import (
	"fmt"
	"strings"
)

// Placeholders recognized in custom message templates.
const (
	placeholderTypes    = "${types}"
	placeholderValue    = "${value}"
	placeholderProperty = "${property}"
)

// Expected renders the diagnostic for a rejected value.
//
// Types are joined as "a, b or c". With a custom template, the first
// occurrence of ${types}, ${value} and ${property} is replaced in that order
// and nothing else is interpreted. Without one the message reads:
//
//	Expected variable or function for "10px" of "width"
func Expected(types []ValueType, value, property, custom string) string {
	typesMessage := joinTypes(types)

	if custom != "" {
		msg := strings.Replace(custom, placeholderTypes, typesMessage, 1)
		msg = strings.Replace(msg, placeholderValue, value, 1)
		return strings.Replace(msg, placeholderProperty, property, 1)
	}

	return fmt.Sprintf("Expected %s for \"%s\" of \"%s\"", typesMessage, value, property)
}

func joinTypes(types []ValueType) string {
	switch len(types) {
	case 0:
		return ""
	case 1:
		return string(types[0])
	}

	head := make([]string, len(types)-1)
	for i, t := range types[:len(types)-1] {
		head[i] = string(t)
	}
	return strings.Join(head, ", ") + " or " + string(types[len(types)-1])
}
