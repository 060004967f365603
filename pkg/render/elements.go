package render

// voidElements have no closing tag and never hold children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement reports whether tag is written without a closing tag.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// inlineElements stay on one line in pretty output.
var inlineElements = map[string]bool{
	"a":      true,
	"abbr":   true,
	"b":      true,
	"br":     true,
	"button": true,
	"code":   true,
	"em":     true,
	"i":      true,
	"kbd":    true,
	"label":  true,
	"mark":   true,
	"q":      true,
	"s":      true,
	"small":  true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"time":   true,
	"u":      true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are written as a bare name when true and omitted when false.
var booleanAttrs = map[string]bool{
	"autofocus": true,
	"checked":   true,
	"disabled":  true,
	"hidden":    true,
	"multiple":  true,
	"open":      true,
	"readonly":  true,
	"required":  true,
	"selected":  true,
}

// IsBooleanAttr reports whether name is a boolean attribute.
func IsBooleanAttr(name string) bool {
	return booleanAttrs[name]
}
