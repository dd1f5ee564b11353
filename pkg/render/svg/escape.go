package svg

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// escapeXML escapes s for use in character data and quoted attributes.
func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

var cssStringEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// escapeCSS escapes s for a double-quoted CSS string inside a <style>
// element.
func escapeCSS(s string) string {
	return escapeXML(cssStringEscaper.Replace(s))
}
