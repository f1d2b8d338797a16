package transform

import (
	"strings"
)

// EOL rewrites CRLF line endings to LF.
type EOL struct{}

// Transform replaces every "\r\n" with "\n". Lone carriage returns are kept.
func (EOL) Transform(source, _ string) string {
	return strings.ReplaceAll(source, "\r\n", "\n")
}

// Banner prefixes a block comment to the output.
type Banner struct {
	Text string
}

// Transform prepends "/* <Text> */\n". A "*/" inside Text is escaped so the
// comment cannot end early.
func (b Banner) Transform(source, _ string) string {
	text := strings.ReplaceAll(b.Text, "*/", "* /")
	return "/* " + text + " */\n" + source
}
