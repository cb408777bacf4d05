package render

import "regexp"

const nbsp = " "

// Em-dash spacing converges on "word — word". The NBSP on the left
// keeps the dash attached to the preceding word at line breaks. The `\s`
// class does not include NBSP, so already-normalized text never rematches.
var (
	reDashBoth  = regexp.MustCompile(`[ \t]+—[ \t]+`)
	reDashLeft  = regexp.MustCompile(`[ \t]+—([\pL\pN])`)
	reDashRight = regexp.MustCompile(`([\pL\pN])—[ \t]+`)
	reDashTight = regexp.MustCompile(`([\pL\pN])—([\pL\pN])`)

	reSkipBlock = regexp.MustCompile(`(?is)<(pre|code|script|style)\b[^>]*>.*?</(?:pre|code|script|style)>`)
	reTagToken  = regexp.MustCompile(`<[^>]*>`)
)

// normalizeDashes applies em-dash typography to prose. Content inside
// pre, code, script and style elements passes through verbatim, as do
// tag tokens themselves.
func normalizeDashes(html string) string {
	var out []byte
	last := 0
	for _, loc := range reSkipBlock.FindAllStringIndex(html, -1) {
		out = append(out, dashOutsideTags(html[last:loc[0]])...)
		out = append(out, html[loc[0]:loc[1]]...)
		last = loc[1]
	}
	out = append(out, dashOutsideTags(html[last:])...)
	return string(out)
}

func dashOutsideTags(chunk string) string {
	var out []byte
	last := 0
	for _, loc := range reTagToken.FindAllStringIndex(chunk, -1) {
		out = append(out, dashText(chunk[last:loc[0]])...)
		out = append(out, chunk[loc[0]:loc[1]]...)
		last = loc[1]
	}
	out = append(out, dashText(chunk[last:])...)
	return string(out)
}

func dashText(text string) string {
	if !containsDash(text) {
		return text
	}
	text = reDashBoth.ReplaceAllString(text, nbsp+"— ")
	text = reDashLeft.ReplaceAllString(text, nbsp+"— $1")
	text = reDashRight.ReplaceAllString(text, "$1"+nbsp+"— ")
	text = reDashTight.ReplaceAllString(text, "$1"+nbsp+"— $2")
	return text
}

func containsDash(s string) bool {
	for _, r := range s {
		if r == '—' {
			return true
		}
	}
	return false
}
