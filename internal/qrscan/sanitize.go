// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package qrscan

import "regexp"

var (
	// Characters rejected by common filesystems plus ASCII control codes.
	invalidNameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)

	// ASCII and Unicode space separators.
	whitespaceRun = regexp.MustCompile(`[\s\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]+`)
)

// Sanitize turns a decoded payload into a file name component: it drops
// < > : " / \ | ? * and control characters, then collapses each whitespace
// run into a single underscore.
func Sanitize(s string) string {
	s = invalidNameChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(s, "_")
}
