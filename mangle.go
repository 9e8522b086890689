package main

import (
	"strconv"
	"strings"
)

// mangle turns a source identifier into a C-safe one. The reserved name
// "main" is special-cased to avoid colliding with the generated program's
// own entry point; every other identifier is walked one codepoint at a
// time, escaping anything outside [A-Za-z0-9_] (and any leading digit) as
// "__u<codepoint>", with the escape sentinel itself escaped first so a
// source identifier that already contains "__u" or "__i" can't collide
// with an escape this function produces. Only the character set is
// checked: a name made entirely of permitted characters, including a C
// keyword such as "double" or a C library or runtime symbol name, passes
// through unchanged.
func mangle(name string) string {
	if name == "main" {
		return "__smain"
	}

	var out strings.Builder
	for i := 0; i < len(name); {
		if strings.HasPrefix(name[i:], "__u") {
			out.WriteString("__uE")
			i += 3
			continue
		}
		if strings.HasPrefix(name[i:], "__i") {
			out.WriteString("__iE")
			i += 3
			continue
		}
		r, n := decodeRune(name, i)
		if n == 0 {
			out.WriteString(escapeRune(rune(name[i])))
			i++
			continue
		}
		if permittedRune(r, i == 0) {
			out.WriteRune(r)
		} else {
			out.WriteString(escapeRune(r))
		}
		i += n
	}
	return out.String()
}

func permittedRune(c rune, start bool) bool {
	alpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
	if start {
		return alpha
	}
	return alpha || (c >= '0' && c <= '9')
}

func escapeRune(c rune) string {
	return "__u" + strconv.Itoa(int(c))
}
