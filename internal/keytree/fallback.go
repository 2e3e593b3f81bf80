package keytree

import (
	"regexp"
	"strings"
)

// rootKeyPattern matches a key at the root of a conventionally indented
// document: at most two leading spaces before the quoted key.
var rootKeyPattern = regexp.MustCompile(`^(\s{0,2})"([^"]+)"\s*:`)

// FallbackRootKeys extracts root keys line by line. It serves documents that
// the decoder rejects for raw control characters. Repeated keys keep their
// first occurrence.
func FallbackRootKeys(raw string) []KeyLine {
	seen := make(map[string]bool)

	var keys []KeyLine

	for i, line := range strings.Split(raw, "\n") {
		m := rootKeyPattern.FindStringSubmatch(strings.TrimSuffix(line, "\r"))
		if m == nil || seen[m[2]] {
			continue
		}

		seen[m[2]] = true
		keys = append(keys, KeyLine{Key: m[2], Line: i + 1})
	}

	return keys
}

func fallbackTree(raw string, cause error) *Tree {
	root := &Value{Kind: Object, Line: 1}

	for _, k := range FallbackRootKeys(raw) {
		root.Members = append(root.Members, &Member{
			Key:   k.Key,
			Line:  k.Line,
			Value: &Value{Kind: Scalar, Type: Null, Line: k.Line},
		})
	}

	return &Tree{Root: root, Partial: true, Recovered: cause}
}
