package codegen

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// namer assigns unique identifiers to names, in first-added order.
type namer struct {
	prefix string
	order  []string
	idents map[string]string
	used   map[string]bool
}

func newNamer(prefix string) *namer {
	return &namer{
		prefix: prefix,
		idents: make(map[string]string),
		used:   make(map[string]bool),
	}
}

// add registers name, suffixing its identifier when another name already
// maps to it. Adding a name twice is a no-op.
func (n *namer) add(name string) {
	if _, ok := n.idents[name]; ok {
		return
	}
	base := n.prefix + toPascalCase(name)
	ident := base
	for i := 2; n.used[ident]; i++ {
		ident = base + strconv.Itoa(i)
	}
	n.used[ident] = true
	n.idents[name] = ident
	n.order = append(n.order, name)
}

func (n *namer) ident(name string) string {
	return n.idents[name]
}

// Helper functions

func toPascalCase(s string) string {
	words := splitWords(s)
	var result strings.Builder
	for _, word := range words {
		r := []rune(word)
		result.WriteRune(unicode.ToUpper(r[0]))
		if len(r) > 1 {
			result.WriteString(strings.ToLower(string(r[1:])))
		}
	}
	name := result.String()
	if name == "" {
		return "Unknown"
	}
	return name
}

func lowerFirst(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

// splitWords splits on every rune that cannot appear in an identifier.
func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
