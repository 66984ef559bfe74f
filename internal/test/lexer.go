package test

import (
	"math/rand"
	"strings"
)

var validTokens = []string{
	"program", "begin", "end", "var", "type", "if", "then", "else", "while", "do",
	"div", "mod", "and", "or", "BEGIN", "End", "counter", "x1", "total",
	"+", "-", "*", ":=", ":", "=", "<>", "<", "<=", ">", ">=", ".", ",", ";", "(", ")",
	"0", "25", "2147483647", "3.14", "0.5",
	"'a'", "''", "'this is a string'",
	"'this is a longer string containing a bunch of text: Lorem ipsum dolor sit amet, consectetur adipiscing elit'",
}

// GetValidTokens lists the lexemes random token streams are built from. Each one
// scans as exactly one token.
func GetValidTokens() []string {
	toks := make([]string, len(validTokens))
	copy(toks, validTokens)

	return toks
}

func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

func GetRandomTokensWithSep(size int, sep string) string {
	var toks []string
	for len(toks) < size {
		toks = append(toks, validTokens[rand.Intn(len(validTokens))])
	}

	return strings.Join(toks, sep)
}
