package service

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const receiptCounterWidth = 5

// ReceiptNumberPrefix builds the per-user prefix from the first letter of
// the store name, the first letter of the user's name and the last letter of
// the store name. ok is false when either name has no letters.
func ReceiptNumberPrefix(storeName, userName string) (prefix string, ok bool) {
	store := letters(storeName)
	user := letters(userName)
	if len(store) == 0 || len(user) == 0 {
		return "", false
	}
	return string([]rune{store[0], user[0], store[len(store)-1]}), true
}

// FormatReceiptNumber renders prefix and counter, e.g. "AJE-00042".
func FormatReceiptNumber(prefix string, counter int) string {
	return fmt.Sprintf("%s-%0*d", prefix, receiptCounterWidth, counter)
}

// NextReceiptCounter returns one more than the counter encoded in latest.
// An empty or unparsable latest number starts the sequence at 1.
func NextReceiptCounter(prefix, latest string) int {
	suffix, found := strings.CutPrefix(latest, prefix+"-")
	if !found {
		return 1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return 1
	}
	return n + 1
}

func letters(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if unicode.IsLetter(r) {
			out = append(out, unicode.ToUpper(r))
		}
	}
	return out
}
