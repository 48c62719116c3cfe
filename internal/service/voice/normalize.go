package voice

import (
	"regexp"
	"strings"
)

// Phonetic normalization maps for STT error correction. Recognition output
// arrives noisy ("zero point zero zero five", "transfer to alice five each");
// normalization rewrites it into the canonical form the parser and the
// amount validator expect. All passes are idempotent: canonical output is
// never a key in any map.

// digitWords maps spoken digit words to their numeric string representation.
var digitWords = map[string]string{
	// Standard
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	// Common STT errors
	"won": "1", "wun": "1",
	"too": "2", "tu": "2", // "to" is intentionally excluded - it carries the recipient
	"free": "3", "tree": "3",
	"fore": "4", // "for" is intentionally excluded - it's a common word
	"fiv":  "5", "fife": "5",
	"ate": "8", "ait": "8",
	"niner": "9",
	"oh":    "0",
}

// teenWords and tensWords carry compound-number values; scaleWords multiply.
var teenWords = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

var scaleWords = map[string]int{
	"hundred":  100,
	"thousand": 1000,
}

// pointWords mark the decimal separator in spoken numbers.
var pointWords = map[string]bool{
	"point": true,
	"dot":   true,
}

// onesValue maps a canonical digit word to its value for compound numbers.
var onesValue = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
}

// assetVariants rewrites phonetic and spelled-out forms of the supported
// asset symbol. Longest patterns first so "e t h" wins over its letters.
var assetVariants = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\be t h\b`), "eth"},
	{regexp.MustCompile(`\bethereum\b`), "eth"},
	{regexp.MustCompile(`\bethers?\b`), "eth"},
	{regexp.MustCompile(`\beath\b`), "eth"},
	{regexp.MustCompile(`\beach\b`), "eth"}, // frequent mishearing of "eth" after a number
}

// keywordCorrections fixes common misrecognitions of domain verbs and
// nouns. Multi-word phrases precede single words so the longest known
// pattern always wins.
var keywordCorrections = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`\btrans fer\b`), "transfer"},
	{regexp.MustCompile(`\btransver\b`), "transfer"},
	{regexp.MustCompile(`\btransfur\b`), "transfer"},
	{regexp.MustCompile(`\bwall it\b`), "wallet"},
	{regexp.MustCompile(`\bwhile it\b`), "wallet"},
	{regexp.MustCompile(`\bwalled\b`), "wallet"},
	{regexp.MustCompile(`\bwallets\b`), "wallet"},
	{regexp.MustCompile(`\bballance\b`), "balance"},
	{regexp.MustCompile(`\bvalance\b`), "balance"},
	{regexp.MustCompile(`\bbalanced\b`), "balance"},
	{regexp.MustCompile(`\bsand\b`), "send"},
	{regexp.MustCompile(`\bconform\b`), "confirm"},
	{regexp.MustCompile(`\bconfirmed\b`), "confirm"},
	{regexp.MustCompile(`\bcouncil\b`), "cancel"},
	{regexp.MustCompile(`\bcounsel\b`), "cancel"},
	{regexp.MustCompile(`\bcancelled\b`), "cancel"},
	{regexp.MustCompile(`\bcontact's\b`), "contacts"},
	{regexp.MustCompile(`\bcontracts\b`), "contacts"}, // "contacts" misheard with an r
	{regexp.MustCompile(`\btrans action\b`), "transaction"},
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// Normalize rewrites a raw transcript into canonical form: lowercase,
// spoken numerals as digits, the asset symbol canonicalized, misheard
// domain keywords corrected. Unmapped text passes through unchanged and
// empty input stays empty. The passes run in a fixed order because each
// operates on the output of the one before it.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	// Hyphens split spoken compounds: "zero-point-five" -> "zero point five"
	text = strings.ReplaceAll(text, "-", " ")
	text = whitespaceRE.ReplaceAllString(text, " ")

	text = replaceSpokenNumerals(text)

	for _, v := range assetVariants {
		text = v.pattern.ReplaceAllString(text, v.repl)
	}
	for _, c := range keywordCorrections {
		text = c.pattern.ReplaceAllString(text, c.repl)
	}

	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// numberToken reports whether a word participates in a spoken-number run.
func numberToken(w string) bool {
	if _, ok := digitWords[w]; ok {
		return true
	}
	if _, ok := teenWords[w]; ok {
		return true
	}
	if _, ok := tensWords[w]; ok {
		return true
	}
	if _, ok := scaleWords[w]; ok {
		return true
	}
	if pointWords[w] {
		return true
	}
	return isNumericLiteral(w)
}

// isNumericLiteral reports whether the word is already digits with at most
// one decimal point. Such tokens pass through untouched, which is what
// makes normalization idempotent.
func isNumericLiteral(w string) bool {
	if w == "" {
		return false
	}
	dots := 0
	for _, c := range w {
		switch {
		case c >= '0' && c <= '9':
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return w != "."
}

// replaceSpokenNumerals rewrites every run of number words into a single
// digit string. Runs made only of digit words concatenate ("one two three"
// -> "123"); runs containing teens, tens or scales combine arithmetically
// ("one thousand five hundred" -> "1500"). Words after "point" always
// concatenate digit-by-digit.
func replaceSpokenNumerals(text string) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for i := 0; i < len(words); i++ {
		if !numberToken(words[i]) {
			out = append(out, words[i])
			continue
		}

		// A bare point word between non-numbers is not a decimal separator.
		if pointWords[words[i]] {
			next := i + 1
			if next >= len(words) || !numberToken(words[next]) || pointWords[words[next]] {
				out = append(out, words[i])
				continue
			}
		}

		j := i
		for j < len(words) && numberToken(words[j]) {
			j++
		}
		out = append(out, renderNumberRun(words[i:j]))
		i = j - 1
	}

	return strings.Join(out, " ")
}

// renderNumberRun converts one run of number tokens to a digit string.
// Two integer modes: runs made only of digit words and literals concatenate
// in spoken order ("one two three" -> "123", "0.1" stays "0.1"); runs that
// use teens, tens or scales combine arithmetically ("one thousand five
// hundred" -> "1500"). A point word switches to the fraction, which always
// concatenates digit-by-digit.
func renderNumberRun(run []string) string {
	compound := false
	for _, w := range run {
		if pointWords[w] {
			break
		}
		if _, ok := teenWords[w]; ok {
			compound = true
		}
		if _, ok := tensWords[w]; ok {
			compound = true
		}
		if _, ok := scaleWords[w]; ok {
			compound = true
		}
	}

	intPart := ""
	fracPart := ""
	inFrac := false
	total, current := 0, 0

	for _, w := range run {
		if pointWords[w] {
			if inFrac {
				continue
			}
			if compound {
				intPart = itoa(total + current)
			}
			inFrac = true
			continue
		}

		if inFrac {
			fracPart += fracDigits(w)
			continue
		}

		if !compound {
			if isNumericLiteral(w) {
				intPart += w
			} else {
				intPart += digitWords[w]
			}
			continue
		}

		switch {
		case isNumericLiteral(w):
			current += atoiInt(w)
		case scaleWords[w] > 0:
			if current == 0 {
				current = 1
			}
			if scaleWords[w] == 1000 {
				total += current * 1000
				current = 0
			} else {
				current *= scaleWords[w]
			}
		case tensWords[w] > 0:
			current += tensWords[w]
		case teenWords[w] > 0:
			current += teenWords[w]
		default:
			if d, ok := digitWords[w]; ok {
				current += atoiInt(d)
			}
		}
	}

	if compound && !inFrac {
		intPart = itoa(total + current)
	}

	if inFrac {
		if fracPart == "" {
			return intPart
		}
		if intPart == "" {
			intPart = "0"
		}
		return intPart + "." + fracPart
	}
	return intPart
}

// fracDigits renders one token as bare digits for the fractional part.
func fracDigits(w string) string {
	if isNumericLiteral(w) {
		return strings.ReplaceAll(w, ".", "")
	}
	if d, ok := digitWords[w]; ok {
		return d
	}
	if v, ok := teenWords[w]; ok {
		return itoa(v)
	}
	if v, ok := tensWords[w]; ok {
		return itoa(v)
	}
	if v, ok := scaleWords[w]; ok {
		return itoa(v)
	}
	return ""
}

// atoiInt parses the integer part of a numeric literal, ignoring any
// fractional tail. Inputs are pre-validated by isNumericLiteral.
func atoiInt(s string) int {
	n := 0
	for _, c := range s {
		if c == '.' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	buf := [20]byte{}
	pos := len(buf)
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}
