package models

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// numberWords maps digits to identifier-safe words. Model and enum names must
// start with a letter in every target language, so digits embedded in source
// identifiers are spelled out.
var numberWords = map[rune]string{
	'0': "Zero", '1': "One", '2': "Two", '3': "Three", '4': "Four",
	'5': "Five", '6': "Six", '7': "Seven", '8': "Eight", '9': "Nine",
}

// ReplaceNumbersWithWords replaces every digit in s with its word form.
func ReplaceNumbersWithWords(s string) string {
	var b strings.Builder
	for _, r := range s {
		if word, ok := numberWords[r]; ok {
			b.WriteString(word)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ToCamelCase converts snake_case, kebab-case, or PascalCase to camelCase.
// Already-camelCase input comes back unchanged.
func ToCamelCase(s string) string {
	parts := splitWords(s)
	if len(parts) == 0 {
		return ""
	}

	result := strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		result += capitalize(parts[i])
	}
	return result
}

// ToPascalCase converts snake_case, kebab-case, or camelCase to PascalCase.
// Already-PascalCase input comes back unchanged.
func ToPascalCase(s string) string {
	parts := splitWords(s)
	for i, part := range parts {
		parts[i] = capitalize(part)
	}
	return strings.Join(parts, "")
}

// ToSnakeCase converts PascalCase or camelCase to snake_case.
func ToSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToKebabCase converts snake_case to kebab-case.
func ToKebabCase(s string) string {
	return strings.ReplaceAll(s, "_", "-")
}

// TitleCase converts camelCase, PascalCase, snake_case, or kebab-case to a
// human readable Title Case label: "firstName" -> "First Name".
func TitleCase(s string) string {
	var spaced strings.Builder
	var prev rune
	for i, r := range s {
		if r == '_' || r == '-' {
			spaced.WriteRune(' ')
			prev = ' '
			continue
		}
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			spaced.WriteRune(' ')
		}
		spaced.WriteRune(r)
		prev = r
	}

	words := strings.Fields(spaced.String())
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// Pluralize converts a singular word to plural.
func Pluralize(word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return word
	}

	if strings.HasSuffix(word, "y") && len(word) > 1 {
		if !isVowel(rune(word[len(word)-2])) {
			return word[:len(word)-1] + "ies"
		}
	}
	if strings.HasSuffix(word, "s") || strings.HasSuffix(word, "x") || strings.HasSuffix(word, "z") ||
		strings.HasSuffix(word, "ch") || strings.HasSuffix(word, "sh") {
		return word + "es"
	}

	return word + "s"
}

// Singularize converts a plural word to singular.
func Singularize(word string) string {
	word = strings.TrimSpace(word)

	if strings.HasSuffix(word, "ies") {
		return word[:len(word)-3] + "y"
	}
	if strings.HasSuffix(word, "sses") || strings.HasSuffix(word, "xes") || strings.HasSuffix(word, "zes") {
		return word[:len(word)-2]
	}
	if strings.HasSuffix(word, "s") && !strings.HasSuffix(word, "ss") {
		return word[:len(word)-1]
	}

	return word
}

// EnumName derives the name of the enum backing a model field:
// the model name plus the pluralized, digit-normalized, title-cased field
// name with spaces removed. EnumName("Bug", "priority_2_level") returns
// "BugPriorityTwoLevels".
func EnumName(modelName, fieldName string) string {
	return modelName + Pluralize(ReplaceNumbersWithWords(titleNoSpace(fieldName)))
}

// EnumValueName normalizes a raw choice value into an identifier-safe enum
// option: title-cased, spaces removed, digits spelled out.
func EnumValueName(raw string) string {
	return ReplaceNumbersWithWords(titleNoSpace(raw))
}

// titleNoSpace title-cases the words of s and joins them without spaces:
// "priority_2_level" -> "Priority2Level", "inProgress" -> "InProgress".
func titleNoSpace(s string) string {
	return strings.ReplaceAll(TitleCase(s), " ", "")
}

// splitWords breaks s into words on underscores, hyphens, and lower-to-upper
// case boundaries, so snake_case, kebab-case, camelCase, and PascalCase input
// all produce the same word list.
func splitWords(s string) []string {
	var words []string
	var b strings.Builder
	var prev rune
	for i, r := range s {
		if r == '_' || r == '-' {
			if b.Len() > 0 {
				words = append(words, b.String())
				b.Reset()
			}
			prev = r
			continue
		}
		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
			words = append(words, b.String())
			b.Reset()
		}
		b.WriteRune(r)
		prev = r
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

// capitalize upper-cases the first rune of w and lower-cases the rest.
func capitalize(w string) string {
	if w == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

func isVowel(r rune) bool {
	r = unicode.ToLower(r)
	return r == 'a' || r == 'e' || r == 'i' || r == 'o' || r == 'u'
}
