package services

import (
	"fmt"
	"strings"

	"github.com/banglish/backend/internal/models"
)

// TransliterationRules is the fixed instruction block that precedes every
// translation prompt.
const TransliterationRules = `Convert the following Banglish text to proper Bengali (Bangla) text.
Only provide the Bengali translation, nothing else.
For example if the Banglish text is "tumi kemon acho" then the Bengali translation should be "তুমি কেমন আছো".
If the Banglish text is "ami valo achi" then the Bengali translation should be "আমি ভালো আছি".

Vowel mappings:
"o" means "ও", "a" means "আ", "e" means "এ", "i" means "ই", "u" means "উ", "oi" means "ঐ", "ou" means "ঔ"

Consonant mappings:
"b" means "ব", "d" means "দ", "g" means "গ", "r" means "র", "k" means "ক", "sh" means "শ",
"bh" means "ভ", "ch" means "ছ", "dh" means "ধ", "kh" means "খ", "ph" means "ফ", "th" means "থ",
"ng" means "ঙ", "gh" means "ঘ", "jh" means "ঝ", "rr" means "ঋ", "ny" means "ঞ"

Retroflex and aspirated consonants:
"T" means "ট", "Th" means "ঠ", "D" means "ড", "Dh" means "ঢ", "N" means "ণ"

Special clusters:
"tr" means "ত্র", "dr" means "দ্র", "kr" means "ক্র", "gr" means "গ্র", "pr" means "প্র",
"br" means "ব্র", "sr" means "স্র", "shri" means "শ্রী", "hr" means "হ্র", "jy" means "জ্ঞ",
"gy" means "গ্য", "tw" means "ত্ব", "dv" means "দ্ব"

Word examples:
- "আমার" for "amar"
- "ঈগল" for "Igol" or "eegol"
- "কী" for "kI"
- "উজান" for "ujan" or "oojan"
- "বুঝি" for "bujhi" or "boojhi"
- "দূর" for "dUr"
- "ঋজু" for "rriju"
- "গৃহ" for "grriho"
- "এমন" for "emon"
- "ঐরাবত" for "OIrabot"
- "কৈ" for "kOI"
- "ওতপ্রোত" for "OtoprOto"
- "ঔপদেশিক" for "OUpodeshik"`

const examplesHeading = "Examples contributed by users:"

// RenderExamples turns contributions into few-shot lines. Each contribution
// yields exactly one line, plus one indented context line when it carries
// feedback. An empty input yields "".
func RenderExamples(contributions []models.Contribution) string {
	if len(contributions) == 0 {
		return ""
	}

	lines := make([]string, 0, len(contributions))
	for _, c := range contributions {
		lines = append(lines, fmt.Sprintf(`- "%s" for "%s"`, oneLine(c.Bengali), oneLine(c.Banglish)))
		if fb := oneLine(c.Feedback); fb != "" {
			lines = append(lines, "  Context: "+fb)
		}
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt composes rules, the optional examples block and the user input,
// in that order.
func BuildPrompt(userText, staticRules, examplesBlock string) string {
	var sb strings.Builder

	sb.WriteString(strings.TrimSpace(staticRules))
	sb.WriteString("\n\n")

	if examplesBlock != "" {
		sb.WriteString(examplesHeading)
		sb.WriteString("\n")
		sb.WriteString(examplesBlock)
		sb.WriteString("\n\n")
	}

	sb.WriteString("Banglish: ")
	sb.WriteString(userText)
	return sb.String()
}

// oneLine collapses all whitespace runs, newlines included, to single spaces.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
