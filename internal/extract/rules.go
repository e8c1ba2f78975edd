package extract

import "regexp"

// rule — именованная попытка извлечь поле. Правила одного поля перебираются по порядку,
// побеждает первое сработавшее.
type rule struct {
	name string
	re   *regexp.Regexp
}

// firstMatch возвращает подгруппы первого сработавшего правила.
func firstMatch(rules []rule, text string) (string, []string, bool) {
	for _, r := range rules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			return r.name, m, true
		}
	}

	return "", nil, false
}

const (
	word    = `\p{L}[\p{L}'’-]*`
	capWord = `\p{Lu}[\p{L}'’-]*`
)

// Имя: первое слово любое (диктовка часто без заглавных), второе — только с заглавной,
// чтобы не захватить продолжение фразы.
var nameRules = []rule{
	{"mon-nom-est", regexp.MustCompile(`(?i:mon\s+nom\s+(?:est|c'est))\s+(` + word + `(?:\s+` + capWord + `)?)`)},
	{"je-m-appelle", regexp.MustCompile(`(?i:je\s+m['’ ]?\s*appelle)\s+(` + word + `(?:\s+` + capWord + `)?)`)},
	{"arabic-ismi", regexp.MustCompile(`اسمي\s+(\p{Arabic}+(?:\s+\p{Arabic}+)?)`)},
	{"client-pour", regexp.MustCompile(`(?i:\b(?:client|pour))\s+(` + capWord + `(?:\s+` + capWord + `)?)`)},
	{"label", regexp.MustCompile(`(?i:\b(?:nom|client))\s*:\s*(` + word + `(?:\s+` + capWord + `)?)`)},
}

// Телефон: необязательный код страны, необязательный ведущий ноль, пары цифр через пробел, точку или дефис.
var phoneRules = []rule{
	{"grouped-pairs", regexp.MustCompile(`(?:^|[^\d+])((?:(?:\+|00)\d{2,3}[\s.-]?)?0?\d(?:[\s.-]?\d{2}){4})(?:\D|$)`)},
}

// Дата ищется в тексте без диакритики и в нижнем регистре.
const dateTrigger = `(?:livraison|pour\s+le|date)(?:\s+(?:est|du|le))*\s*:?\s*`

var dateRules = []rule{
	{"numeric", regexp.MustCompile(dateTrigger + `(\d{1,2})[/.-](\d{1,2})[/.-](\d{2}|\d{4})\b`)},
	{"month-name", regexp.MustCompile(dateTrigger + `(\d{1,2})(?:er)?\s+(janvier|fevrier|mars|avril|mai|juin|juillet|aout|septembre|octobre|novembre|decembre)\b`)},
}

var (
	numberRe = regexp.MustCompile(`\d+`)
	digitsRe = regexp.MustCompile(`\D`)
	fenceRe  = regexp.MustCompile("```(?:json)?\\s*")
)
