package output

import (
	"strings"

	"github.com/RakeemAI/Rakeem/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. English text doubles as the key so the English printer needs
// no catalog entries.
const (
	msgToday       = "today"
	msgTomorrow    = "tomorrow"
	msgYesterday   = "yesterday"
	msgInDays      = "in %d days"
	msgDaysAgo     = "%d days ago"
	msgNoDeadlines = "No deadlines in the selected window."
	msgDueDate     = "Due date"
	msgWhen        = "When"
	msgAuthority   = "Authority"
	msgCategory    = "Category"
	msgObligation  = "Obligation"
)

var weekdaysEnglish = []string{"Sat", "Sun", "Mon", "Tue", "Wed", "Thu", "Fri"}

var weekdaysArabic = []string{"سبت", "أحد", "اثنين", "ثلاثاء", "أربعاء", "خميس", "جمعة"}

func init() {
	ar := language.Arabic
	_ = message.SetString(ar, msgToday, "اليوم")
	_ = message.SetString(ar, msgTomorrow, "غدًا")
	_ = message.SetString(ar, msgYesterday, "أمس")
	_ = message.SetString(ar, msgInDays, "بعد %d يوم")
	_ = message.SetString(ar, msgDaysAgo, "منذ %d يوم")
	_ = message.SetString(ar, msgNoDeadlines, "لا توجد مواعيد استحقاق ضمن الفترة المحددة.")
	_ = message.SetString(ar, msgDueDate, "تاريخ الاستحقاق")
	_ = message.SetString(ar, msgWhen, "المتبقي")
	_ = message.SetString(ar, msgAuthority, "الجهة")
	_ = message.SetString(ar, msgCategory, "الفئة")
	_ = message.SetString(ar, msgObligation, "الالتزام")
}

// LanguageTag maps a configured language code onto a language tag. Anything
// other than Arabic falls back to English.
func LanguageTag(lang string) language.Tag {
	if strings.EqualFold(strings.TrimSpace(lang), constants.LanguageArabic) {
		return language.Arabic
	}
	return language.English
}

// NewPrinter returns a message printer for the configured language.
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(LanguageTag(lang))
}

// RelativeDays renders a day offset as "today", "tomorrow", "in N days" or
// "N days ago" in the printer's language.
func RelativeDays(p *message.Printer, days int) string {
	switch {
	case days == 0:
		return p.Sprintf(msgToday)
	case days == 1:
		return p.Sprintf(msgTomorrow)
	case days == -1:
		return p.Sprintf(msgYesterday)
	case days > 1:
		return p.Sprintf(msgInDays, days)
	default:
		return p.Sprintf(msgDaysAgo, -days)
	}
}

func weekdayNames(lang string) []string {
	if LanguageTag(lang) == language.Arabic {
		return weekdaysArabic
	}
	return weekdaysEnglish
}
