package catalog

import (
	"github.com/xonecas/tilawa/internal/api"
	"github.com/xonecas/tilawa/internal/constants"
)

// DefaultCategories is shown when neither the backend nor the local
// snapshot has categories.
func DefaultCategories() []api.Category {
	return []api.Category{
		{
			ID:    "structure",
			Title: "قرآن کی ساخت",
			Icon:  "fa-book-open",
			Questions: []string{
				"قرآن کتنے پاروں پر مشتمل ہے",
				"قرآن میں کتنی سورتیں ہیں",
				"سب سے طویل سورۃ کون سی ہے",
				"سب سے چھوٹی سورۃ کون سی ہے",
				"قرآن میں کتنے رکوع ہیں",
				"قرآن میں کتنے الفاظ ہیں",
				"قرآن میں کتنے حروف ہیں",
				"قرآن میں کتنی آیات ہیں",
			},
		},
		{
			ID:    "prophets",
			Title: "انبیاء کرام",
			Icon:  "fa-user",
			Questions: []string{
				"قرآن میں سب سے زیادہ ذکر کس نبی کا آیا ہے",
				"قرآن میں کتنی بار محمد ﷺ کا ذکر آیا ہے",
				"قرآن میں کتنی بار حضرت عیسیٰ علیہ السلام کا ذکر آیا ہے",
				"قرآن میں کتنی بار حضرت ابراہیم علیہ السلام کا ذکر آیا ہے",
			},
		},
		{
			ID:    "pillars",
			Title: "ارکان اسلام",
			Icon:  "fa-list",
			Questions: []string{
				"قرآن میں نماز کا ذکر کتنی بار آیا ہے",
				"قرآن میں روزے کا ذکر کتنی بار آیا ہے",
				"قرآن میں حج کا ذکر کتنی بار آیا ہے",
				"قرآن میں زکوٰۃ کا ذکر کتنی بار آیا ہے",
			},
		},
		{
			ID:    "revelation",
			Title: "وحی",
			Icon:  "fa-moon",
			Questions: []string{
				"قرآن میں سب سے پہلے نازل ہونے والی آیت کون سی ہے",
				"سب سے پہلی وحی کون سی تھی",
				"سب سے پہلی وحی کہاں نازل ہوئی",
				"قرآن کی آخری آیت کون سی ہے",
				"قرآن کو مکمل ہونے میں کتنے سال لگے",
				"قرآن کا سب سے پہلا اور آخری نزول کہاں ہوا",
			},
		},
		{
			ID:    "history",
			Title: "تاریخ",
			Icon:  "fa-history",
			Questions: []string{
				"قرآن میں سب سے پہلے ایمان لانے والی خاتون کون تھیں",
				"قرآن میں سب سے پہلے شہید ہونے والے صحابی کون تھے",
				"قرآن میں سب سے پہلے مسلمان ہونے والے مرد کون تھے",
				"قرآن میں سب سے پہلے مسلمان ہونے والے بچہ کون تھے",
				"قرآن میں سب سے پہلے ایمان لانے والے غلام کون تھے",
			},
		},
	}
}

// DefaultFacts holds the single fallback fact.
func DefaultFacts() []string {
	return []string{constants.FallbackFact}
}

// DefaultPopular mirrors the backend's popular-question selection.
func DefaultPopular() []string {
	return []string{
		"قرآن کتنے پاروں پر مشتمل ہے",
		"قرآن میں کتنی سورتیں ہیں",
		"سب سے طویل سورۃ کون سی ہے",
		"سب سے چھوٹی سورۃ کون سی ہے",
	}
}
