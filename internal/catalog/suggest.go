package catalog

import (
	"sort"
	"strings"

	"github.com/blackeyes972/budget-familiare/internal/models"
)

// categoryKeywords maps transaction descriptions to catalog names by
// substring. Purely advisory; nothing blocks on a miss.
var categoryKeywords = map[string]map[string][]string{
	models.TypeIncome: {
		"💼 Salary":      {"salary", "wage", "payroll", "paycheck"},
		"💻 Freelance":   {"freelance", "consulting", "project", "contract"},
		"📈 Investments": {"dividend", "interest", "yield", "investment"},
		"🎁 Bonus":       {"bonus", "prize", "award", "extra"},
		"↩️ Refunds":    {"refund", "reimbursement", "return"},
	},
	models.TypeExpense: {
		"🏠 Housing":    {"rent", "mortgage", "condo", "housing", "real estate"},
		"🛒 Groceries":  {"supermarket", "grocery", "groceries", "food", "market"},
		"💡 Utilities":  {"bill", "electricity", "gas", "water", "internet", "phone"},
		"🚗 Transport":  {"fuel", "petrol", "train", "bus", "metro", "taxi"},
		"🏥 Health":     {"doctor", "pharmacy", "hospital", "health", "dentist"},
		"🎉 Leisure":    {"cinema", "restaurant", "bar", "theatre", "concert"},
		"👕 Clothing":   {"clothes", "shoes", "clothing", "apparel"},
		"📱 Technology": {"amazon", "electronics", "technology", "computer", "phone"},
	},
}

// Suggest returns the names of catalog categories whose keywords occur
// in the description (case-folded substring match). Results keep the
// natural table order and are not ranked.
func Suggest(description, transactionType string) []string {
	descLower := strings.ToLower(description)
	var suggestions []string

	mapping, ok := categoryKeywords[transactionType]
	if !ok {
		return nil
	}
	// Iterate the catalog order, not the map, to keep output stable.
	for _, def := range DefaultCatalog {
		if def.Type != transactionType {
			continue
		}
		for _, keyword := range mapping[def.Name] {
			if strings.Contains(descLower, keyword) {
				suggestions = append(suggestions, def.Name)
				break
			}
		}
	}
	return suggestions
}

// iconKeywords maps category-name fragments to candidate icon glyphs.
var iconKeywords = map[string][]string{
	"salary":     {"💼", "💵", "🏦"},
	"freelance":  {"💻", "🖥️", "⌨️"},
	"investment": {"📈", "📊", "💹"},
	"bonus":      {"🎁", "🎉", "⭐"},
	"refund":     {"↩️", "🔄", "💶"},
	"house":      {"🏠", "🏡", "🔑"},
	"housing":    {"🏠", "🏡", "🔑"},
	"grocer":     {"🛒", "🍎", "🥖"},
	"food":       {"🍕", "🍽️", "🛒"},
	"utilit":     {"💡", "🔌", "🚿"},
	"transport":  {"🚗", "🚆", "⛽"},
	"car":        {"🚗", "🔧", "⛽"},
	"health":     {"🏥", "💊", "🩺"},
	"education":  {"📚", "🎓", "✏️"},
	"leisure":    {"🎉", "🎬", "🍿"},
	"travel":     {"✈️", "🧳", "🗺️"},
	"cloth":      {"👕", "👗", "👟"},
	"tech":       {"📱", "💻", "🎧"},
	"gift":       {"🎁", "💝", "🎀"},
	"tax":        {"💳", "🧾", "🏛️"},
	"pet":        {"🐕", "🐈", "🦴"},
	"sport":      {"⚽", "🏋️", "🏃"},
}

// defaultIcons are the fallback sets per transaction type.
var defaultIcons = map[string][]string{
	models.TypeIncome:  {"💰", "💵", "💶", "🪙", "🏦", "📈", "💼", "🎁"},
	models.TypeExpense: {"🔧", "🛒", "🏠", "💡", "🚗", "🎉", "👕", "📱"},
}

// maxIconSuggestions caps the icon list returned to pickers.
const maxIconSuggestions = 6

// SuggestIcons proposes icons for a category name using the same
// substring technique as Suggest. When nothing matches, the first few
// icons of the type's default set fill in. Duplicates are removed
// keeping the first occurrence; at most 6 icons come back.
func SuggestIcons(name, transactionType string) []string {
	nameLower := strings.ToLower(name)
	var icons []string

	keywords := make([]string, 0, len(iconKeywords))
	for keyword := range iconKeywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords) // stable output across calls

	for _, keyword := range keywords {
		if strings.Contains(nameLower, keyword) {
			icons = append(icons, iconKeywords[keyword]...)
		}
	}
	// defaults are a fallback, not padding for thin matches
	if len(icons) == 0 {
		icons = defaultIcons[transactionType]
	}

	seen := make(map[string]bool, len(icons))
	out := make([]string, 0, maxIconSuggestions)
	for _, icon := range icons {
		if seen[icon] {
			continue
		}
		seen[icon] = true
		out = append(out, icon)
		if len(out) == maxIconSuggestions {
			break
		}
	}
	return out
}
