package corpus

import (
	"image"
	"regexp"
	"strings"
)

// Category labels one bucket of the corpus taxonomy.
type Category string

// Unknown is the guaranteed fallback category. Every classification
// resolves to a listed category or to Unknown, never to anything else.
const Unknown Category = "unknown"

// Rule associates a category with the name fragments that select it.
// Substrings match anywhere in the lowercased name or path; Patterns are
// compiled regular expressions for the few cases a substring cannot
// express.
type Rule struct {
	Category   Category
	Substrings []string
	Patterns   []*regexp.Regexp
}

// RuleTable is an ordered list of rules. Order is part of the
// classification contract: when a name matches rules for two categories,
// the one listed earlier always wins.
type RuleTable []Rule

// Categories returns the table's categories in order, with Unknown
// appended as the final fallback.
func (t RuleTable) Categories() []Category {
	out := make([]Category, 0, len(t)+1)
	for _, r := range t {
		out = append(out, r.Category)
	}
	return append(out, Unknown)
}

// ExtractionRules categorizes objects decoded out of asset bundles by
// their internal names.
var ExtractionRules = RuleTable{
	{
		Category:   "cards",
		Substrings: []string{"commandcard", "command_card"},
		Patterns:   []*regexp.Regexp{regexp.MustCompile(`card_.*_(buster|arts|quick)`)},
	},
	{Category: "servants", Substrings: []string{"servant_", "svt_", "chara_", "face_", "status_servant"}},
	{Category: "enemies", Substrings: []string{"enemy_", "mob_", "monster_"}},
	{Category: "skills", Substrings: []string{"skill_", "buff_", "debuff_", "skillicon"}},
	{Category: "class_icons", Substrings: []string{"classicon", "class_", "icon_class"}},
	{Category: "np", Substrings: []string{"noble_", "np_", "phantasm"}},
	{Category: "ui", Substrings: []string{"btn_", "button_", "ui_", "frame_", "window_", "dialog_"}},
	{Category: "backgrounds", Substrings: []string{"bg_", "background_", "battle_bg", "field_"}},
}

// APKRules sorts loose image files found in an unpacked application
// package, matching against both the file name and its relative path.
// The fragments are broader than ExtractionRules because package paths
// carry more context than bundle object names.
var APKRules = RuleTable{
	{Category: "cards", Substrings: []string{"card", "command", "cmd_"}},
	{Category: "servants", Substrings: []string{"servant", "svt", "chara", "face"}},
	{Category: "enemies", Substrings: []string{"enemy", "mob"}},
	{Category: "ui", Substrings: []string{"btn", "button", "ui", "icon", "frame"}},
	{Category: "skills", Substrings: []string{"skill", "buff", "debuff"}},
	{Category: "class_icons", Substrings: []string{"class", "classicon"}},
	{Category: "backgrounds", Substrings: []string{"bg", "background", "battle"}},
}

// CardRules classifies command card images into their card types. The
// color fallback applies only to this taxonomy.
var CardRules = RuleTable{
	{Category: "buster", Substrings: []string{"buster"}},
	{Category: "arts", Substrings: []string{"arts"}},
	{Category: "quick", Substrings: []string{"quick"}},
	{Category: "np", Substrings: []string{"np", "noble", "phantasm"}},
}

// Categorizer assigns assets to categories using an injected rule table.
// The table is used as given and treated as immutable.
type Categorizer struct {
	rules     RuleTable
	threshold float64
}

// CategorizerOption configures a Categorizer.
type CategorizerOption func(*Categorizer)

// WithColorFallback enables center-region color classification for names
// the rule table does not match. The threshold is the minimum mean channel
// value (0-255) a color must reach to claim the image.
func WithColorFallback(threshold float64) CategorizerOption {
	return func(c *Categorizer) {
		c.threshold = threshold
	}
}

// NewCategorizer returns a categorizer over the given table.
func NewCategorizer(rules RuleTable, opts ...CategorizerOption) *Categorizer {
	c := &Categorizer{rules: rules}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize maps a name and path to a category. Both are lowercased and
// every rule's fragments are tested against both; the first matching rule
// in table order decides. Names matching nothing come back as Unknown,
// never as an error.
func (c *Categorizer) Categorize(name, path string) Category {
	name = strings.ToLower(name)
	path = strings.ToLower(path)

	for _, rule := range c.rules {
		for _, sub := range rule.Substrings {
			if strings.Contains(name, sub) || strings.Contains(path, sub) {
				return rule.Category
			}
		}
		for _, pat := range rule.Patterns {
			if pat.MatchString(name) || pat.MatchString(path) {
				return rule.Category
			}
		}
	}
	return Unknown
}

// CategorizeImage is Categorize with the color fallback: when the name
// and path match no rule and a fallback threshold is configured, the
// image's center region decides. A nil image or an unconfigured fallback
// yields Unknown.
func (c *Categorizer) CategorizeImage(name, path string, img image.Image) Category {
	if cat := c.Categorize(name, path); cat != Unknown {
		return cat
	}
	if c.threshold <= 0 || img == nil {
		return Unknown
	}
	return classifyByColor(img, c.threshold)
}
