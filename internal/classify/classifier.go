package classify

import (
	"regexp"
	"strings"
)

// Category describes what kind of storefront entry an app name represents.
type Category string

const (
	CategoryGame         Category = "game"
	CategoryDLC          Category = "dlc"
	CategorySoundtrack   Category = "soundtrack"
	CategoryDemo         Category = "demo"
	CategoryTool         Category = "tool"
	CategoryMultiplayer  Category = "multiplayer_component"
	CategoryVideo        Category = "video"
	CategoryBonusContent Category = "bonus_content"
	CategoryBeta         Category = "beta"
)

// Result is the outcome of classifying a single app name.
type Result struct {
	Category       Category
	ShouldEnrich   bool
	MatchedPattern string // human-readable name of the rule that fired, "" if none
}

// EmptyNamePattern is reported for apps with no usable name. Such apps are
// still categorized as games but are never enriched.
const EmptyNamePattern = "empty or None name"

type rule struct {
	re       *regexp.Regexp
	category Category
	pattern  string
}

// Rules are evaluated in order and the first match wins, so more specific
// patterns come first. Separator anchors ([-\s]+ etc.) keep markers from
// firing inside compound words like "Multiplayerz" or "Demolition".
var rules = []rule{
	// Standalone multiplayer components (before generic DLC rules)
	{regexp.MustCompile(`(?i)[-\s]+(multiplayer|multi-player)\b`), CategoryMultiplayer, "multiplayer component"},

	// DLC
	{regexp.MustCompile(`(?i)[-\s]+dlc\b`), CategoryDLC, "DLC marker"},
	{regexp.MustCompile(`(?i)\bseason\s+pass\b`), CategoryDLC, "season pass"},
	{regexp.MustCompile(`(?i)[-:\s]+(expansion|blood\s+and\s+wine|phantom\s+liberty|shadow\s+of\s+the\s+erdtree)(\s+pack)?\b`), CategoryDLC, "expansion"},

	// Soundtracks
	{regexp.MustCompile(`(?i)[-\s]+(soundtrack|ost)\b`), CategorySoundtrack, "soundtrack"},
	{regexp.MustCompile(`(?i)\boriginal\s+soundtrack\b`), CategorySoundtrack, "original soundtrack"},

	// Demos (word boundary or separator at end so "Demolition" stays a game)
	{regexp.MustCompile(`(?i)(\s+demo\b|[-\s(]+demo[\s)]?$)`), CategoryDemo, "demo"},

	// Tools
	{regexp.MustCompile(`(?i)\bdedicated\s+server\b`), CategoryTool, "dedicated server"},
	{regexp.MustCompile(`(?i)[-\s]+sdk\b`), CategoryTool, "SDK"},
	{regexp.MustCompile(`(?i)[-\s]+editor\b`), CategoryTool, "editor"},
	{regexp.MustCompile(`(?i)\b(level|mod)\s+(editor|tool)\b`), CategoryTool, "modding tool"},

	// Video content
	{regexp.MustCompile(`(?i)[-\s]+trailer\b`), CategoryVideo, "trailer"},

	// Bonus content
	{regexp.MustCompile(`(?i)[-\s]+art\s*book\b`), CategoryBonusContent, "artbook"},
	{regexp.MustCompile(`(?i)\bbonus\s+content\b`), CategoryBonusContent, "bonus content"},
	{regexp.MustCompile(`(?i)\bdigital\s+(deluxe|artbook)\b`), CategoryBonusContent, "digital deluxe"},

	// Beta / test builds
	{regexp.MustCompile(`(?i)\bplaytest\b`), CategoryBeta, "playtest"},
	{regexp.MustCompile(`(?i)[-\s]+beta\b`), CategoryBeta, "beta"},
	{regexp.MustCompile(`(?i)[-\s]+test\b`), CategoryBeta, "test build"},
}

// Classify determines whether a storefront app name represents a full game
// worth enriching or supplementary content (DLC, soundtrack, demo, ...) to be
// filtered out. Pure and deterministic; never fails.
func Classify(name string) Result {
	if strings.TrimSpace(name) == "" {
		return Result{
			Category:       CategoryGame,
			ShouldEnrich:   false,
			MatchedPattern: EmptyNamePattern,
		}
	}

	for _, r := range rules {
		if r.re.MatchString(name) {
			return Result{
				Category:       r.category,
				ShouldEnrich:   false,
				MatchedPattern: r.pattern,
			}
		}
	}

	return Result{Category: CategoryGame, ShouldEnrich: true}
}

// IsGame reports whether the app should be treated as an enrichable game.
func IsGame(name string) bool {
	return Classify(name).ShouldEnrich
}
