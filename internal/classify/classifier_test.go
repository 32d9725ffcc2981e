package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_PlainGames(t *testing.T) {
	names := []string{
		"Dark Souls III",
		"Dota 2",
		"Team Fortress 2",
		"Cyberpunk 2077",
		"Half-Life: Alyx",
		"The Witcher 3: Wild Hunt",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			result := Classify(name)
			assert.Equal(t, CategoryGame, result.Category)
			assert.True(t, result.ShouldEnrich)
			assert.Empty(t, result.MatchedPattern)
		})
	}
}

func TestClassify_Markers(t *testing.T) {
	tests := []struct {
		name     string
		category Category
	}{
		{"Dark Souls III - Season Pass", CategoryDLC},
		{"Fallout 4 DLC", CategoryDLC},
		{"The Witcher 3: Blood and Wine", CategoryDLC},
		{"Cyberpunk 2077 - Phantom Liberty", CategoryDLC},
		{"Elden Ring: Shadow of the Erdtree", CategoryDLC},
		{"Dota 2 - Soundtrack", CategorySoundtrack},
		{"Celeste Original Soundtrack", CategorySoundtrack},
		{"Hades - OST", CategorySoundtrack},
		{"Hollow Knight Demo", CategoryDemo},
		{"Stray (Demo)", CategoryDemo},
		{"Counter-Strike Dedicated Server", CategoryTool},
		{"Source SDK", CategoryTool},
		{"Hammer Level Editor", CategoryTool},
		{"Skyrim Mod Tool", CategoryTool},
		{"Call of Duty - Multiplayer", CategoryMultiplayer},
		{"Halo Infinite Multi-Player", CategoryMultiplayer},
		{"Mass Effect - Trailer", CategoryVideo},
		{"Ori Digital Artbook", CategoryBonusContent},
		{"Persona 5 - Art Book", CategoryBonusContent},
		{"Deluxe Edition Bonus Content", CategoryBonusContent},
		{"Overwatch 2 Playtest", CategoryBeta},
		{"Diablo IV - Beta", CategoryBeta},
		{"Starfield Test", CategoryBeta},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.name)
			assert.Equal(t, tt.category, result.Category)
			assert.False(t, result.ShouldEnrich)
			assert.NotEmpty(t, result.MatchedPattern)
		})
	}
}

// Separator-anchored patterns must not fire inside larger words.
func TestClassify_CompoundWordGuard(t *testing.T) {
	names := []string{
		"Multiplayerz",
		"Demolition Derby",
		"Soundtracker Pro",
		"Betamax Chronicles",
		"Editorial",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			result := Classify(name)
			assert.Equal(t, CategoryGame, result.Category, "compound word misclassified")
			assert.True(t, result.ShouldEnrich)
		})
	}
}

func TestClassify_EmptyName(t *testing.T) {
	for _, name := range []string{"", "   ", "\t"} {
		result := Classify(name)
		assert.Equal(t, CategoryGame, result.Category)
		assert.False(t, result.ShouldEnrich)
		assert.Equal(t, EmptyNamePattern, result.MatchedPattern)
	}
}

// "multiplayer" must win over DLC suffix rules when both could apply.
func TestClassify_OrderMatters(t *testing.T) {
	result := Classify("Wolfenstein - Multiplayer DLC")
	assert.Equal(t, CategoryMultiplayer, result.Category)
}

func TestIsGame(t *testing.T) {
	assert.True(t, IsGame("Portal 2"))
	assert.False(t, IsGame("Portal 2 - Soundtrack"))
	assert.False(t, IsGame(""))
}
