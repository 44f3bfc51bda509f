// Package catalog provides the level-dependent chest item catalog.
//
// Canonical item names are the English names. Most canonical items carry a
// Chinese display name, and the alias index resolves Chinese names and common
// English spelling variants (curly apostrophes) back to the canonical name.
package catalog

import (
	"sort"
	"strings"

	"github.com/solatis/seedkeeper/internal/types"
)

// Catalog maps floor levels to the chest items that can appear there.
// Immutable after construction; safe for concurrent use.
type Catalog struct {
	levels  map[types.Level][]types.ItemName
	display map[types.ItemName]string
	aliases map[string]types.ItemName
}

// entry describes one canonical item and its Chinese display name, if any.
type entry struct {
	name types.ItemName
	zh   string
}

// remixedChoices is the remixed mine chest reward table.
var remixedChoices = map[types.Level][]entry{
	10: {
		{"Leather Boots", "皮靴"},
		{"Work Boots", "工作靴"},
		{"Wooden Blade", "木剑"},
		{"Iron Dirk", "铁制短剑"},
		{"Wind Spire", "疾风利剑"},
		{"Femur", "股骨"},
	},
	20: {
		{"Steel Smallsword", "钢制轻剑"},
		{"Wood Club", "木棒"},
		{"Elf Blade", "精灵之刃"},
		{"Glow Ring", "光辉戒指"},
		{"Magnet Ring", "磁铁戒指"},
	},
	30: {{"(No chest)", "（无宝箱）"}},
	40: {{"Slingshot", ""}},
	50: {
		{"Tundra Boots", "冻土靴"},
		{"Thermal Boots", "热能靴"},
		{"Combat Boots", "战靴"},
		{"Silver Saber", "镀银军刀"},
		{"Pirate's Sword", "海盗剑"},
	},
	60: {
		{"Crystal Dagger", "水晶匕首"},
		{"Cutlass", "弯刀"},
		{"Iron Edge", "铁刃"},
		{"Burglar's Shank", "飞贼之胫"},
		{"Wood Mallet", "木锤"},
	},
	70: {{"Templar's Blade", "圣堂之刃"}},
	80: {
		{"Firewalker Boots", "蹈火者靴"},
		{"Dark Boots", "黑暗之靴"},
		{"Claymore", "双刃大剑"},
		{"Templar's Blade", "圣堂之刃"},
		{"Kudgel", "长柄锤"},
		{"Shadow Dagger", "暗影匕首"},
	},
	90: {
		{"Obsidian Edge", "黑曜石之刃"},
		{"Tempered Broadsword", "淬火阔剑"},
		{"Wicked Kris", "蛇形邪剑"},
		{"Bone Sword", "骨剑"},
		{"Ossified Blade", "骨化剑"},
	},
	100: {{"Stardrop", "星之果实"}},
	110: {
		{"Space Boots", "太空之靴"},
		{"Crystal Shoes", "水晶鞋"},
		{"Steel Falchion", "钢刀"},
		{"The Slammer", "巨锤"},
	},
	120: {{"Skull Key", "骷髅钥匙"}},
}

// Default returns the remixed mine chest catalog.
func Default() *Catalog {
	c := &Catalog{
		levels:  make(map[types.Level][]types.ItemName, len(remixedChoices)),
		display: make(map[types.ItemName]string),
		aliases: make(map[string]types.ItemName),
	}
	for level, entries := range remixedChoices {
		items := make([]types.ItemName, 0, len(entries))
		for _, e := range entries {
			items = append(items, e.name)
			c.display[e.name] = e.zh
			if e.zh != "" {
				c.aliases[e.zh] = e.name
			}
			// Curly apostrophe variant
			if variant := strings.ReplaceAll(string(e.name), "'", "’"); variant != string(e.name) {
				c.aliases[variant] = e.name
			}
		}
		c.levels[level] = items
	}
	return c
}

// Levels returns the catalog's floor levels in ascending order.
func (c *Catalog) Levels() []types.Level {
	levels := make([]types.Level, 0, len(c.levels))
	for l := range c.levels {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	return levels
}

// ItemsForLevel returns the items a chest on the given floor can hold.
// Unknown levels return nil. The returned slice must not be modified.
func (c *Catalog) ItemsForLevel(level types.Level) []types.ItemName {
	return c.levels[level]
}

// Contains reports whether item is a valid chest item on level.
func (c *Catalog) Contains(level types.Level, item types.ItemName) bool {
	for _, it := range c.levels[level] {
		if it == item {
			return true
		}
	}
	return false
}

// Normalize resolves an alias (Chinese name or spelling variant) to its
// canonical name. Unknown names are returned unchanged.
func (c *Catalog) Normalize(name string) types.ItemName {
	name = strings.TrimSpace(name)
	if _, ok := c.display[types.ItemName(name)]; ok {
		return types.ItemName(name)
	}
	if canonical, ok := c.aliases[name]; ok {
		return canonical
	}
	return types.ItemName(name)
}

// DisplayName returns the Chinese display name of a canonical item, falling
// back to the canonical name.
func (c *Catalog) DisplayName(item types.ItemName) string {
	if zh := c.display[item]; zh != "" {
		return zh
	}
	return string(item)
}
