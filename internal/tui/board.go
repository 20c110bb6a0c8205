package tui

import (
	"strings"

	"github.com/jmylchreest/cardui/internal/model"
)

// Card is a popover anchor on the board.
type Card struct {
	Name  string
	Attrs model.DataAttrs
}

// Data implements model.Element.
func (c Card) Data(name string) string {
	return c.Attrs.Data(name)
}

// DefaultCards returns the demo board.
func DefaultCards() []Card {
	names := []string{"Chillwind Yeti", "Boulderfist Ogre", "Fireball", "Frostbolt", "Leeroy Jenkins"}
	cards := make([]Card, len(names))
	for i, name := range names {
		slug := strings.ReplaceAll(strings.ToLower(name), " ", "-")
		cards[i] = Card{
			Name: name,
			Attrs: model.DataAttrs{
				"toggle": "popover",
				"rel":    "popover",
				"img":    "/img/cards/" + slug + ".png",
			},
		}
	}
	return cards
}

// matchSelector reports whether the card matches a selector of the form
// [attr], [attr=value] or tag[attr=value]. Tags are ignored since every
// card is a button; "data-" attributes read the card's data attributes.
// Selectors without an attribute test match every card.
func matchSelector(selector string, c Card) bool {
	open := strings.IndexByte(selector, '[')
	if open < 0 || !strings.HasSuffix(selector, "]") {
		return true
	}
	inner := selector[open+1 : len(selector)-1]

	name, value, hasValue := strings.Cut(inner, "=")
	name = strings.TrimPrefix(strings.TrimSpace(name), "data-")
	got := c.Data(name)
	if !hasValue {
		return got != ""
	}
	return got == strings.Trim(strings.TrimSpace(value), `"'`)
}
