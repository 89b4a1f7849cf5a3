package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"

	"github.com/xtding233/tavern-gambit/internal/economy"
	"github.com/xtding233/tavern-gambit/internal/model"
	"github.com/xtding233/tavern-gambit/internal/round"
	"github.com/xtding233/tavern-gambit/internal/tavern"
)

const cardWidth = 14

type renderer struct {
	w     io.Writer
	width int
	tty   bool
}

func newRenderer(f *os.File) *renderer {
	r := &renderer{w: f, width: 80}
	fd := int(f.Fd())
	r.tty = term.IsTerminal(fd)
	if !r.tty {
		colorize.NoColor = true
		return r
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		r.width = w
	}
	return r
}

func rarityColor(r model.Rarity) *colorize.Color {
	switch r {
	case model.UltraRare:
		return colorize.New(colorize.FgHiMagenta, colorize.Bold)
	case model.Rare:
		return colorize.New(colorize.FgHiYellow)
	case model.Uncommon:
		return colorize.New(colorize.FgHiCyan)
	default:
		return colorize.New(colorize.FgWhite)
	}
}

func resourceColor(t model.ResourceType) *colorize.Color {
	if t == model.Gold {
		return colorize.New(colorize.FgYellow)
	}
	return colorize.New(colorize.FgGreen)
}

func (r *renderer) clear() {
	if r.tty {
		fmt.Fprint(r.w, "\033[H\033[2J")
	}
}

func (r *renderer) inventory(v tavern.View) {
	fmt.Fprintf(r.w, "%s %s   %s %s   %s %d/%d   %s %d/%d\n",
		colorize.CyanString("Gold:"), resourceColor(model.Gold).Sprint(v.Inventory[model.Gold]),
		colorize.CyanString("Materials:"), resourceColor(model.Materials).Sprint(v.Inventory[model.Materials]),
		colorize.CyanString("Luck:"), v.Upgrades.LuckLevel, v.Shop[0].MaxLevel,
		colorize.CyanString("Cards:"), v.Upgrades.MaxCardsLevel, v.Shop[1].MaxLevel)
}

func (r *renderer) shop(v tavern.View) {
	fmt.Fprintln(r.w, colorize.HiWhiteString("Shop"))
	for _, q := range v.Shop {
		label := fmt.Sprintf("  %-6s lvl %2d/%-2d  ", q.Track, q.Level, q.MaxLevel)
		switch {
		case q.Maxed:
			fmt.Fprintln(r.w, label+colorize.HiMagentaString("MASTERED"))
		case q.Affordable:
			fmt.Fprintln(r.w, label+colorize.GreenString("%s", costString(q.Cost)))
		default:
			fmt.Fprintln(r.w, label+colorize.RedString("%s (short on %s)", costString(q.Cost), joinTypes(q.Short)))
		}
	}
}

func costString(c model.Cost) string {
	var parts []string
	for _, t := range model.ResourceTypes {
		if n, ok := c[t]; ok {
			parts = append(parts, fmt.Sprintf("%d %s", n, t))
		}
	}
	return strings.Join(parts, " + ")
}

func joinTypes(ts []model.ResourceType) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

func (r *renderer) cards(v tavern.View) {
	perRow := r.width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
	}
	for start := 0; start < len(v.Cards); start += perRow {
		end := start + perRow
		if end > len(v.Cards) {
			end = len(v.Cards)
		}
		row := v.Cards[start:end]
		var top, mid, bot []string
		for i, c := range row {
			face := r.face(c, start+i+1)
			top = append(top, "+"+strings.Repeat("-", cardWidth-2)+"+")
			mid = append(mid, face)
			bot = append(bot, "+"+strings.Repeat("-", cardWidth-2)+"+")
		}
		fmt.Fprintln(r.w, strings.Join(top, "  "))
		fmt.Fprintln(r.w, strings.Join(mid, "  "))
		fmt.Fprintln(r.w, strings.Join(bot, "  "))
	}
}

func (r *renderer) face(c tavern.CardView, n int) string {
	inner := cardWidth - 2
	pad := func(s string) string {
		if len(s) > inner {
			s = s[:inner]
		}
		left := (inner - len(s)) / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", inner-len(s)-left)
	}
	switch {
	case c.Revealed:
		res := c.Resource
		text := pad(fmt.Sprintf("%d %s", res.Amount, res.Type))
		return "|" + rarityColor(res.Rarity).Sprint(text) + "|"
	case c.Hidden:
		return "|" + pad("") + "|"
	case c.Disabled:
		return "|" + colorize.HiBlackString(pad("?")) + "|"
	default:
		return "|" + colorize.HiWhiteString(pad(fmt.Sprintf("[%d]", n))) + "|"
	}
}

func (r *renderer) status(v tavern.View) {
	switch {
	case v.ShopOpen:
		fmt.Fprintln(r.w, colorize.HiBlackString("Shop open: buy luck | buy cards | shop to close"))
	case v.Phase == round.Revealed:
		for _, c := range v.Cards {
			if c.Chosen {
				res := c.Resource
				fmt.Fprintf(r.w, "%s %s\n", rarityColor(res.Rarity).Sprint(res.Rarity), resourceColor(res.Type).Sprintf("+%d %s", res.Amount, res.Type))
			}
		}
	case v.Phase == round.Resetting:
		fmt.Fprintln(r.w, colorize.HiBlackString("Shuffling..."))
	default:
		fmt.Fprintf(r.w, "Pick a card 1-%d, shop, reset or quit\n", len(v.Cards))
	}
}

// board redraws the whole play screen.
func (r *renderer) board(v tavern.View) {
	r.clear()
	r.inventory(v)
	fmt.Fprintln(r.w)
	r.cards(v)
	fmt.Fprintln(r.w)
	if v.ShopOpen {
		r.shop(v)
		fmt.Fprintln(r.w)
	}
	r.status(v)
	fmt.Fprint(r.w, "> ")
}

func (r *renderer) purchased(v tavern.View, id economy.TrackID) {
	fmt.Fprintf(r.w, "%s %s is now level %d\n", colorize.GreenString("Bought"), id, economy.Level(v.Upgrades, id))
}

func (r *renderer) rejected(v tavern.View, id economy.TrackID) {
	for _, q := range v.Shop {
		if q.Track != id {
			continue
		}
		if q.Maxed {
			fmt.Fprintf(r.w, "%s %s is mastered\n", colorize.RedString("No sale:"), id)
		} else {
			fmt.Fprintf(r.w, "%s %s costs %s\n", colorize.RedString("No sale:"), id, costString(q.Cost))
		}
	}
}
