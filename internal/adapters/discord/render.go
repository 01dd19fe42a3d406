package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/bingobot/internal/bingo"
	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/bwmarrin/discordgo"
)

const (
	embedColor     = 0x2ecc71
	staleColor     = 0xe67e22
	maxEmbedFields = 25
)

// renderEmbed construye el embed de una sesión: un campo por item en el orden de la sesión.
func renderEmbed(sess bingo.Session) *discordgo.MessageEmbed {
	fields := make([]*discordgo.MessageEmbedField, 0, len(sess.Ranked))
	for i, v := range sess.Ranked {
		if i >= maxEmbedFields {
			break
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s", i+1, v.ItemID),
			Value: strings.Join(domain.SummaryLines(v), "\n"),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Bingo shop profitability",
		Description: fmt.Sprintf("Sorted by: **%s**\nData last updated at %s", sess.Sort.Label(), updatedAt(sess.FetchedAt)),
		Color:       embedColor,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "session " + sess.ID},
	}
	if sess.Stale {
		embed.Description += "\n⚠️ The last refresh failed, these are the previous prices."
		embed.Color = staleColor
	}
	if !sess.FetchedAt.IsZero() {
		embed.Timestamp = sess.FetchedAt.Format(time.RFC3339)
	}
	return embed
}

func updatedAt(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}

// sortMenu devuelve la fila con el menú de orden, marcando el orden actual.
func sortMenu(sess bingo.Session) []discordgo.MessageComponent {
	options := make([]discordgo.SelectMenuOption, 0, len(sortChoices))
	for _, c := range sortChoices {
		options = append(options, discordgo.SelectMenuOption{
			Label:   c.Emoji + " " + c.Spec.Label(),
			Value:   sortValue(c.Spec),
			Default: c.Spec == sess.Sort,
		})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    sortMenuID(sess.ID),
					Placeholder: "Sort results",
					Options:     options,
				},
			},
		},
	}
}

// userMessage traduce un error a lo que ve el usuario.
// ephemeral indica si solo debe verlo quien provocó el error.
func userMessage(err error) (msg string, ephemeral bool) {
	switch {
	case errors.Is(err, bingo.ErrUnavailable):
		return "Market data is not available right now. Please try again in a minute.", false
	case errors.Is(err, bingo.ErrNotOwner):
		return "Only the user who ran the command can re-sort these results.", true
	case errors.Is(err, bingo.ErrSessionNotFound):
		return "These results have expired. Run the command again.", true
	case errors.Is(err, domain.ErrInvalidSort):
		return "Unknown sort option. Use `coins_per_point` or `net_profit`, then `desc` or `asc`.", true
	default:
		return "Something went wrong while computing the results.", false
	}
}
