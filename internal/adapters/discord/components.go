package discord

import (
	"fmt"
	"strings"

	"github.com/alejandrodnm/bingobot/internal/domain"
)

const sortMenuPrefix = "bingo_sort:"

// sortMenuID construye el custom id del menú de orden de una sesión.
func sortMenuID(sessionID string) string {
	return sortMenuPrefix + sessionID
}

// parseSortMenuID extrae el id de sesión de un custom id; ok=false si no es nuestro.
func parseSortMenuID(customID string) (string, bool) {
	id, ok := strings.CutPrefix(customID, sortMenuPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// sortChoice es una opción de orden con su reacción asociada.
type sortChoice struct {
	Emoji string
	Spec  domain.SortSpec
}

// sortChoices es el orden en que se muestran menú y reacciones.
var sortChoices = []sortChoice{
	{Emoji: "💎", Spec: domain.SortSpec{Field: domain.SortCoinsPerPoint, Direction: domain.Descending}},
	{Emoji: "🔻", Spec: domain.SortSpec{Field: domain.SortCoinsPerPoint, Direction: domain.Ascending}},
	{Emoji: "💰", Spec: domain.SortSpec{Field: domain.SortNetProfit, Direction: domain.Descending}},
	{Emoji: "📉", Spec: domain.SortSpec{Field: domain.SortNetProfit, Direction: domain.Ascending}},
}

// sortForEmoji devuelve el orden asociado a una reacción.
func sortForEmoji(name string) (domain.SortSpec, bool) {
	for _, c := range sortChoices {
		if c.Emoji == name {
			return c.Spec, true
		}
	}
	return domain.SortSpec{}, false
}

// sortValue codifica un orden como valor de opción del menú: "field:direction".
func sortValue(spec domain.SortSpec) string {
	return fmt.Sprintf("%s:%s", spec.Field, spec.Direction)
}

// parseSortValue es la inversa de sortValue.
func parseSortValue(v string) (domain.SortSpec, error) {
	field, dir, ok := strings.Cut(v, ":")
	if !ok {
		return domain.SortSpec{}, fmt.Errorf("%w: malformed value %q", domain.ErrInvalidSort, v)
	}
	return domain.ParseSort(field, dir)
}

// parsePrefixCommand reconoce "!bingo [sort] [order]" y devuelve los argumentos.
func parsePrefixCommand(content, prefix string) ([]string, bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || !strings.EqualFold(fields[0], prefix+commandName) {
		return nil, false
	}
	return fields[1:], true
}

// sortFromArgs interpreta los argumentos opcionales [sort] [order].
func sortFromArgs(args []string) (domain.SortSpec, error) {
	var field, dir string
	if len(args) > 0 {
		field = args[0]
	}
	if len(args) > 1 {
		dir = args[1]
	}
	return domain.ParseSort(field, dir)
}
