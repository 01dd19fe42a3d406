package discord

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alejandrodnm/bingobot/internal/bingo"
	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mock ---

type mockReporter struct {
	reportErr   error
	resortErr   error
	reportCalls int
	resortCalls int
	lastOwner   string
	lastSpec    domain.SortSpec
}

func (m *mockReporter) Report(_ context.Context, ownerID string, spec domain.SortSpec) (bingo.Session, error) {
	m.reportCalls++
	m.lastOwner, m.lastSpec = ownerID, spec
	if m.reportErr != nil {
		return bingo.Session{}, m.reportErr
	}
	return testSession(ownerID, spec), nil
}

func (m *mockReporter) Resort(_ context.Context, sessionID, userID string, spec domain.SortSpec) (bingo.Session, error) {
	m.resortCalls++
	m.lastSpec = spec
	if m.resortErr != nil {
		return bingo.Session{}, m.resortErr
	}
	s := testSession(userID, spec)
	s.ID = sessionID
	return s, nil
}

func testSession(owner string, spec domain.SortSpec) bingo.Session {
	vals := []domain.Valuation{
		{
			ItemID: "BINGO_RING", MarketPrice: 12_500_000, PrerequisiteCost: 2_000_000,
			NetProfit: 10_500_000, PointsSpent: 150, CoinsPerPoint: 70_000,
			Prices: domain.PriceRecord{LowestActive: domain.PriceOf(12_500_000)},
		},
		{
			ItemID: "BINGO_CARD", PointsSpent: 50,
			Prices: domain.PriceRecord{LastWeekLowest: domain.PriceOf(4_000_000), LastWeekAverage: domain.PriceOf(5_000_000)},
		},
	}
	return bingo.Session{
		ID:         "sess-1",
		OwnerID:    owner,
		Sort:       spec,
		Valuations: vals,
		Ranked:     domain.Rank(vals, spec),
		FetchedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestBot(t *testing.T, r Reporter) *Bot {
	t.Helper()
	b, err := New(Config{Token: "test-token"}, r)
	require.NoError(t, err)
	return b
}

// --- tests ---

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Config{}, &mockReporter{})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	b := newTestBot(t, &mockReporter{})
	assert.Equal(t, "!", b.cfg.Prefix)
	assert.Equal(t, bingo.DefaultConfig().SessionTTL, b.cfg.SessionTTL)
}

func TestBot_Report_PassesSortAndOwner(t *testing.T) {
	m := &mockReporter{}
	b := newTestBot(t, m)

	r := b.report("user-1", []string{"net", "asc"})
	require.NoError(t, r.Err)
	assert.Equal(t, "user-1", m.lastOwner)
	assert.Equal(t, domain.SortSpec{Field: domain.SortNetProfit, Direction: domain.Ascending}, m.lastSpec)
	assert.Equal(t, "sess-1", r.Session.ID)
}

func TestBot_Report_InvalidSortDoesNotFetch(t *testing.T) {
	m := &mockReporter{}
	b := newTestBot(t, m)

	r := b.report("user-1", []string{"points"})
	require.Error(t, r.Err)
	assert.True(t, r.Ephemeral)
	assert.Equal(t, 0, m.reportCalls)
}

func TestBot_Report_Unavailable(t *testing.T) {
	m := &mockReporter{reportErr: fmt.Errorf("bingo.Refresh: %w", bingo.ErrUnavailable)}
	b := newTestBot(t, m)

	r := b.report("user-1", nil)
	require.Error(t, r.Err)
	assert.Contains(t, r.Content, "try again")
}

func TestBot_Report_UnexpectedErrorIsGeneric(t *testing.T) {
	m := &mockReporter{reportErr: errors.New("boom: nil map")}
	b := newTestBot(t, m)

	r := b.report("user-1", nil)
	require.Error(t, r.Err)
	assert.Equal(t, "Something went wrong while computing the results.", r.Content)
	assert.NotContains(t, r.Content, "boom")
}

func TestBot_Resort_NotOwner(t *testing.T) {
	m := &mockReporter{resortErr: fmt.Errorf("bingo.Resort x: %w", bingo.ErrNotOwner)}
	b := newTestBot(t, m)

	r := b.resort("sess-1", "intruder", domain.DefaultSort())
	require.Error(t, r.Err)
	assert.True(t, r.Ephemeral)
	assert.Contains(t, r.Content, "Only the user who ran the command")
}

func TestBot_Resort_Expired(t *testing.T) {
	m := &mockReporter{resortErr: bingo.ErrSessionNotFound}
	b := newTestBot(t, m)

	r := b.resort("gone", "user-1", domain.DefaultSort())
	require.Error(t, r.Err)
	assert.Contains(t, r.Content, "Run the command again")
}

func TestBot_SessionForMessage(t *testing.T) {
	b := newTestBot(t, &mockReporter{})
	b.messages.SetDefault("msg-1", "sess-1")

	id, ok := b.sessionForMessage("msg-1")
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)

	_, ok = b.sessionForMessage("msg-2")
	assert.False(t, ok)
}

func TestRenderEmbed(t *testing.T) {
	sess := testSession("user-1", domain.DefaultSort())
	e := renderEmbed(sess)

	require.Len(t, e.Fields, 2)
	assert.Equal(t, "#1 BINGO_RING", e.Fields[0].Name)
	assert.Contains(t, e.Fields[0].Value, "Net Profit: 10.5M coins")
	assert.Contains(t, e.Fields[1].Value, "No Active BIN Auctions Found.")
	assert.Contains(t, e.Description, "Coins per point (highest first)")
	assert.Contains(t, e.Description, "Data last updated at 2026-03-01 12:00:00 UTC")
	assert.Equal(t, "session sess-1", e.Footer.Text)
}

func TestRenderEmbed_Stale(t *testing.T) {
	sess := testSession("user-1", domain.DefaultSort())
	assert.NotContains(t, renderEmbed(sess).Description, "previous prices")

	sess.Stale = true
	e := renderEmbed(sess)
	assert.Contains(t, e.Description, "The last refresh failed")
	assert.Equal(t, staleColor, e.Color)
}

func TestRenderEmbed_FieldLimit(t *testing.T) {
	sess := testSession("u", domain.DefaultSort())
	for i := 0; i < 30; i++ {
		sess.Ranked = append(sess.Ranked, domain.Valuation{ItemID: fmt.Sprintf("X%d", i)})
	}
	assert.Len(t, renderEmbed(sess).Fields, maxEmbedFields)
}

func TestSortMenu_MarksCurrentSort(t *testing.T) {
	sess := testSession("u", domain.SortSpec{Field: domain.SortNetProfit, Direction: domain.Ascending})
	rows := sortMenu(sess)
	require.Len(t, rows, 1)

	row, ok := rows[0].(discordgo.ActionsRow)
	require.True(t, ok)
	menu, ok := row.Components[0].(discordgo.SelectMenu)
	require.True(t, ok)

	// El custom id lleva la sesión para poder reordenarla después.
	assert.Equal(t, sortMenuID("sess-1"), menu.CustomID)
	require.Len(t, menu.Options, 4)
	for _, o := range menu.Options {
		assert.Equal(t, o.Value == "net_profit:asc", o.Default, o.Value)
	}
}

func TestSlashCommand_Options(t *testing.T) {
	cmd := slashCommand()
	assert.Equal(t, "bingo", cmd.Name)
	require.Len(t, cmd.Options, 2)
	assert.Equal(t, "sort", cmd.Options[0].Name)
	assert.Equal(t, "order", cmd.Options[1].Name)
}
