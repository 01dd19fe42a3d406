package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/alejandrodnm/bingobot/internal/bingo"
	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/bwmarrin/discordgo"
	gocache "github.com/patrickmn/go-cache"
)

const (
	commandName   = "bingo"
	defaultPrefix = "!"
)

// Reporter es la operación única que hay detrás de los dos comandos.
// La implementa *bingo.Service.
type Reporter interface {
	Report(ctx context.Context, ownerID string, spec domain.SortSpec) (bingo.Session, error)
	Resort(ctx context.Context, sessionID, userID string, spec domain.SortSpec) (bingo.Session, error)
}

// Config agrupa los parámetros del bot.
type Config struct {
	Token      string
	GuildID    string // vacío = comando global
	Prefix     string
	SessionTTL time.Duration
}

// Bot conecta Discord con el Reporter: slash command, comando con prefijo,
// menú de orden y reacciones.
type Bot struct {
	cfg      Config
	reporter Reporter
	dg       *discordgo.Session

	// messages mapea id de mensaje → id de sesión, para las reacciones.
	messages *gocache.Cache

	ctx     context.Context
	command *discordgo.ApplicationCommand
}

// reply es lo que hay que enviar al usuario tras una operación.
type reply struct {
	Session   bingo.Session
	Content   string
	Ephemeral bool
	Err       error
}

// New crea el bot sin conectarlo.
func New(cfg Config, reporter Reporter) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord.New: empty token")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = bingo.DefaultConfig().SessionTTL
	}

	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord.New: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	b := &Bot{
		cfg:      cfg,
		reporter: reporter,
		dg:       dg,
		messages: gocache.New(cfg.SessionTTL, cfg.SessionTTL),
		ctx:      context.Background(),
	}
	dg.AddHandler(b.onInteraction)
	dg.AddHandler(b.onMessage)
	dg.AddHandler(b.onReaction)
	return b, nil
}

// Start abre el gateway y registra el slash command.
// ctx se usa para todas las operaciones que disparen los handlers.
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("discord.Start: open gateway: %w", err)
	}

	cmd, err := b.dg.ApplicationCommandCreate(b.dg.State.User.ID, b.cfg.GuildID, slashCommand())
	if err != nil {
		_ = b.dg.Close()
		return fmt.Errorf("discord.Start: register /%s: %w", commandName, err)
	}
	b.command = cmd

	slog.Info("discord bot connected",
		"user", b.dg.State.User.Username,
		"guild", b.cfg.GuildID,
		"prefix", b.cfg.Prefix+commandName,
	)
	return nil
}

// Close desregistra el comando (solo si es de guild) y cierra el gateway.
func (b *Bot) Close() error {
	if b.command != nil && b.cfg.GuildID != "" {
		if err := b.dg.ApplicationCommandDelete(b.dg.State.User.ID, b.cfg.GuildID, b.command.ID); err != nil {
			slog.Warn("failed to remove slash command", "err", err)
		}
	}
	if err := b.dg.Close(); err != nil {
		return fmt.Errorf("discord.Close: %w", err)
	}
	return nil
}

// slashCommand define /bingo [sort] [order].
func slashCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        commandName,
		Description: "Rank Bingo shop items by profitability",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "sort",
				Description: "Metric to sort by",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Coins per point", Value: string(domain.SortCoinsPerPoint)},
					{Name: "Net profit", Value: string(domain.SortNetProfit)},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "order",
				Description: "Sort direction",
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Highest first", Value: string(domain.Descending)},
					{Name: "Lowest first", Value: string(domain.Ascending)},
				},
			},
		},
	}
}

// --- lógica común a los dos comandos ---

// report ejecuta el comando para ownerID. Los errores se traducen a un mensaje.
func (b *Bot) report(ownerID string, args []string) reply {
	spec, err := sortFromArgs(args)
	if err != nil {
		return failure(err)
	}
	sess, err := b.reporter.Report(b.ctx, ownerID, spec)
	if err != nil {
		logUnexpected("report", ownerID, err)
		return failure(err)
	}
	return reply{Session: sess}
}

// resort reordena la sesión a petición de userID.
func (b *Bot) resort(sessionID, userID string, spec domain.SortSpec) reply {
	sess, err := b.reporter.Resort(b.ctx, sessionID, userID, spec)
	if err != nil {
		logUnexpected("resort", userID, err)
		return failure(err)
	}
	return reply{Session: sess}
}

func failure(err error) reply {
	msg, ephemeral := userMessage(err)
	return reply{Content: msg, Ephemeral: ephemeral, Err: err}
}

// logUnexpected registra los errores que no son parte del flujo normal.
func logUnexpected(op, userID string, err error) {
	switch {
	case errors.Is(err, bingo.ErrNotOwner), errors.Is(err, bingo.ErrSessionNotFound):
		slog.Debug("rejected "+op, "user", userID, "err", err)
	case errors.Is(err, bingo.ErrUnavailable):
		slog.Warn(op+" unavailable", "user", userID, "err", err)
	default:
		slog.Error(op+" failed", "user", userID, "err", err)
	}
}

// guard evita que un panic en un handler tumbe el proceso.
func guard(handler string) {
	if r := recover(); r != nil {
		slog.Error("discord handler panic", "handler", handler, "panic", r, "stack", string(debug.Stack()))
	}
}

// --- slash command y menú ---

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer guard("interaction")

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		if data.Name != commandName {
			return
		}
		var field, dir string
		for _, o := range data.Options {
			switch o.Name {
			case "sort":
				field = o.StringValue()
			case "order":
				dir = o.StringValue()
			}
		}
		b.handleSlash(s, i, []string{field, dir})

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		sessionID, ok := parseSortMenuID(data.CustomID)
		if !ok || len(data.Values) == 0 {
			return
		}
		b.handleSortMenu(s, i, sessionID, data.Values[0])
	}
}

func (b *Bot) handleSlash(s *discordgo.Session, i *discordgo.InteractionCreate, args []string) {
	// El fetch puede tardar más de los 3s que da Discord para responder.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		slog.Warn("failed to defer interaction", "err", err)
		return
	}

	r := b.report(interactionUser(i), args)
	if r.Err != nil {
		if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &r.Content}); err != nil {
			slog.Warn("failed to send error reply", "err", err)
		}
		return
	}

	embeds := []*discordgo.MessageEmbed{renderEmbed(r.Session)}
	components := sortMenu(r.Session)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	}); err != nil {
		slog.Warn("failed to send report", "session", r.Session.ID, "err", err)
	}
}

func (b *Bot) handleSortMenu(s *discordgo.Session, i *discordgo.InteractionCreate, sessionID, value string) {
	spec, err := parseSortValue(value)
	r := failure(err)
	if err == nil {
		r = b.resort(sessionID, interactionUser(i), spec)
	}

	resp := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{renderEmbed(r.Session)},
			Components: sortMenu(r.Session),
		},
	}
	if r.Err != nil {
		resp = &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Content: r.Content},
		}
		if r.Ephemeral {
			resp.Data.Flags = discordgo.MessageFlagsEphemeral
		}
	}

	if err := s.InteractionRespond(i.Interaction, resp); err != nil {
		slog.Warn("failed to answer sort menu", "session", sessionID, "err", err)
	}
}

func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

// --- comando con prefijo y reacciones ---

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer guard("message")

	if m.Author == nil || m.Author.Bot {
		return
	}
	args, ok := parsePrefixCommand(m.Content, b.cfg.Prefix)
	if !ok {
		return
	}

	r := b.report(m.Author.ID, args)
	if r.Err != nil {
		if _, err := s.ChannelMessageSendReply(m.ChannelID, r.Content, m.Reference()); err != nil {
			slog.Warn("failed to send error reply", "err", err)
		}
		return
	}

	msg, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{renderEmbed(r.Session)},
		Reference: m.Reference(),
	})
	if err != nil {
		slog.Warn("failed to send report", "session", r.Session.ID, "err", err)
		return
	}
	b.messages.SetDefault(msg.ID, r.Session.ID)

	for _, c := range sortChoices {
		if err := s.MessageReactionAdd(m.ChannelID, msg.ID, c.Emoji); err != nil {
			slog.Warn("failed to add sort reaction", "emoji", c.Emoji, "err", err)
			return
		}
	}
}

func (b *Bot) onReaction(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	defer guard("reaction")

	if s.State != nil && s.State.User != nil && r.UserID == s.State.User.ID {
		return
	}
	spec, ok := sortForEmoji(r.Emoji.Name)
	if !ok {
		return
	}
	sessionID, ok := b.sessionForMessage(r.MessageID)
	if !ok {
		return
	}

	res := b.resort(sessionID, r.UserID, spec)

	// Se quita la reacción del usuario para que pueda volver a usarla.
	if err := s.MessageReactionRemove(r.ChannelID, r.MessageID, r.Emoji.Name, r.UserID); err != nil {
		slog.Debug("failed to remove reaction", "err", err)
	}

	if res.Err != nil {
		// En un mensaje normal no hay respuestas efímeras: se menciona al usuario.
		if _, err := s.ChannelMessageSend(r.ChannelID, fmt.Sprintf("<@%s> %s", r.UserID, res.Content)); err != nil {
			slog.Warn("failed to send error reply", "err", err)
		}
		return
	}

	embeds := []*discordgo.MessageEmbed{renderEmbed(res.Session)}
	if _, err := s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:      r.MessageID,
		Channel: r.ChannelID,
		Embeds:  &embeds,
	}); err != nil {
		slog.Warn("failed to update report", "session", sessionID, "err", err)
	}
}

func (b *Bot) sessionForMessage(messageID string) (string, bool) {
	v, ok := b.messages.Get(messageID)
	if !ok {
		return "", false
	}
	return v.(string), true
}
