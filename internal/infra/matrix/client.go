package matrix

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/matrix-org/retro-bot/internal/biz/domain"
)

// ErrNotFound is returned when a requested account data key has never
// been set
var ErrNotFound = errors.New("account data not found")

// Message represents a received room message
type Message struct {
	RoomID  string
	EventID string
	Sender  string
	MsgType string
	Body    string
}

// MessageHandler is the callback for received messages
type MessageHandler func(msg *Message)

// Client wraps the mautrix client behind the few operations the bot needs
type Client struct {
	cli       *mautrix.Client
	onMessage MessageHandler
	log       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new Matrix client for the given homeserver
func NewClient(homeserverURL, accessToken string, log zerolog.Logger) (*Client, error) {
	cli, err := mautrix.NewClient(homeserverURL, "", accessToken)
	if err != nil {
		return nil, fmt.Errorf("create matrix client: %w", err)
	}
	cli.Log = log

	c := &Client{cli: cli, log: log}

	syncer := cli.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, c.handleMessage)

	return c, nil
}

// OnMessage sets the message handler
func (c *Client) OnMessage(handler MessageHandler) {
	c.onMessage = handler
}

// ResolveIdentity fetches the bot's own identity. Must be called before
// Start so command prefixes and self-message filtering work.
func (c *Client) ResolveIdentity(ctx context.Context) (domain.BotIdentity, error) {
	whoami, err := c.cli.Whoami(ctx)
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("whoami: %w", err)
	}
	c.cli.UserID = whoami.UserID

	localpart, _, err := whoami.UserID.Parse()
	if err != nil {
		return domain.BotIdentity{}, fmt.Errorf("parse user id %s: %w", whoami.UserID, err)
	}

	// Display name is optional, a bot without one still answers to its
	// localpart and full id
	displayName := ""
	if resp, err := c.cli.GetDisplayName(ctx, whoami.UserID); err != nil {
		c.log.Warn().Err(err).Msg("failed to fetch own display name")
	} else if resp != nil {
		displayName = resp.DisplayName
	}

	// Skip everything delivered in the initial sync, the bot only reacts
	// to messages sent after it came up
	c.cli.Syncer.(mautrix.ExtensibleSyncer).OnSync(c.cli.DontProcessOldEvents)

	return domain.BotIdentity{
		UserID:      whoami.UserID.String(),
		Localpart:   localpart,
		DisplayName: displayName,
	}, nil
}

// EnsureJoined resolves roomRef (alias or room id) and joins it if the
// bot is not already a member. Returns the resolved room id.
func (c *Client) EnsureJoined(ctx context.Context, roomRef string) (string, error) {
	roomID := id.RoomID(roomRef)
	if strings.HasPrefix(roomRef, "#") {
		resp, err := c.cli.ResolveAlias(ctx, id.RoomAlias(roomRef))
		if err != nil {
			return "", fmt.Errorf("resolve room alias %s: %w", roomRef, err)
		}
		roomID = resp.RoomID
	}

	joined, err := c.cli.JoinedRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("list joined rooms: %w", err)
	}
	if !slices.Contains(joined.JoinedRooms, roomID) {
		resp, err := c.cli.JoinRoom(ctx, roomRef, nil)
		if err != nil {
			return "", fmt.Errorf("join room %s: %w", roomRef, err)
		}
		roomID = resp.RoomID
	}
	return roomID.String(), nil
}

// Start runs the sync loop until Stop is called (blocking)
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.log.Info().Msg("starting sync loop")
	err := c.cli.SyncWithContext(c.ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}

// Stop cancels the sync loop
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// handleMessage converts sync events into Message callbacks
func (c *Client) handleMessage(_ context.Context, evt *event.Event) {
	// The bot's own sends must not loop back into the command router
	if evt.Sender == c.cli.UserID {
		return
	}
	content := evt.Content.AsMessage()
	if content == nil {
		return
	}
	if c.onMessage == nil {
		return
	}
	c.onMessage(&Message{
		RoomID:  evt.RoomID.String(),
		EventID: evt.ID.String(),
		Sender:  evt.Sender.String(),
		MsgType: string(content.MsgType),
		Body:    content.Body,
	})
}

// SendFormatted sends a message with both a plain and an HTML body
func (c *Client) SendFormatted(ctx context.Context, roomID, body, formattedBody, msgType string) error {
	content := &event.MessageEventContent{
		MsgType:       event.MessageType(msgType),
		Body:          body,
		Format:        event.FormatHTML,
		FormattedBody: formattedBody,
	}
	_, err := c.cli.SendMessageEvent(ctx, id.RoomID(roomID), event.EventMessage, content)
	return err
}

// SendNotice sends a plain-text notice
func (c *Client) SendNotice(ctx context.Context, roomID, text string) error {
	_, err := c.cli.SendNotice(ctx, id.RoomID(roomID), text)
	return err
}

// MarkRead sends a read receipt for the given event
func (c *Client) MarkRead(ctx context.Context, roomID, eventID string) error {
	return c.cli.MarkRead(ctx, id.RoomID(roomID), id.EventID(eventID))
}

// DisplayName fetches the display name of a user
func (c *Client) DisplayName(ctx context.Context, userID string) (string, error) {
	resp, err := c.cli.GetDisplayName(ctx, id.UserID(userID))
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", nil
	}
	return resp.DisplayName, nil
}

// GetAccountData reads a key from the bot account's key-value store
func (c *Client) GetAccountData(ctx context.Context, key string, out any) error {
	err := c.cli.GetAccountData(ctx, key, out)
	if errors.Is(err, mautrix.MNotFound) {
		return ErrNotFound
	}
	return err
}

// SetAccountData writes a key in the bot account's key-value store
func (c *Client) SetAccountData(ctx context.Context, key string, data any) error {
	return c.cli.SetAccountData(ctx, key, data)
}
