package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/realtime"
	"github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/application/usecase"
	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
	repository "github.com/Ishwar-meena/whatsappchat/internal/repository/port"
)

// ChatSocketController owns the websocket endpoint for realtime chat traffic.
// A connection is anonymous until the client announces itself with a
// user_connected frame; every other frame type before that is rejected.
type ChatSocketController struct {
	registry        *realtime.Registry
	typing          *realtime.TypingTracker
	sendMessageUC   *usecase.SendMessageUseCase
	markReadUC      *usecase.MarkReadUseCase
	reactUC         *usecase.ReactUseCase
	userStatusUC    *usecase.GetUserStatusUseCase
	sendBuffer      int
	inflightTimeout time.Duration
	log             zerolog.Logger
}

func NewChatSocketController(
	registry *realtime.Registry,
	typing *realtime.TypingTracker,
	sendMessageUC *usecase.SendMessageUseCase,
	markReadUC *usecase.MarkReadUseCase,
	reactUC *usecase.ReactUseCase,
	userStatusUC *usecase.GetUserStatusUseCase,
	sendBuffer int,
	log zerolog.Logger,
) *ChatSocketController {
	return &ChatSocketController{
		registry:        registry,
		typing:          typing,
		sendMessageUC:   sendMessageUC,
		markReadUC:      markReadUC,
		reactUC:         reactUC,
		userStatusUC:    userStatusUC,
		sendBuffer:      sendBuffer,
		inflightTimeout: 5 * time.Second,
		log:             log.With().Str("component", "chat_socket").Logger(),
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

type inboundFrame struct {
	Type           string   `json:"type"`
	UserID         string   `json:"userId,omitempty"`
	ConversationID string   `json:"conversationId,omitempty"`
	ReceiverID     string   `json:"receiverId,omitempty"`
	MessageID      string   `json:"messageId,omitempty"`
	MessageIDs     []string `json:"messageIds,omitempty"`
	Content        string   `json:"content,omitempty"`
	Emoji          string   `json:"emoji,omitempty"`
}

type errorFrame struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades the connection and processes frames until the client
// disconnects. Disconnect tears down typing state first so no typing
// notification can fire for a user already reported offline.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		conn := realtime.NewConnection(ws, ctl.sendBuffer)
		conn.Start()

		var userID string
		defer func() {
			if userID != "" {
				ctl.typing.ClearUser(userID)
				ctl.registry.Unregister(context.Background(), userID, conn)
			}
			conn.Shutdown(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			if frame.Type == "user_connected" {
				if frame.UserID == "" {
					ctl.replyError(conn, "bad_request", "userId is required")
					continue
				}
				if userID != "" && userID != frame.UserID {
					ctl.replyError(conn, "bad_request", "connection already announced")
					continue
				}
				if userID == "" {
					userID = frame.UserID
					ctl.registry.Register(c.Request.Context(), userID, conn)
				}
				continue
			}

			if userID == "" {
				ctl.replyError(conn, "unauthenticated", "announce with user_connected first")
				continue
			}

			switch frame.Type {
			case "typing_start":
				ctl.typing.StartTyping(userID, frame.ConversationID, frame.ReceiverID)
			case "typing_stop":
				ctl.typing.StopTyping(userID, frame.ConversationID, frame.ReceiverID)
			case "send_message":
				ctl.handleSendMessage(c, conn, userID, frame)
			case "message_read":
				ctl.handleMessageRead(c, conn, userID, frame)
			case "add_reaction":
				ctl.handleAddReaction(c, conn, userID, frame)
			case "get_user_status":
				ctl.handleGetUserStatus(c, conn, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleSendMessage(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	view, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		SenderID:   userID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	// Echo the persisted message back so the sender gets the id and status.
	ctl.reply(conn, realtime.EventReceiveMessage, view)
}

func (ctl *ChatSocketController) handleMessageRead(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ids := frame.MessageIDs
	if len(ids) == 0 && frame.MessageID != "" {
		ids = []string{frame.MessageID}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if _, err := ctl.markReadUC.Execute(ctx, usecase.MarkReadInput{MessageIDs: ids, ReaderID: userID}); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) handleAddReaction(c *gin.Context, conn *realtime.Connection, userID string, frame inboundFrame) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	// The updated list reaches both participants through the use case; no
	// extra echo needed here.
	if _, err := ctl.reactUC.Execute(ctx, usecase.ReactInput{
		MessageID: frame.MessageID,
		UserID:    userID,
		Emoji:     frame.Emoji,
	}); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *ChatSocketController) handleGetUserStatus(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.UserID == "" {
		ctl.replyError(conn, "bad_request", "userId is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	view, err := ctl.userStatusUC.Execute(ctx, frame.UserID)
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}
	ctl.reply(conn, realtime.EventUserStatus, view)
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrForbidden):
		ctl.replyError(conn, "forbidden", "not allowed")
	case errors.Is(err, chat.ErrConversationNotFound),
		errors.Is(err, chat.ErrMessageNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		ctl.replyError(conn, "not_found", err.Error())
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) reply(conn *realtime.Connection, event string, data any) {
	if payload, err := json.Marshal(realtime.Envelope{Event: event, Data: data}); err == nil {
		_ = conn.Deliver(payload)
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	ctl.reply(conn, "error", errorFrame{Code: code, Error: message})
}
