package adapter

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Ishwar-meena/whatsappchat/internal/pkg/chat/domain"
)

// statusOrder lets SQL compare delivery states without a numeric column.
const statusOrder = "ARRAY['sent','delivered','read']"

// PgChatRepository implements the chat repository port on Postgres.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	a, b := chat.CanonicalPair(userA, userB)
	// The no-op DO UPDATE makes RETURNING yield the row on both insert and
	// conflict, so concurrent first contacts converge on one conversation.
	var c chat.Conversation
	var lastMessage *string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO conversation (participant_a, participant_b)
		VALUES ($1::uuid, $2::uuid)
		ON CONFLICT (participant_a, participant_b)
		DO UPDATE SET participant_a = EXCLUDED.participant_a
		RETURNING id::text, participant_a::text, participant_b::text, last_message::text, unread_count, created_at, updated_at
	`, a, b).Scan(&c.ID, &c.Participants[0], &c.Participants[1], &lastMessage, &c.UnreadCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lastMessage != nil {
		c.LastMessageID = *lastMessage
	}
	return &c, nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, id string) (*chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	var c chat.Conversation
	var lastMessage *string
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, participant_a::text, participant_b::text, last_message::text, unread_count, created_at, updated_at
		FROM conversation
		WHERE id = $1::uuid
	`, id).Scan(&c.ID, &c.Participants[0], &c.Participants[1], &lastMessage, &c.UnreadCount, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastMessage != nil {
		c.LastMessageID = *lastMessage
	}
	return &c, nil
}

func (r *PgChatRepository) ListConversations(ctx context.Context, userID string) ([]chat.Conversation, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, participant_a::text, participant_b::text, last_message::text, unread_count, created_at, updated_at
		FROM conversation
		WHERE participant_a = $1::uuid OR participant_b = $1::uuid
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []chat.Conversation
	for rows.Next() {
		var c chat.Conversation
		var lastMessage *string
		if err := rows.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &lastMessage, &c.UnreadCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if lastMessage != nil {
			c.LastMessageID = *lastMessage
		}
		conversations = append(conversations, c)
	}
	return conversations, rows.Err()
}

func (r *PgChatRepository) SetLastMessage(ctx context.Context, conversationID, messageID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE conversation
		SET last_message = $2::uuid, updated_at = now()
		WHERE id = $1::uuid
	`, conversationID, messageID)
	return err
}

func (r *PgChatRepository) IncrementUnread(ctx context.Context, conversationID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE conversation
		SET unread_count = unread_count + 1, updated_at = now()
		WHERE id = $1::uuid
	`, conversationID)
	return err
}

func (r *PgChatRepository) ResetUnread(ctx context.Context, conversationID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE conversation
		SET unread_count = 0
		WHERE id = $1::uuid
	`, conversationID)
	return err
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgChatRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO message (conversation_id, sender_id, receiver_id, content, media_url, content_type, status, reactions, created_at)
		VALUES ($1::uuid, $2::uuid, $3::uuid, $4, NULLIF($5, ''), $6, $7, '[]'::jsonb, $8)
		RETURNING id::text
	`, m.ConversationID, m.SenderID, m.ReceiverID, m.Content, m.MediaURL, m.ContentType, m.Status, m.CreatedAt).Scan(&id)
	return id, err
}

const messageColumns = `id::text, conversation_id::text, sender_id::text, receiver_id::text, content, COALESCE(media_url, ''), content_type, status, reactions, created_at`

func scanMessage(row pgx.Row) (*chat.Message, error) {
	var m chat.Message
	var reactions []byte
	if err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.Content, &m.MediaURL, &m.ContentType, &m.Status, &reactions, &m.CreatedAt); err != nil {
		return nil, err
	}
	if len(reactions) > 0 {
		if err := json.Unmarshal(reactions, &m.Reactions); err != nil {
			return nil, err
		}
	}
	return &m, nil
}

func (r *PgChatRepository) GetMessage(ctx context.Context, id string) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	m, err := scanMessage(r.pool.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM message WHERE id = $1::uuid`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	return m, err
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+messageColumns+` FROM message WHERE conversation_id = $1::uuid ORDER BY created_at`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

func (r *PgChatRepository) AdvanceMessageStatus(ctx context.Context, id string, target chat.MessageStatus) (bool, error) {
	if r == nil || r.pool == nil {
		return false, errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE message
		SET status = $2
		WHERE id = $1::uuid
		  AND array_position(`+statusOrder+`, status) < array_position(`+statusOrder+`, $2)
	`, id, target)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgChatRepository) MarkMessagesRead(ctx context.Context, ids []string, receiverID string) ([]chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, `
		UPDATE message
		SET status = 'read'
		WHERE id = ANY($1::uuid[])
		  AND receiver_id = $2::uuid
		  AND status IN ('sent', 'delivered')
		RETURNING `+messageColumns, ids, receiverID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var affected []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		affected = append(affected, *m)
	}
	return affected, rows.Err()
}

func (r *PgChatRepository) MarkConversationRead(ctx context.Context, conversationID, receiverID string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE message
		SET status = 'read'
		WHERE conversation_id = $1::uuid
		  AND receiver_id = $2::uuid
		  AND status IN ('sent', 'delivered')
	`, conversationID, receiverID)
	return err
}

func (r *PgChatRepository) MutateReactions(ctx context.Context, messageID string, mutate func([]chat.Reaction) []chat.Reaction) (*chat.Message, error) {
	if r == nil || r.pool == nil {
		return nil, errors.New("PgChatRepository: nil pool")
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Row lock serializes concurrent reaction mutations on the same message.
	m, err := scanMessage(tx.QueryRow(ctx,
		`SELECT `+messageColumns+` FROM message WHERE id = $1::uuid FOR UPDATE`, messageID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, chat.ErrMessageNotFound
	}
	if err != nil {
		return nil, err
	}

	m.Reactions = mutate(m.Reactions)
	raw, err := json.Marshal(m.Reactions)
	if err != nil {
		return nil, err
	}
	if m.Reactions == nil {
		raw = []byte("[]")
	}
	if _, err := tx.Exec(ctx,
		`UPDATE message SET reactions = $2::jsonb WHERE id = $1::uuid`, messageID, raw); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PgChatRepository) DeleteMessage(ctx context.Context, id string) error {
	if r == nil || r.pool == nil {
		return errors.New("PgChatRepository: nil pool")
	}
	ct, err := r.pool.Exec(ctx, `DELETE FROM message WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}
