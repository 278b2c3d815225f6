package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainchat "github.com/yungbote/mindbridge-backend/internal/domain/chat"
	"github.com/yungbote/mindbridge-backend/internal/domain/clinical"
	apperrors "github.com/yungbote/mindbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mindbridge-backend/internal/platform/llm"
	"github.com/yungbote/mindbridge-backend/internal/platform/logger"
)

const maxMessages = 100

// NoteScheduler queues background note generation for a finished turn.
type NoteScheduler interface {
	Dispatch(ctx context.Context, userID uuid.UUID, messages []domainchat.Message, trigger clinical.TriggerType)
}

type UsecasesDeps struct {
	Log *logger.Logger
	// LLM is nil when no provider is configured.
	LLM   llm.Client
	Notes NoteScheduler
	Now   func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("module", "chat")
	return Usecases{deps: deps}
}

type Reply struct {
	Message    domainchat.Message `json:"message"`
	Configured bool               `json:"configured"`
}

func validate(messages []domainchat.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("messages array is required: %w", apperrors.ErrInvalidArgument)
	}
	if len(messages) > maxMessages {
		return fmt.Errorf("at most %d messages: %w", maxMessages, apperrors.ErrInvalidArgument)
	}
	for i, m := range messages {
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case domainchat.RoleSystem, domainchat.RoleUser, domainchat.RoleAssistant:
		default:
			return fmt.Errorf("message %d has unknown role %q: %w", i, m.Role, apperrors.ErrInvalidArgument)
		}
	}
	return nil
}

// WithSystemPrompt returns messages with the persona prompt in front unless the conversation
// already starts with a system message. The input slice is not modified.
func WithSystemPrompt(messages []domainchat.Message, now time.Time) []domainchat.Message {
	if len(messages) > 0 && strings.EqualFold(messages[0].Role, domainchat.RoleSystem) {
		return append([]domainchat.Message(nil), messages...)
	}
	out := make([]domainchat.Message, 0, len(messages)+1)
	out = append(out, domainchat.Message{Role: domainchat.RoleSystem, Content: SystemPrompt(now)})
	return append(out, messages...)
}

// Chat returns the assistant reply and schedules risk analysis of the finished turn. The
// analysis never affects the reply.
func (u Usecases) Chat(ctx context.Context, userID uuid.UUID, messages []domainchat.Message) (Reply, error) {
	if err := validate(messages); err != nil {
		return Reply{}, err
	}

	reply := Reply{Message: domainchat.Message{Role: domainchat.RoleAssistant, Content: NotConfiguredReply}}
	if u.deps.LLM != nil {
		text, err := u.deps.LLM.Complete(ctx, WithSystemPrompt(messages, u.deps.Now()))
		if err != nil {
			return Reply{}, fmt.Errorf("chat completion: %w", err)
		}
		reply = Reply{Message: domainchat.Message{Role: domainchat.RoleAssistant, Content: text}, Configured: true}
	}

	if u.deps.Notes != nil {
		turn := make([]domainchat.Message, 0, len(messages)+1)
		turn = append(turn, messages...)
		turn = append(turn, reply.Message)
		u.deps.Notes.Dispatch(ctx, userID, turn, "")
	}
	return reply, nil
}
