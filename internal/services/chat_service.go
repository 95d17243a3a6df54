package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	// ErrChatInvalidInput indicates a chat command failed validation.
	ErrChatInvalidInput = errors.New("chat: invalid input")
	// ErrChatUnavailable indicates the chat backend failed.
	ErrChatUnavailable = errors.New("chat: unavailable")
)

type triviaQuestion struct {
	prompt  string
	options [3]string
	answer  int
}

var triviaQuestions = []triviaQuestion{
	{
		prompt:  "What does 'LTS' stand for in 'Node.js LTS'?",
		options: [3]string{"Long Term Support", "Lite Tech Server", "Linked Time Script"},
		answer:  0,
	},
	{
		prompt:  "Which company developed the React framework?",
		options: [3]string{"Google", "Meta (Facebook)", "Microsoft"},
		answer:  1,
	},
	{
		prompt:  "What is the primary purpose of Tailwind CSS?",
		options: [3]string{"Database management", "State management", "Utility-first CSS styling"},
		answer:  2,
	},
	{
		prompt:  "Which of these is NOT a JavaScript data type?",
		options: [3]string{"string", "boolean", "integer"},
		answer:  2,
	},
}

var answerLetters = []string{"a", "b", "c"}

var chatGreetingOptions = []string{"Trivia Game", "Just looking"}

const chatGreeting = "Hi! I'm VibeBot. I can answer questions or we can play a trivia game. What would you like?"

// ChatServiceDeps bundles dependencies for NewChatService.
type ChatServiceDeps struct {
	Repository  repositories.ChatRepository
	Clock       func() time.Time
	IDGenerator func() string
	Logger      func(ctx context.Context, msg string, fields map[string]any)
}

type chatService struct {
	repo   repositories.ChatRepository
	now    func() time.Time
	newID  func() string
	logger func(ctx context.Context, msg string, fields map[string]any)
}

// NewChatService builds the scripted trivia assistant.
func NewChatService(deps ChatServiceDeps) (ChatService, error) {
	if deps.Repository == nil {
		return nil, errors.New("chat service requires a repository")
	}
	if deps.Clock == nil {
		return nil, errors.New("chat service requires a clock")
	}
	if deps.IDGenerator == nil {
		return nil, errors.New("chat service requires an id generator")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &chatService{
		repo:   deps.Repository,
		now:    deps.Clock,
		newID:  deps.IDGenerator,
		logger: logger,
	}, nil
}

// History returns the transcript, seeding the greeting the first time a
// session opens the chat.
func (s *chatService) History(ctx context.Context, sessionID string) (ChatState, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ChatState{}, ErrChatInvalidInput
	}

	state, err := s.repo.Get(ctx, sid)
	if err != nil {
		if !isRepoNotFound(err) {
			return ChatState{}, ErrChatUnavailable
		}
		state = domain.ChatState{SessionID: sid, Phase: domain.ChatPhaseAwaitingTrivia}
		s.appendBot(&state, chatGreeting, chatGreetingOptions)
		if err := s.save(ctx, &state); err != nil {
			return ChatState{}, err
		}
	}
	return state, nil
}

func (s *chatService) Send(ctx context.Context, cmd SendChatMessageCommand) (ChatState, error) {
	sid := strings.TrimSpace(cmd.SessionID)
	text := strings.TrimSpace(cmd.Text)
	if sid == "" || text == "" {
		return ChatState{}, ErrChatInvalidInput
	}

	state, err := s.History(ctx, sid)
	if err != nil {
		return ChatState{}, err
	}

	state.Messages = append(state.Messages, domain.ChatMessage{
		ID:     s.newID(),
		Sender: domain.SenderUser,
		Text:   text,
		SentAt: s.now().UTC(),
	})

	s.advance(&state, strings.ToLower(text))

	if err := s.save(ctx, &state); err != nil {
		return ChatState{}, err
	}
	return state, nil
}

func (s *chatService) Reset(ctx context.Context, sessionID string) error {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return ErrChatInvalidInput
	}
	if err := s.repo.Delete(ctx, sid); err != nil {
		return ErrChatUnavailable
	}
	return nil
}

// advance runs one step of the trivia script against the normalized input.
func (s *chatService) advance(state *domain.ChatState, input string) {
	switch state.Phase {
	case domain.ChatPhaseAwaitingTrivia:
		if strings.Contains(input, "trivia") {
			s.askQuestion(state, "Great! Here's question %d:\n\n%s")
			return
		}
		s.appendBot(state, "No problem! Enjoy browsing. Let me know if you change your mind.", nil)
		state.Phase = domain.ChatPhaseIdle

	case domain.ChatPhaseAwaitingAnswer:
		q := triviaQuestions[state.QuestionIdx]
		if matchesAnswer(input, q) {
			s.appendBot(state, "Correct! Well done.", nil)
		} else {
			s.appendBot(state, fmt.Sprintf("Sorry, that's not right. The correct answer was %s.", strings.ToUpper(answerLetters[q.answer])), nil)
		}
		if state.QuestionIdx+1 < len(triviaQuestions) {
			state.QuestionIdx++
			s.appendBot(state, "Want to try another one?", []string{"Yes", "No"})
			state.Phase = domain.ChatPhaseAwaitingNext
			return
		}
		state.QuestionIdx = 0
		s.appendBot(state, "That was the last question! Thanks for playing.", nil)
		s.appendBot(state, "What else can I help with?", chatGreetingOptions)
		state.Phase = domain.ChatPhaseAwaitingTrivia

	case domain.ChatPhaseAwaitingNext:
		if strings.Contains(input, "yes") {
			s.askQuestion(state, "Awesome! Here's question %d:\n\n%s")
			return
		}
		s.appendBot(state, "Okay, thanks for playing!", nil)
		s.appendBot(state, "What else can I help with?", chatGreetingOptions)
		state.Phase = domain.ChatPhaseAwaitingTrivia

	default:
		s.appendBot(state, "I'm just a simple bot. You can ask me to play a trivia game!", chatGreetingOptions)
		state.Phase = domain.ChatPhaseAwaitingTrivia
	}
}

func (s *chatService) askQuestion(state *domain.ChatState, intro string) {
	q := triviaQuestions[state.QuestionIdx]
	s.appendBot(state, fmt.Sprintf(intro, state.QuestionIdx+1, q.prompt), nil)
	s.appendBot(state, fmt.Sprintf("A) %s\nB) %s\nC) %s", q.options[0], q.options[1], q.options[2]), []string{"A", "B", "C"})
	state.Phase = domain.ChatPhaseAwaitingAnswer
}

func (s *chatService) appendBot(state *domain.ChatState, text string, options []string) {
	state.Messages = append(state.Messages, domain.ChatMessage{
		ID:      s.newID(),
		Sender:  domain.SenderBot,
		Text:    text,
		Options: options,
		SentAt:  s.now().UTC(),
	})
}

func (s *chatService) save(ctx context.Context, state *domain.ChatState) error {
	state.UpdatedAt = s.now().UTC()
	if err := s.repo.Put(ctx, *state); err != nil {
		return ErrChatUnavailable
	}
	return nil
}

// matchesAnswer accepts the option letter or the option's text typed out,
// compared case-insensitively.
func matchesAnswer(input string, q triviaQuestion) bool {
	if input == answerLetters[q.answer] {
		return true
	}
	return strings.Contains(input, strings.ToLower(q.options[q.answer]))
}
