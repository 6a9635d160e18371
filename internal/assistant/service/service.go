// Package service coordinates assistant conversations, quota gating, and
// proposal analyses.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/launchfolio/launchfolio/internal/assistant"
	"github.com/launchfolio/launchfolio/internal/assistant/provider"
	"github.com/launchfolio/launchfolio/internal/assistant/storage"
	authstorage "github.com/launchfolio/launchfolio/internal/auth/storage"
	"github.com/launchfolio/launchfolio/internal/auth/user"
	"github.com/launchfolio/launchfolio/internal/launchpad"
	apperrors "github.com/launchfolio/launchfolio/internal/platform/errors"
	"github.com/launchfolio/launchfolio/internal/platform/id"
)

// FreeDailyMessageLimit caps assistant messages per day for free accounts.
const FreeDailyMessageLimit = 10

// defaultModel is sent to the provider when no model is configured.
const defaultModel = "gpt-4o-mini"

// UserReader resolves accounts for tier-based quota decisions.
type UserReader interface {
	GetUser(ctx context.Context, userID string) (user.User, error)
}

// ProposalReader resolves proposals for analysis prompts.
type ProposalReader interface {
	GetProposal(ctx context.Context, proposalID string) (launchpad.Proposal, error)
}

// Service answers investor questions through a generative-text provider.
type Service struct {
	store       storage.Store
	invoker     provider.Invoker
	users       UserReader
	proposals   ProposalReader
	model       string
	clock       func() time.Time
	idGenerator func() (string, error)
}

// Option configures optional Service dependencies.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides identifier generation.
func WithIDGenerator(generator func() (string, error)) Option {
	return func(s *Service) {
		if generator != nil {
			s.idGenerator = generator
		}
	}
}

// WithModel overrides the provider model.
func WithModel(model string) Option {
	return func(s *Service) {
		if strings.TrimSpace(model) != "" {
			s.model = strings.TrimSpace(model)
		}
	}
}

// New builds an assistant service.
func New(store storage.Store, invoker provider.Invoker, users UserReader, proposals ProposalReader, opts ...Option) *Service {
	s := &Service{
		store:       store,
		invoker:     invoker,
		users:       users,
		proposals:   proposals,
		model:       defaultModel,
		clock:       time.Now,
		idGenerator: id.NewID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChatInput describes one user turn.
type ChatInput struct {
	UserID string
	// ConversationID continues an existing thread when set; a new
	// conversation is opened otherwise.
	ConversationID string
	Prompt         string
}

// ChatResult is the assistant's reply and the thread it belongs to.
type ChatResult struct {
	Conversation assistant.Conversation
	Reply        assistant.Message
}

// Chat appends a user turn and returns the assistant's reply.
func (s *Service) Chat(ctx context.Context, input ChatInput) (ChatResult, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.Prompt = strings.TrimSpace(input.Prompt)
	if input.UserID == "" {
		return ChatResult{}, apperrors.New(apperrors.CodeUnauthorized, "user id is required")
	}
	if input.Prompt == "" {
		return ChatResult{}, apperrors.New(apperrors.CodeAssistantEmptyPrompt, "prompt is required")
	}

	account, err := s.getUser(ctx, input.UserID)
	if err != nil {
		return ChatResult{}, err
	}
	if err := s.consumeQuota(ctx, account); err != nil {
		return ChatResult{}, err
	}

	conversation, history, err := s.resolveConversation(ctx, input)
	if err != nil {
		return ChatResult{}, err
	}

	prompt, err := assistant.NewMessage(conversation.ID, assistant.RoleUser, input.Prompt, s.clock, s.idGenerator)
	if err != nil {
		return ChatResult{}, err
	}
	if err := s.store.AppendMessage(ctx, prompt); err != nil {
		return ChatResult{}, fmt.Errorf("append user message: %w", err)
	}

	result, err := s.invoker.Invoke(ctx, provider.InvokeInput{
		Model: s.model,
		Input: buildTranscript(history, input.Prompt),
	})
	if err != nil {
		return ChatResult{}, err
	}
	if strings.TrimSpace(result.OutputText) == "" {
		return ChatResult{}, apperrors.New(apperrors.CodeAssistantProviderFailure, "provider returned no output")
	}

	reply, err := assistant.NewMessage(conversation.ID, assistant.RoleAssistant, result.OutputText, s.clock, s.idGenerator)
	if err != nil {
		return ChatResult{}, err
	}
	if err := s.store.AppendMessage(ctx, reply); err != nil {
		return ChatResult{}, fmt.Errorf("append assistant message: %w", err)
	}

	conversation.UpdatedAt = reply.CreatedAt
	if err := s.store.TouchConversation(ctx, conversation.ID, conversation.UpdatedAt); err != nil {
		return ChatResult{}, fmt.Errorf("touch conversation: %w", err)
	}
	return ChatResult{Conversation: conversation, Reply: reply}, nil
}

// History returns one conversation with its turns oldest first.
func (s *Service) History(ctx context.Context, userID, conversationID string) (assistant.Conversation, []assistant.Message, error) {
	conversation, err := s.getConversation(ctx, conversationID)
	if err != nil {
		return assistant.Conversation{}, nil, err
	}
	if conversation.UserID != strings.TrimSpace(userID) {
		return assistant.Conversation{}, nil, apperrors.New(apperrors.CodeUnauthorized, "conversation belongs to another user")
	}
	messages, err := s.store.ListMessages(ctx, conversation.ID)
	if err != nil {
		return assistant.Conversation{}, nil, fmt.Errorf("list messages: %w", err)
	}
	return conversation, messages, nil
}

// ListConversations returns a user's threads newest first.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]assistant.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "user id is required")
	}
	conversations, err := s.store.ListConversations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return conversations, nil
}

// AnalysisResult is one proposal analysis, possibly served from cache.
type AnalysisResult struct {
	ProposalID string
	Result     string
	Cached     bool
	CreatedAt  time.Time
}

// AnalyzeProposal summarizes a proposal's fundamentals for an investor.
// Results are cached per proposal snapshot; only cache misses consume
// the caller's daily quota.
func (s *Service) AnalyzeProposal(ctx context.Context, userID, proposalID string) (AnalysisResult, error) {
	userID = strings.TrimSpace(userID)
	proposalID = strings.TrimSpace(proposalID)
	if userID == "" {
		return AnalysisResult{}, apperrors.New(apperrors.CodeUnauthorized, "user id is required")
	}

	proposal, err := s.proposals.GetProposal(ctx, proposalID)
	if err != nil {
		return AnalysisResult{}, err
	}

	prompt := analysisPrompt(proposal)
	inputHash := hashAnalysisInput(prompt)
	cached, err := s.store.GetAnalysis(ctx, proposal.ID, inputHash)
	if err == nil {
		return AnalysisResult{
			ProposalID: proposal.ID,
			Result:     cached.Result,
			Cached:     true,
			CreatedAt:  cached.CreatedAt,
		}, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return AnalysisResult{}, fmt.Errorf("get cached analysis: %w", err)
	}

	account, err := s.getUser(ctx, userID)
	if err != nil {
		return AnalysisResult{}, err
	}
	if err := s.consumeQuota(ctx, account); err != nil {
		return AnalysisResult{}, err
	}

	result, err := s.invoker.Invoke(ctx, provider.InvokeInput{Model: s.model, Input: prompt})
	if err != nil {
		return AnalysisResult{}, err
	}
	if strings.TrimSpace(result.OutputText) == "" {
		return AnalysisResult{}, apperrors.New(apperrors.CodeAssistantProviderFailure, "provider returned no output")
	}

	analysis := storage.Analysis{
		ProposalID: proposal.ID,
		InputHash:  inputHash,
		Result:     result.OutputText,
		CreatedAt:  s.clock().UTC(),
	}
	if err := s.store.PutAnalysis(ctx, analysis); err != nil {
		return AnalysisResult{}, fmt.Errorf("cache analysis: %w", err)
	}
	return AnalysisResult{
		ProposalID: proposal.ID,
		Result:     analysis.Result,
		CreatedAt:  analysis.CreatedAt,
	}, nil
}

func (s *Service) getUser(ctx context.Context, userID string) (user.User, error) {
	account, err := s.users.GetUser(ctx, userID)
	if errors.Is(err, authstorage.ErrNotFound) {
		return user.User{}, apperrors.New(apperrors.CodeUserNotFound, "user not found")
	}
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	return account, nil
}

func (s *Service) getConversation(ctx context.Context, conversationID string) (assistant.Conversation, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return assistant.Conversation{}, apperrors.New(apperrors.CodeConversationNotFound, "conversation id is required")
	}
	conversation, err := s.store.GetConversation(ctx, conversationID)
	if errors.Is(err, storage.ErrNotFound) {
		return assistant.Conversation{}, apperrors.New(apperrors.CodeConversationNotFound, "conversation not found")
	}
	if err != nil {
		return assistant.Conversation{}, fmt.Errorf("get conversation: %w", err)
	}
	return conversation, nil
}

// consumeQuota charges one message against the account's daily allowance.
// Premium accounts are not metered.
func (s *Service) consumeQuota(ctx context.Context, account user.User) error {
	if account.Tier == user.TierPremium {
		return nil
	}
	day := s.clock().UTC().Format("2006-01-02")
	count, err := s.store.IncrementUsage(ctx, account.ID, day)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	if count > FreeDailyMessageLimit {
		return apperrors.WithMetadata(
			apperrors.CodeAssistantQuotaExceeded,
			"daily message limit reached",
			map[string]string{"Limit": strconv.Itoa(FreeDailyMessageLimit)},
		)
	}
	return nil
}

func (s *Service) resolveConversation(ctx context.Context, input ChatInput) (assistant.Conversation, []assistant.Message, error) {
	if strings.TrimSpace(input.ConversationID) == "" {
		conversation, err := assistant.NewConversation(input.UserID, input.Prompt, s.clock, s.idGenerator)
		if err != nil {
			return assistant.Conversation{}, nil, err
		}
		if err := s.store.CreateConversation(ctx, conversation); err != nil {
			return assistant.Conversation{}, nil, fmt.Errorf("create conversation: %w", err)
		}
		return conversation, nil, nil
	}

	conversation, err := s.getConversation(ctx, input.ConversationID)
	if err != nil {
		return assistant.Conversation{}, nil, err
	}
	if conversation.UserID != input.UserID {
		return assistant.Conversation{}, nil, apperrors.New(apperrors.CodeUnauthorized, "conversation belongs to another user")
	}
	history, err := s.store.ListMessages(ctx, conversation.ID)
	if err != nil {
		return assistant.Conversation{}, nil, fmt.Errorf("list messages: %w", err)
	}
	return conversation, history, nil
}

// buildTranscript flattens a thread into a single provider input, newest
// prompt last.
func buildTranscript(history []assistant.Message, prompt string) string {
	var b strings.Builder
	for _, message := range history {
		b.WriteString(string(message.Role))
		b.WriteString(": ")
		b.WriteString(message.Content)
		b.WriteString("\n")
	}
	b.WriteString(string(assistant.RoleUser))
	b.WriteString(": ")
	b.WriteString(prompt)
	return b.String()
}

func analysisPrompt(proposal launchpad.Proposal) string {
	lines := []string{
		"Summarize this fractional real-world-asset offering for a retail investor.",
		"Cover the opportunity, the main risks, and how the terms compare to similar assets.",
		"",
		"Asset: " + proposal.AssetName,
		"Category: " + proposal.Category,
		"Location: " + proposal.Location,
		"Target: " + formatCents(proposal.TargetAmount),
		"Share price: " + formatCents(proposal.SharePrice),
		"Minimum investment: " + formatCents(proposal.MinInvestment),
		"Expected APY: " + formatBps(proposal.ExpectedAPYBps),
		"",
		proposal.Description,
	}
	return strings.Join(lines, "\n")
}

// hashAnalysisInput fingerprints the prompt so edits to a proposal
// invalidate its cached analysis.
func hashAnalysisInput(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func formatCents(amount int64) string {
	return fmt.Sprintf("$%d.%02d", amount/100, amount%100)
}

func formatBps(bps int64) string {
	return fmt.Sprintf("%d.%02d%%", bps/100, bps%100)
}
