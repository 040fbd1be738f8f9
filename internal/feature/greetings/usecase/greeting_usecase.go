package usecase

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"greetings_backend/internal/feature/greetings/domain/entity"

	accountsentity "greetings_backend/internal/feature/accounts/domain/entity"
)

const (
	// MaxMessageLength is the maximum greeting message length in runes.
	MaxMessageLength = 2000
	// MaxRecipientNameLength is the maximum recipient name length in runes.
	MaxRecipientNameLength = 120
	// MaxMediaPerGreeting caps the number of attachments on one greeting.
	MaxMediaPerGreeting = 10

	// suggestionPromptTemplate is the prompt used for generated greeting text.
	suggestionPromptTemplate = "Write a short, warm birthday greeting for %s. Tone: %s. Two sentences at most, no hashtags."

	defaultListLimit = 20
	maxListLimit     = 100
)

// validRecipientName is the character pattern allowed in recipient names.
var validRecipientName = regexp.MustCompile(`^[\p{L}\p{N}\s\-\.'&,]+$`)

// GreetingRepository abstracts the persistence layer for greeting entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type GreetingRepository interface {
	// Create persists a new greeting to the storage.
	Create(ctx context.Context, g *entity.Greeting) error

	// FindByID retrieves a greeting by its ID.
	FindByID(ctx context.Context, id uint) (*entity.Greeting, error)

	// ListByAuthor retrieves a page of an author's greetings, newest first,
	// together with the author's total greeting count.
	ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]entity.Greeting, int64, error)

	// Save persists all fields of a greeting.
	Save(ctx context.Context, g *entity.Greeting) error

	// Delete removes a greeting by ID.
	Delete(ctx context.Context, id uint) error
}

// MediaScreener verifies that an uploaded media object is safe to attach.
type MediaScreener interface {
	// Moderate returns an error when the object with the given key must not be published.
	Moderate(ctx context.Context, key string) error
}

// MessageSuggester generates greeting text from a prompt.
type MessageSuggester interface {
	Suggest(ctx context.Context, prompt string) (string, error)
}

// NewGreeting is the input for creating a greeting.
type NewGreeting struct {
	RecipientName string
	Message       string
	MediaKeys     []string
}

// GreetingUpdate is the input for a partial greeting update. Nil fields are unchanged.
type GreetingUpdate struct {
	RecipientName *string
	Message       *string
}

// GreetingPage is one page of an author's greetings.
type GreetingPage struct {
	Greetings  []entity.Greeting `json:"greetings"`
	TotalCount int64             `json:"total_count"`
	NextOffset *int              `json:"next_offset"`
}

// greetingUsecase implements greeting post management.
type greetingUsecase struct {
	greetings GreetingRepository
	screener  MediaScreener
	suggester MessageSuggester
}

// NewGreetingUsecase creates a new greetingUsecase. screener and suggester may
// be nil, which disables media screening and message suggestions respectively.
func NewGreetingUsecase(greetings GreetingRepository, screener MediaScreener, suggester MessageSuggester) *greetingUsecase {
	return &greetingUsecase{greetings: greetings, screener: screener, suggester: suggester}
}

func validateGreeting(recipientName, message string) error {
	if recipientName == "" || message == "" {
		return fmt.Errorf("recipient name and message are required")
	}
	if utf8.RuneCountInString(recipientName) > MaxRecipientNameLength {
		return fmt.Errorf("recipient name exceeds maximum length of %d characters", MaxRecipientNameLength)
	}
	if utf8.RuneCountInString(message) > MaxMessageLength {
		return fmt.Errorf("message exceeds maximum length of %d characters", MaxMessageLength)
	}
	return nil
}

// Create validates and persists a new greeting for the given author.
// Every attached media key is screened before the greeting is stored.
func (u *greetingUsecase) Create(ctx context.Context, authorID uint, in NewGreeting) (*entity.Greeting, error) {
	if err := validateGreeting(in.RecipientName, in.Message); err != nil {
		return nil, err
	}
	if len(in.MediaKeys) > MaxMediaPerGreeting {
		return nil, fmt.Errorf("at most %d media attachments are allowed", MaxMediaPerGreeting)
	}
	if u.screener != nil {
		for _, key := range in.MediaKeys {
			if err := u.screener.Moderate(ctx, key); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrMediaRejected, key)
			}
		}
	}

	g := &entity.Greeting{
		AuthorID:      authorID,
		RecipientName: in.RecipientName,
		Message:       in.Message,
		MediaKeys:     in.MediaKeys,
	}
	if err := u.greetings.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a greeting by ID.
func (u *greetingUsecase) GetByID(ctx context.Context, id uint) (*entity.Greeting, error) {
	return u.greetings.FindByID(ctx, id)
}

// ListByAuthor returns a page of the author's greetings, newest first.
func (u *greetingUsecase) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) (*GreetingPage, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	greetings, total, err := u.greetings.ListByAuthor(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}

	page := &GreetingPage{Greetings: greetings, TotalCount: total}
	if int64(offset+len(greetings)) < total {
		next := offset + limit
		page.NextOffset = &next
	}
	return page, nil
}

// Update applies a partial update to a greeting owned by the requester.
func (u *greetingUsecase) Update(ctx context.Context, requesterID, id uint, in GreetingUpdate) (*entity.Greeting, error) {
	g, err := u.greetings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.AuthorID != requesterID {
		return nil, ErrNotOwner
	}
	if in.RecipientName != nil {
		g.RecipientName = *in.RecipientName
	}
	if in.Message != nil {
		g.Message = *in.Message
	}
	if err := validateGreeting(g.RecipientName, g.Message); err != nil {
		return nil, err
	}
	if err := u.greetings.Save(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a greeting. Only the author or an admin may delete it.
func (u *greetingUsecase) Delete(ctx context.Context, requesterID uint, requesterRole string, id uint) error {
	g, err := u.greetings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if g.AuthorID != requesterID && requesterRole != accountsentity.RoleAdmin {
		return ErrNotOwner
	}
	return u.greetings.Delete(ctx, id)
}

// Suggest generates greeting text for the given recipient and tone.
func (u *greetingUsecase) Suggest(ctx context.Context, recipientName, tone string) (string, error) {
	if u.suggester == nil {
		return "", fmt.Errorf("message suggestions are not available")
	}
	if recipientName == "" {
		return "", fmt.Errorf("recipient name is required")
	}
	if utf8.RuneCountInString(recipientName) > MaxRecipientNameLength {
		return "", fmt.Errorf("recipient name exceeds maximum length of %d characters", MaxRecipientNameLength)
	}
	if !validRecipientName.MatchString(recipientName) {
		return "", fmt.Errorf("recipient name contains invalid characters")
	}
	if tone == "" {
		tone = "warm"
	}
	prompt := fmt.Sprintf(suggestionPromptTemplate, recipientName, tone)
	text, err := u.suggester.Suggest(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("suggestion failed for %q: %w", recipientName, err)
	}
	return text, nil
}
