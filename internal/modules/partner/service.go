// README: Partner registration and verification.
package partner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"snabbdeal/internal/media"
	"snabbdeal/internal/types"
)

var (
	ErrNotFound    = errors.New("partner not found")
	ErrEmailTaken  = errors.New("partner with email already exists")
	ErrNotVerified = errors.New("partner is not verified")
	ErrBadRequest  = errors.New("bad request")
)

type Store interface {
	Create(ctx context.Context, p *Partner) error
	Get(ctx context.Context, id types.ID) (*Partner, error)
	GetByEmail(ctx context.Context, email string) (*Partner, error)
	List(ctx context.Context) ([]Partner, error)
	SetVerified(ctx context.Context, id types.ID, verified bool) error
}

type Service struct {
	store Store
	media media.Uploader
	log   *zap.Logger
}

func NewService(store Store, uploader media.Uploader, log *zap.Logger) *Service {
	return &Service{store: store, media: uploader, log: log}
}

// Document is one uploaded verification image (front or back of an id).
type Document struct {
	ContentType string
	Reader      io.Reader
}

type RegisterCommand struct {
	Email         string
	Name          string
	Phone         string
	ItemType      string
	Business      string
	Platforms     []string
	Address       types.Address
	PickupFrom    string
	PickupTo      string
	PaymentMethod string
	Front         Document
	Back          Document
}

// Register stores a new partner, unverified until an operator approves it.
// Both sides of the verification document must be supplied.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (types.ID, error) {
	if cmd.Email == "" || cmd.Name == "" || cmd.Phone == "" {
		return "", ErrBadRequest
	}
	if cmd.Front.Reader == nil || cmd.Back.Reader == nil {
		return "", fmt.Errorf("%w: missing front or back document image", ErrBadRequest)
	}

	existing, err := s.store.GetByEmail(ctx, cmd.Email)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", ErrEmailTaken
	}

	docs := make([]types.Image, 0, 2)
	for _, doc := range []Document{cmd.Front, cmd.Back} {
		img, err := s.media.Upload(ctx, "partner-documents", doc.ContentType, doc.Reader)
		if err != nil {
			return "", fmt.Errorf("upload partner document: %w", err)
		}
		docs = append(docs, img)
	}

	p := &Partner{
		ID:            types.ID(uuid.NewString()),
		Email:         cmd.Email,
		Name:          cmd.Name,
		Phone:         cmd.Phone,
		ItemType:      cmd.ItemType,
		Business:      cmd.Business,
		Platforms:     cmd.Platforms,
		Address:       cmd.Address,
		PickupFrom:    cmd.PickupFrom,
		PickupTo:      cmd.PickupTo,
		Documents:     docs,
		PaymentMethod: cmd.PaymentMethod,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return "", err
	}

	s.log.Info("partner registered",
		zap.String("partner_id", string(p.ID)),
		zap.String("business", p.Business))
	return p.ID, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Partner, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Partner, error) {
	return s.store.List(ctx)
}

// ToggleAccess flips the verified flag; only verified partners may mediate
// buyer intents.
func (s *Service) ToggleAccess(ctx context.Context, id types.ID, approve bool) error {
	if _, err := s.store.Get(ctx, id); err != nil {
		return err
	}
	return s.store.SetVerified(ctx, id, approve)
}
