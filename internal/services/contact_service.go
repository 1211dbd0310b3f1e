package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stwalsh4118/dirtboard/internal/logger"
	"github.com/stwalsh4118/dirtboard/internal/models"
	"github.com/stwalsh4118/dirtboard/internal/repository"
)

// ContactService manages the contact points of a property. Contacts are
// added or removed, never edited.
type ContactService interface {
	ListByProperty(ctx context.Context, propertyID string) ([]models.Contact, error)
	// Create returns ErrPropertyNotFound if the property does not exist.
	Create(ctx context.Context, in *models.ContactInsert) (*models.Contact, error)
	Delete(ctx context.Context, id string) error
}

type contactService struct {
	repo repository.ContactRepository
	opts Options
	log  *logger.Logger
}

// NewContactService creates a new instance of ContactService.
func NewContactService(repo repository.ContactRepository, opts Options) ContactService {
	opts = opts.withDefaults()
	return &contactService{repo: repo, opts: opts, log: opts.Log.Component("contacts")}
}

func (s *contactService) ListByProperty(ctx context.Context, propertyID string) ([]models.Contact, error) {
	contacts, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return contacts, nil
}

func (s *contactService) Create(ctx context.Context, in *models.ContactInsert) (*models.Contact, error) {
	if err := s.opts.validate(in); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Contact{
		PropertyID:  in.PropertyID,
		ContactType: in.ContactType,
		Value:       strings.TrimSpace(in.Value),
		Label:       in.Label,
		IsValid:     in.IsValid,
		Source:      in.Source,
	})
	if err != nil {
		s.log.Error("Failed to add contact", err, logger.Fields{
			"property_id":  in.PropertyID,
			"contact_type": in.ContactType,
		})
		return nil, missingParent(fmt.Errorf("failed to add contact: %w", err), ErrPropertyNotFound)
	}
	return created, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !ok {
		return ErrContactNotFound
	}
	return nil
}
