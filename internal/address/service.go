// Package address は連絡先配下の住所CRUDを提供する。
// 住所へのアクセスは所有者→連絡先→住所の2段階検証を必ず通る。
package address

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// CreateRequest は住所作成の入力。
type CreateRequest struct {
	Street     string
	City       string
	Province   string
	Country    string
	PostalCode string
}

// UpdateRequest は住所更新の入力。
// nilのフィールドは変更しない（部分マージ）。
type UpdateRequest struct {
	Street     *string
	City       *string
	Province   *string
	Country    *string
	PostalCode *string
}

// Service は住所に関するビジネスロジックを提供する。
type Service struct {
	contactRepo repository.ContactRepository
	addressRepo repository.AddressRepository
}

// NewService はServiceを生成する。
func NewService(contactRepo repository.ContactRepository, addressRepo repository.AddressRepository) *Service {
	return &Service{
		contactRepo: contactRepo,
		addressRepo: addressRepo,
	}
}

// Create は連絡先配下に住所を作成する。
func (s *Service) Create(ctx context.Context, user *model.User, contactID string, req CreateRequest) (*model.Address, error) {
	if err := validateFields(req.Street, req.City, req.Province, req.Country, req.PostalCode); err != nil {
		return nil, err
	}

	contact, err := s.resolveContact(ctx, user, contactID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	address := &model.Address{
		ID:         uuid.New().String(),
		ContactID:  contact.ID,
		Street:     req.Street,
		City:       req.City,
		Province:   req.Province,
		Country:    req.Country,
		PostalCode: req.PostalCode,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

// Get は連絡先配下の住所を取得する。
func (s *Service) Get(ctx context.Context, user *model.User, contactID, id string) (*model.Address, error) {
	contact, err := s.resolveContact(ctx, user, contactID)
	if err != nil {
		return nil, err
	}

	address, err := s.addressRepo.FindByContactAndID(ctx, contact.ID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find address: %w", err)
	}
	if address == nil {
		return nil, model.NewAddressNotFoundError()
	}

	return address, nil
}

// Update は住所を部分更新する。
// 検証は存在チェックより先に行う。
func (s *Service) Update(ctx context.Context, user *model.User, contactID, id string, req UpdateRequest) (*model.Address, error) {
	if err := validatePartial(req); err != nil {
		return nil, err
	}

	address, err := s.Get(ctx, user, contactID, id)
	if err != nil {
		return nil, err
	}

	if req.Street != nil {
		address.Street = *req.Street
	}
	if req.City != nil {
		address.City = *req.City
	}
	if req.Province != nil {
		address.Province = *req.Province
	}
	if req.Country != nil {
		address.Country = *req.Country
	}
	if req.PostalCode != nil {
		address.PostalCode = *req.PostalCode
	}
	address.UpdatedAt = time.Now()

	if err := s.addressRepo.Update(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return address, nil
}

// Delete は住所を削除する。
func (s *Service) Delete(ctx context.Context, user *model.User, contactID, id string) error {
	address, err := s.Get(ctx, user, contactID, id)
	if err != nil {
		return err
	}

	if err := s.addressRepo.Delete(ctx, address.ID); err != nil {
		return fmt.Errorf("failed to delete address: %w", err)
	}

	return nil
}

// List は連絡先配下の全住所を返す。
func (s *Service) List(ctx context.Context, user *model.User, contactID string) ([]*model.Address, error) {
	contact, err := s.resolveContact(ctx, user, contactID)
	if err != nil {
		return nil, err
	}

	addresses, err := s.addressRepo.ListByContact(ctx, contact.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}

	return addresses, nil
}

// resolveContact は所有者スコープで親の連絡先を解決する。
// 全操作の1段目の所有者検証として使う。
func (s *Service) resolveContact(ctx context.Context, user *model.User, contactID string) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByOwnerAndID(ctx, user.Username, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact == nil {
		return nil, model.NewContactNotFoundError()
	}
	return contact, nil
}

// validateFields は住所フィールドの共通検証を行う。countryのみ必須。
func validateFields(street, city, province, country, postalCode string) error {
	return validation.First(
		validation.MaxLen("street", street, 200),
		validation.MaxLen("city", city, 100),
		validation.MaxLen("province", province, 100),
		validation.Required("country", country),
		validation.MaxLen("country", country, 100),
		validation.MaxLen("postalCode", postalCode, 10),
	)
}

// validatePartial は部分更新リクエストのうち、与えられたフィールドのみを検証する。
func validatePartial(req UpdateRequest) error {
	if req.Street != nil {
		if err := validation.MaxLen("street", *req.Street, 200); err != nil {
			return err
		}
	}
	if req.City != nil {
		if err := validation.MaxLen("city", *req.City, 100); err != nil {
			return err
		}
	}
	if req.Province != nil {
		if err := validation.MaxLen("province", *req.Province, 100); err != nil {
			return err
		}
	}
	if req.Country != nil {
		if err := validation.First(
			validation.Required("country", *req.Country),
			validation.MaxLen("country", *req.Country, 100),
		); err != nil {
			return err
		}
	}
	if req.PostalCode != nil {
		if err := validation.MaxLen("postalCode", *req.PostalCode, 10); err != nil {
			return err
		}
	}
	return nil
}
