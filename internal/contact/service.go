// Package contact は所有者スコープ付きの連絡先CRUDと動的検索を提供する。
package contact

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/renrakucho/internal/model"
	"github.com/hitoshi/renrakucho/internal/repository"
	"github.com/hitoshi/renrakucho/internal/validation"
)

// デフォルトのページングパラメータ
const (
	DefaultPage = 0
	DefaultSize = 10
)

// CreateRequest は連絡先作成の入力。
type CreateRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdateRequest は連絡先更新の入力。
// nilのフィールドは変更しない（部分マージ）。
type UpdateRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
}

// SearchRequest は連絡先検索の入力。
// Name/Email/Phoneは空文字なら条件に含めない。
type SearchRequest struct {
	Name  string
	Email string
	Phone string
	Page  int // 0始まり
	Size  int
}

// Page は検索結果の1ページとページングメタデータを表す。
// CurrentPageは要求された値をそのまま返し、範囲外でも丸めない。
type Page struct {
	Contacts    []*model.Contact
	CurrentPage int
	TotalPage   int
	Size        int
}

// Service は連絡先に関するビジネスロジックを提供する。
// 全操作は認証済みの所有者を引数に取り、IDのみでの操作は存在しない。
type Service struct {
	contactRepo repository.ContactRepository
}

// NewService はServiceを生成する。
func NewService(contactRepo repository.ContactRepository) *Service {
	return &Service{contactRepo: contactRepo}
}

// Create は連絡先を作成する。
func (s *Service) Create(ctx context.Context, user *model.User, req CreateRequest) (*model.Contact, error) {
	if err := validateFields(req.FirstName, req.LastName, req.Email, req.Phone); err != nil {
		return nil, err
	}

	now := time.Now()
	contact := &model.Contact{
		ID:        uuid.New().String(),
		Username:  user.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

// Get は所有者の連絡先を取得する。
// 存在しない場合と他ユーザー所有の場合はどちらも同一のNotFoundになる。
func (s *Service) Get(ctx context.Context, user *model.User, id string) (*model.Contact, error) {
	contact, err := s.contactRepo.FindByOwnerAndID(ctx, user.Username, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact == nil {
		return nil, model.NewContactNotFoundError()
	}
	return contact, nil
}

// Update は連絡先を部分更新する。
// 検証は存在チェックより先に行い、不正なリクエストからIDの存在有無が漏れないようにする。
func (s *Service) Update(ctx context.Context, user *model.User, id string, req UpdateRequest) (*model.Contact, error) {
	if err := validatePartial(req); err != nil {
		return nil, err
	}

	contact, err := s.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		contact.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		contact.LastName = *req.LastName
	}
	if req.Email != nil {
		contact.Email = *req.Email
	}
	if req.Phone != nil {
		contact.Phone = *req.Phone
	}
	contact.UpdatedAt = time.Now()

	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}

	return contact, nil
}

// Delete は連絡先と配下の全住所を削除する（明示的カスケード）。
func (s *Service) Delete(ctx context.Context, user *model.User, id string) error {
	contact, err := s.Get(ctx, user, id)
	if err != nil {
		return err
	}

	if err := s.contactRepo.DeleteWithAddresses(ctx, contact.ID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil
}

// Search は所有者の連絡先をフィルタ条件で検索し、1ページ分を返す。
// 最終ページより先のページ要求はエラーにならず、空のスライスと正しいTotalPageを返す。
func (s *Service) Search(ctx context.Context, user *model.User, req SearchRequest) (*Page, error) {
	if req.Page < 0 {
		return nil, model.NewValidationError("page", "must not be negative")
	}
	if req.Size <= 0 {
		return nil, model.NewValidationError("size", "must be greater than zero")
	}

	contacts, total, err := s.contactRepo.Search(ctx, repository.SearchFilter{
		Username: user.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Offset:   req.Page * req.Size,
		Limit:    req.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}

	return &Page{
		Contacts:    contacts,
		CurrentPage: req.Page,
		TotalPage:   (total + req.Size - 1) / req.Size,
		Size:        req.Size,
	}, nil
}

// validateFields は連絡先フィールドの共通検証を行う。
func validateFields(firstName, lastName, email, phone string) error {
	return validation.First(
		validation.Required("firstName", firstName),
		validation.MaxLen("firstName", firstName, 100),
		validation.MaxLen("lastName", lastName, 100),
		validation.Email("email", email),
		validation.MaxLen("email", email, 100),
		validation.MaxLen("phone", phone, 20),
	)
}

// validatePartial は部分更新リクエストのうち、与えられたフィールドのみを検証する。
func validatePartial(req UpdateRequest) error {
	if req.FirstName != nil {
		if err := validation.First(
			validation.Required("firstName", *req.FirstName),
			validation.MaxLen("firstName", *req.FirstName, 100),
		); err != nil {
			return err
		}
	}
	if req.LastName != nil {
		if err := validation.MaxLen("lastName", *req.LastName, 100); err != nil {
			return err
		}
	}
	if req.Email != nil {
		if err := validation.First(
			validation.Email("email", *req.Email),
			validation.MaxLen("email", *req.Email, 100),
		); err != nil {
			return err
		}
	}
	if req.Phone != nil {
		if err := validation.MaxLen("phone", *req.Phone, 20); err != nil {
			return err
		}
	}
	return nil
}
