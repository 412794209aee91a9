package service

import (
	"context"
	"errors"

	"shopcheck/internal/model"
	"shopcheck/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// UserService handles employee and admin management
type UserService struct {
	userRepo repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(userRepo repository.UserRepo) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a user for a chat identity; registering the same
// chat twice is a no-op returning the existing id.
func (s *UserService) Register(ctx context.Context, chatID int64, fullName string, role model.Role, shopID, position string) (string, error) {
	user := &model.User{
		ChatID:   chatID,
		FullName: fullName,
		Role:     role,
		ShopID:   shopID,
		Position: position,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return "", err
	}

	if role == model.RoleAdmin && shopID != "" {
		if err := s.userRepo.AttachShop(ctx, chatID, shopID); err != nil {
			return "", err
		}
	}
	return id, nil
}

// GetByChatID resolves a conversation identity to a user
func (s *UserService) GetByChatID(ctx context.Context, chatID int64) (*model.User, error) {
	return s.userRepo.GetByChatID(ctx, chatID)
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// Update renames a user and/or moves them to a new chat identity.
// Refuses a chat id already held by someone else.
func (s *UserService) Update(ctx context.Context, id string, fullName string, chatID int64) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if chatID != 0 && chatID != user.ChatID {
		existing, err := s.userRepo.GetByChatID(ctx, chatID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != id {
			return errors.New("chat id already in use")
		}

		if user.Role == model.RoleAdmin {
			// Move the admin's shop links along with the identity.
			shops, err := s.userRepo.ListAdminShops(ctx, user.ChatID)
			if err != nil {
				return err
			}
			if err := s.userRepo.DetachAllShops(ctx, user.ChatID); err != nil {
				return err
			}
			for _, shop := range shops {
				if err := s.userRepo.AttachShop(ctx, chatID, shop); err != nil {
					return err
				}
			}
		}
		user.ChatID = chatID
	}

	return s.userRepo.Update(ctx, user)
}

// Delete removes a user; deleting an admin drops its shop links too
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.Role == model.RoleAdmin {
		if err := s.userRepo.DetachAllShops(ctx, user.ChatID); err != nil {
			return err
		}
	}
	return s.userRepo.Delete(ctx, id)
}

// ListWorkers retrieves all workers
func (s *UserService) ListWorkers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleWorker)
}

// ListAdmins retrieves all admins
func (s *UserService) ListAdmins(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.ListByRole(ctx, model.RoleAdmin)
}

// EmployeesByShop retrieves everyone assigned to a shop
func (s *UserService) EmployeesByShop(ctx context.Context, shopID string) ([]*model.User, error) {
	return s.userRepo.ListByShop(ctx, shopID)
}

// Positions lists the distinct positions held by workers
func (s *UserService) Positions(ctx context.Context) ([]string, error) {
	return s.userRepo.DistinctPositions(ctx)
}

// WorkerShops lists the distinct shops that have workers
func (s *UserService) WorkerShops(ctx context.Context) ([]string, error) {
	return s.userRepo.DistinctWorkerShops(ctx)
}

// AttachAdminShop links a shop to an admin
func (s *UserService) AttachAdminShop(ctx context.Context, adminChatID int64, shopName string) error {
	return s.userRepo.AttachShop(ctx, adminChatID, shopName)
}

// AdminShops lists the shops an admin manages
func (s *UserService) AdminShops(ctx context.Context, adminChatID int64) ([]string, error) {
	return s.userRepo.ListAdminShops(ctx, adminChatID)
}
