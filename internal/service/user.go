package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/security"
	"wotro-backend/internal/storage"
)

const documentURLExpiry = 15 * time.Minute

type userService struct {
	userRepo      repository.UserRepository
	store         storage.StorageInterface
	masterKeyHash string
}

func NewUserService(userRepo repository.UserRepository, store storage.StorageInterface, masterKeyHash string) UserService {
	return &userService{userRepo: userRepo, store: store, masterKeyHash: masterKeyHash}
}

func (s *userService) RegisterClient(ctx context.Context, sess *domain.Session, fullName string) (*domain.User, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, invalidf("full name is required")
	}
	if _, err := s.userRepo.GetByID(ctx, sess.UID); err == nil {
		return nil, fmt.Errorf("%w: profile already exists", ErrConflict)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	u := s.newUser(sess, fullName, domain.UserRoleClient)
	if err := s.userRepo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("Client registered", "uid", u.UID)
	return u, nil
}

func (s *userService) RegisterHost(ctx context.Context, sess *domain.Session, reg HostRegistration) (*domain.User, error) {
	reg.FullName = strings.TrimSpace(reg.FullName)
	if reg.FullName == "" {
		return nil, invalidf("full name is required")
	}
	if strings.TrimSpace(reg.Phone) == "" {
		return nil, invalidf("phone is required")
	}

	u := s.newUser(sess, reg.FullName, domain.UserRoleHost)
	u.Phone = strings.TrimSpace(reg.Phone)
	u.City = reg.City
	u.AccountType = reg.AccountType
	u.PhotoURL = reg.PhotoURL
	if u.PhotoURL == "" {
		u.PhotoURL = DefaultAvatarURL(reg.FullName)
	}

	// Keep documents and verification of an existing client profile.
	if existing, err := s.userRepo.GetByID(ctx, sess.UID); err == nil {
		u.IsVerified = existing.IsVerified
		u.Docs = existing.Docs
		if existing.CreatedAt != "" {
			u.CreatedAt = existing.CreatedAt
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if err := s.userRepo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("Host registered", "uid", u.UID)
	return u, nil
}

func (s *userService) RegisterAdmin(ctx context.Context, sess *domain.Session, masterKey string) (*domain.User, error) {
	if err := security.VerifyMasterKey(s.masterKeyHash, masterKey); err != nil {
		logger.Warn("Admin registration refused", "uid", sess.UID)
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	name := sess.DisplayName
	if name == "" {
		name = "Administrateur"
	}
	u := s.newUser(sess, name, domain.UserRoleAdmin)
	u.IsVerified = true
	if err := s.userRepo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("Admin registered", "uid", u.UID)
	return u, nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*domain.User, error) {
	u, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, fromRepo(err, "user")
	}
	return u, nil
}

func (s *userService) UpdateProfile(ctx context.Context, sess *domain.Session, update repository.ProfileUpdate) (*domain.User, error) {
	if update.FullName != nil && strings.TrimSpace(*update.FullName) == "" {
		return nil, invalidf("full name cannot be empty")
	}
	if err := s.userRepo.UpdateProfile(ctx, sess.UID, update); err != nil {
		return nil, fromRepo(err, "user")
	}
	return s.GetProfile(ctx, sess.UID)
}

// AttachDocument records an uploaded identity document on the caller's
// profile. key must be a confirmed "document/<uid>/..." object of the caller.
func (s *userService) AttachDocument(ctx context.Context, sess *domain.Session, kind domain.DocumentKind, key string) (*domain.User, error) {
	if !validDocumentKind(kind) {
		return nil, invalidf("unknown document kind %q", kind)
	}
	purpose, owner, err := splitKey(key)
	if err != nil {
		return nil, err
	}
	if owner != sess.UID {
		return nil, fmt.Errorf("%w: document belongs to another user", ErrForbidden)
	}
	if purpose != domain.UploadPurposeDocument {
		return nil, invalidf("object %s is not a document upload", key)
	}
	exists, _, err := s.store.FileExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("document %s: %w", key, ErrNotFound)
	}

	if err := s.userRepo.SetDocument(ctx, sess.UID, kind, key); err != nil {
		return nil, fromRepo(err, "user")
	}
	logger.Info("Identity document attached", "uid", sess.UID, "kind", kind)
	return s.GetProfile(ctx, sess.UID)
}

// DocumentURL signs a short-lived download link for a stored document.
// Only the profile owner and administrators may read it.
func (s *userService) DocumentURL(ctx context.Context, sess *domain.Session, uid string, kind domain.DocumentKind) (*domain.StoredObject, error) {
	if !validDocumentKind(kind) {
		return nil, invalidf("unknown document kind %q", kind)
	}
	if uid != sess.UID && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: documents are private", ErrForbidden)
	}
	u, err := s.GetProfile(ctx, uid)
	if err != nil {
		return nil, err
	}
	key := u.Docs.Permis
	if kind == domain.DocumentKindCNI {
		key = u.Docs.CNI
	}
	if key == "" {
		return nil, fmt.Errorf("%s document: %w", kind, ErrNotFound)
	}
	signed, err := s.store.GeneratePresignedDownloadURL(ctx, key, documentURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign document url: %w", err)
	}
	return &domain.StoredObject{Key: key, URL: signed, ExpiresAt: time.Now().Add(documentURLExpiry).Unix()}, nil
}

func validDocumentKind(kind domain.DocumentKind) bool {
	return kind == domain.DocumentKindPermis || kind == domain.DocumentKindCNI
}

func (s *userService) newUser(sess *domain.Session, fullName string, role domain.UserRole) *domain.User {
	return &domain.User{
		UID:       sess.UID,
		FullName:  fullName,
		Email:     sess.Email,
		Role:      role,
		CreatedAt: domain.Timestamp(time.Now()),
	}
}

// DefaultAvatarURL builds the generated initials avatar used when a host has no photo.
func DefaultAvatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=2563eb&color=fff"
}
