package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type userRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) repository.UserRepository {
	return &userRepository{client: client}
}

func (r *userRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(uid)
}

func (r *userRepository) Upsert(ctx context.Context, u *domain.User) error {
	data := map[string]interface{}{
		"uid":        u.UID,
		"fullName":   u.FullName,
		"email":      u.Email,
		"role":       string(u.Role),
		"isVerified": u.IsVerified,
		"createdAt":  u.CreatedAt,
	}
	if u.Phone != "" {
		data["phone"] = u.Phone
	}
	if u.City != "" {
		data["city"] = u.City
	}
	if u.AccountType != "" {
		data["accountType"] = u.AccountType
	}
	if u.PhotoURL != "" {
		data["photoURL"] = u.PhotoURL
	}
	if u.Docs.Permis != "" || u.Docs.CNI != "" {
		data["docs"] = map[string]interface{}{"permis": u.Docs.Permis, "cni": u.Docs.CNI}
	}

	logger.StoreCall("firestore", "upsert_user", usersCollection, "uid", u.UID)
	_, err := r.doc(u.UID).Set(ctx, data, firestore.MergeAll)
	logger.StoreResult("firestore", "upsert_user", 1, err)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*domain.User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, err
	}
	if u.UID == "" {
		u.UID = snap.Ref.ID
	}
	return &u, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, uid string, update repository.ProfileUpdate) error {
	var updates []firestore.Update
	if update.FullName != nil {
		updates = append(updates, firestore.Update{Path: "fullName", Value: *update.FullName})
	}
	if update.Phone != nil {
		updates = append(updates, firestore.Update{Path: "phone", Value: *update.Phone})
	}
	if update.City != nil {
		updates = append(updates, firestore.Update{Path: "city", Value: *update.City})
	}
	if update.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *update.PhotoURL})
	}
	if len(updates) == 0 {
		return nil
	}

	logger.StoreCall("firestore", "update_profile", usersCollection, "uid", uid)
	_, err := r.doc(uid).Update(ctx, updates)
	logger.StoreResult("firestore", "update_profile", 1, err)
	return mapErr(err)
}

// SetDocument records an identity document URL and marks the profile verified.
func (r *userRepository) SetDocument(ctx context.Context, uid string, kind domain.DocumentKind, url string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"docs", string(kind)}, Value: url},
		{Path: "isVerified", Value: true},
	})
	return mapErr(err)
}

func (r *userRepository) CountByRole(ctx context.Context, roles ...domain.UserRole) (int32, error) {
	q := r.client.Collection(usersCollection).Query
	switch len(roles) {
	case 0:
	case 1:
		q = q.Where("role", "==", string(roles[0]))
	default:
		names := make([]string, len(roles))
		for i, role := range roles {
			names[i] = string(role)
		}
		q = q.Where("role", "in", names)
	}
	return count(ctx, q)
}
