package repository

import (
	"context"
	"fmt"
	"time"

	"feira_back_end/internal/models"

	"github.com/gocql/gocql"
)

type ProfileRepository struct {
	session *gocql.Session
}

func NewProfileRepository(session *gocql.Session) *ProfileRepository {
	return &ProfileRepository{session: session}
}

// CreateUser grava as credenciais (LWT para garantir email único) e o perfil.
func (r *ProfileRepository) CreateUser(ctx context.Context, u models.User, p models.Profile) error {
	applied, err := r.session.Query(
		`INSERT INTO users_by_email (email, user_id, password, user_type) VALUES (?, ?, ?, ?) IF NOT EXISTS`,
		u.Email, u.ID, u.Password, u.UserType,
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("inserir credenciais: %w", err)
	}
	if !applied {
		return ErrEmailTaken
	}

	p.ID = u.ID
	p.Email = u.Email
	p.UserType = u.UserType
	return r.UpsertProfile(ctx, p)
}

func (r *ProfileRepository) FindCredentials(ctx context.Context, email string) (models.User, error) {
	u := models.User{Email: email}
	err := r.session.Query(
		`SELECT user_id, password, user_type FROM users_by_email WHERE email = ?`, email,
	).WithContext(ctx).Scan(&u.ID, &u.Password, &u.UserType)
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (r *ProfileRepository) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	var (
		p       models.Profile
		address map[string]string
	)
	err := r.session.Query(
		`SELECT user_id, email, full_name, user_type, phone, avatar_url, address, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	).WithContext(ctx).Scan(&p.ID, &p.Email, &p.FullName, &p.UserType, &p.Phone, &p.AvatarURL, &address, &p.UpdatedAt)
	if err != nil {
		return models.Profile{}, notFound(err)
	}
	p.Address = addressFromMap(address)
	return p, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, p models.Profile) error {
	p.UpdatedAt = time.Now().UTC()
	err := r.session.Query(
		`INSERT INTO profiles (user_id, email, full_name, user_type, phone, avatar_url, address, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, p.FullName, p.UserType, p.Phone, p.AvatarURL, addressToMap(p.Address), p.UpdatedAt,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("gravar perfil %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	return r.session.Query(
		`UPDATE profiles SET avatar_url = ?, updated_at = ? WHERE user_id = ?`,
		avatarURL, time.Now().UTC(), userID,
	).WithContext(ctx).Exec()
}

// FullNames devolve user_id → full_name para os ids informados.
// Ids sem perfil ficam de fora do mapa.
func (r *ProfileRepository) FullNames(ctx context.Context, userIDs []string) (map[string]string, error) {
	names := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		if _, done := names[id]; done || id == "" {
			continue
		}
		var name string
		err := r.session.Query(`SELECT full_name FROM profiles WHERE user_id = ?`, id).
			WithContext(ctx).Scan(&name)
		if err == gocql.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("buscar nome de %s: %w", id, err)
		}
		names[id] = name
	}
	return names, nil
}
