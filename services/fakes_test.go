package services

import (
	"errors"

	"asso-cms/models"

	"gorm.io/gorm"
)

// In-memory repository fakes so the service tests run without a database.

type fakeUserRepo struct {
	users   map[uint]*models.User
	nextID  uint
	touched bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) add(u models.User) *models.User {
	if u.ID == 0 {
		u.ID = r.nextID
	}
	if u.ID >= r.nextID {
		r.nextID = u.ID + 1
	}
	cp := u
	r.users[cp.ID] = &cp
	return &cp
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.touched = true
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	r.touched = true
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.touched = true
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetActiveByEmail(email string) (*models.User, error) {
	r.touched = true
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetList(params models.UserListParams) ([]models.User, int64, error) {
	r.touched = true
	var out []models.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) Update(user *models.User) error {
	r.touched = true
	cp := *user
	r.users[cp.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Deactivate(id uint) error {
	r.touched = true
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

type fakeResetTokenRepo struct {
	tokens     map[uint]*models.PasswordResetToken
	nextID     uint
	users      *fakeUserRepo
	touched    bool
	replaceErr error
}

func newFakeResetTokenRepo(users *fakeUserRepo) *fakeResetTokenRepo {
	return &fakeResetTokenRepo{tokens: map[uint]*models.PasswordResetToken{}, nextID: 1, users: users}
}

func (r *fakeResetTokenRepo) Create(token *models.PasswordResetToken) error {
	r.touched = true
	token.ID = r.nextID
	r.nextID++
	cp := *token
	r.tokens[cp.ID] = &cp
	return nil
}

func (r *fakeResetTokenRepo) GetUnused(tokenValue string) (*models.PasswordResetToken, error) {
	r.touched = true
	for _, t := range r.tokens {
		if t.Token == tokenValue && !t.Used {
			cp := *t
			if u, ok := r.users.users[cp.UserID]; ok {
				cp.User = *u
			}
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeResetTokenRepo) Delete(id uint) error {
	r.touched = true
	delete(r.tokens, id)
	return nil
}

func (r *fakeResetTokenRepo) DeleteByUser(userID uint) error {
	r.touched = true
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

// Replace mirrors the transactional repository method: on failure nothing
// changes, prior tokens included.
func (r *fakeResetTokenRepo) Replace(userID uint, token *models.PasswordResetToken) error {
	r.touched = true
	if r.replaceErr != nil {
		return r.replaceErr
	}
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return r.Create(token)
}

func (r *fakeResetTokenRepo) Consume(token *models.PasswordResetToken, passwordHash string) error {
	r.touched = true
	u, ok := r.users.users[token.UserID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Password = passwordHash

	stored, ok := r.tokens[token.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Used = true

	for id, t := range r.tokens {
		if t.UserID == token.UserID && id != token.ID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeResetTokenRepo) countForUser(userID uint) int {
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

type sentMail struct {
	subject    string
	body       string
	recipients []string
}

type fakeMailer struct {
	sent    []sentMail
	failure error
}

func (m *fakeMailer) IsEnabled() bool { return true }

func (m *fakeMailer) SendTo(subject, body string, recipients []string) error {
	if m.failure != nil {
		return m.failure
	}
	m.sent = append(m.sent, sentMail{subject: subject, body: body, recipients: recipients})
	return nil
}

var (
	errSMTPDown = errors.New("smtp: connection refused")
	errDBDown   = errors.New("pq: connection reset")
)
