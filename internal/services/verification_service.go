package services

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"

	"windpermit/internal/models"
)

// VerificationStore — хранилище записей верификации (ключ — email).
type VerificationStore interface {
	Upsert(email, codeHash string, issuedAt time.Time) error
	GetByEmail(email string) (*models.VerificationRecord, error)
	MarkVerified(email string) error
}

// VerificationService — выдача и проверка одноразовых 6-значных кодов.
// Одна и та же способность для входа сотрудника и для подтверждения
// инженеров на экране верификации команды.
type VerificationService struct {
	Repo   VerificationStore
	Mailer EmailService
}

func NewVerificationService(repo VerificationStore, mailer EmailService) *VerificationService {
	return &VerificationService{Repo: repo, Mailer: mailer}
}

func (s *VerificationService) generateCode() string {
	src := rand.NewSource(time.Now().UnixNano())
	rnd := rand.New(src)
	return fmt.Sprintf("%06d", 100000+rnd.Intn(900000))
}

// IssueCode — сначала доставка, потом запись: при ошибке SMTP ничего
// не сохраняем, код наружу не возвращается никогда. Храним только
// bcrypt-хэш; повторная выдача затирает предыдущий код.
func (s *VerificationService) IssueCode(email string) error {
	code := s.generateCode()

	if err := s.Mailer.SendVerificationCode(email, code); err != nil {
		log.Printf("[verify][send] delivery failed email=%s err=%v", email, err)
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}

	hashBytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt generate: %w", err)
	}
	if err := s.Repo.Upsert(email, string(hashBytes), time.Now()); err != nil {
		return err
	}

	log.Printf("[verify][send] ok email=%s", email)
	return nil
}

// CheckCode — TTL и счётчика попыток нет; повторная проверка уже
// подтверждённого кода идемпотентна.
func (s *VerificationService) CheckCode(email, code string) error {
	v, err := s.Repo.GetByEmail(email)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrVerificationNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return ErrCodeMismatch
	}

	if !v.Verified {
		if err := s.Repo.MarkVerified(email); err != nil {
			return err
		}
	}
	log.Printf("[verify][check] OK email=%s", email)
	return nil
}

// IsVerified — состояние записи для all-or-nothing гейта отправки наряда.
func (s *VerificationService) IsVerified(email string) (bool, error) {
	v, err := s.Repo.GetByEmail(email)
	if err != nil {
		return false, err
	}
	return v != nil && v.Verified, nil
}
