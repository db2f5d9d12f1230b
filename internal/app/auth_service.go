package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"meteo-server/internal/model"
	"meteo-server/internal/pkg/jwtutil"
	"meteo-server/internal/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
)

type AuthService struct {
	accountRepo   *repository.AccountRepository
	jwtSecret     string
	jwtExpiration time.Duration
	signupHomi    int64
}

type RegisterInput struct {
	Role     model.Role
	Name     string
	Email    string
	Password string
	Intro    string
}

type LoginInput struct {
	Role     model.Role
	Email    string
	Password string
}

type AuthResult struct {
	Token   string
	Account *model.Account
	Role    model.Role
}

func NewAuthService(accountRepo *repository.AccountRepository, jwtSecret string, jwtExpiration time.Duration, signupHomi int64) *AuthService {
	return &AuthService{
		accountRepo:   accountRepo,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		signupHomi:    signupHomi,
	}
}

func (s *AuthService) Register(input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if !input.Role.Valid() || name == "" || email == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.accountRepo.GetByEmail(input.Role, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	account := &model.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Homi:         s.signupHomi,
		Intro:        strings.TrimSpace(input.Intro),
	}
	if err := s.accountRepo.Create(input.Role, account); err != nil {
		return nil, err
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, string(input.Role), account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account, Role: input.Role}, nil
}

func (s *AuthService) Login(input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)
	if !input.Role.Valid() || email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	account, err := s.accountRepo.GetByEmail(input.Role, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	token, err := jwtutil.GenerateToken(s.jwtSecret, s.jwtExpiration, string(input.Role), account.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Account: account, Role: input.Role}, nil
}

func (s *AuthService) GetAccount(ref model.UserRef) (*model.Account, error) {
	if !ref.Valid() {
		return nil, ErrInvalidInput
	}
	return s.accountRepo.GetByID(ref)
}
