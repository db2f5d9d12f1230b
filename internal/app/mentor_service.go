package app

import (
	"meteo-server/internal/model"
	"meteo-server/internal/repository"
)

const landingMentorCount = 8

// MentorService backs the landing page mentor carousel.
type MentorService struct {
	accountRepo *repository.AccountRepository
}

func NewMentorService(accountRepo *repository.AccountRepository) *MentorService {
	return &MentorService{accountRepo: accountRepo}
}

func (s *MentorService) RandomMentors() ([]model.Account, error) {
	return s.accountRepo.ListRandomMentors(landingMentorCount)
}
