package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"meteo-server/internal/model"
	"meteo-server/internal/repository"
)

var (
	ErrDiaryNotFound  = errors.New("diary not found")
	ErrDiaryForbidden = errors.New("diary belongs to another mentee")
)

const diaryPreviewLimit = 200

// FileUploader stores an uploaded file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (string, error)
}

type DiaryService struct {
	diaryRepo *repository.DiaryRepository
	uploader  FileUploader
}

type DiaryInput struct {
	MenteeSrl uint
	Title     string
	Contents  string

	// Optional photo attachment.
	Photo            io.Reader
	PhotoSize        int64
	PhotoContentType string
	PhotoFilename    string
}

// DiaryListItem is the listing shape of the legacy diary feed: a content
// preview plus the user_type/srl annotations the clients key on.
type DiaryListItem struct {
	DiarySrl  uint      `json:"diary_srl"`
	Srl       uint      `json:"srl"`
	UserType  string    `json:"user_type"`
	Title     string    `json:"title"`
	Contents  string    `json:"contents"`
	PhotoURL  string    `json:"photo_url"`
	Regdate   time.Time `json:"regdate"`
}

type DiaryPage struct {
	model.PageMeta
	Data []DiaryListItem `json:"data"`
}

func NewDiaryService(diaryRepo *repository.DiaryRepository, uploader FileUploader) *DiaryService {
	return &DiaryService{diaryRepo: diaryRepo, uploader: uploader}
}

func (s *DiaryService) Create(ctx context.Context, input DiaryInput) (*model.MenteeDiary, error) {
	title := strings.TrimSpace(input.Title)
	if input.MenteeSrl == 0 || title == "" {
		return nil, ErrInvalidInput
	}

	photoURL, err := s.uploadPhoto(ctx, input)
	if err != nil {
		return nil, err
	}

	diary := &model.MenteeDiary{
		MenteeSrl: input.MenteeSrl,
		Title:     title,
		Contents:  input.Contents,
		PhotoURL:  photoURL,
		Regdate:   time.Now(),
	}
	if err := s.diaryRepo.Create(diary); err != nil {
		return nil, err
	}
	return diary, nil
}

func (s *DiaryService) Get(diarySrl uint) (*model.MenteeDiary, error) {
	if diarySrl == 0 {
		return nil, ErrInvalidInput
	}
	diary, err := s.diaryRepo.GetBySrl(diarySrl)
	if err != nil {
		return nil, err
	}
	if diary == nil {
		return nil, ErrDiaryNotFound
	}
	return diary, nil
}

func (s *DiaryService) Update(ctx context.Context, diarySrl uint, input DiaryInput) (*model.MenteeDiary, error) {
	diary, err := s.Get(diarySrl)
	if err != nil {
		return nil, err
	}
	if diary.MenteeSrl != input.MenteeSrl {
		return nil, ErrDiaryForbidden
	}

	if title := strings.TrimSpace(input.Title); title != "" {
		diary.Title = title
	}
	if input.Contents != "" {
		diary.Contents = input.Contents
	}
	photoURL, err := s.uploadPhoto(ctx, input)
	if err != nil {
		return nil, err
	}
	if photoURL != "" {
		diary.PhotoURL = photoURL
	}

	if err := s.diaryRepo.Save(diary); err != nil {
		return nil, err
	}
	return diary, nil
}

func (s *DiaryService) Destroy(diarySrl, menteeSrl uint) error {
	diary, err := s.Get(diarySrl)
	if err != nil {
		return err
	}
	if diary.MenteeSrl != menteeSrl {
		return ErrDiaryForbidden
	}
	return s.diaryRepo.Delete(diarySrl)
}

// UserDiary lists one mentee's diaries, newest first, with previews.
func (s *DiaryService) UserDiary(menteeSrl uint, page int) (*DiaryPage, error) {
	if menteeSrl == 0 {
		return nil, ErrInvalidInput
	}
	diaries, total, err := s.diaryRepo.ListByMentee(menteeSrl, page)
	if err != nil {
		return nil, err
	}
	return s.buildPage(diaries, total, page), nil
}

func (s *DiaryService) All(page int) (*DiaryPage, error) {
	diaries, total, err := s.diaryRepo.ListAll(page)
	if err != nil {
		return nil, err
	}
	return s.buildPage(diaries, total, page), nil
}

func (s *DiaryService) buildPage(diaries []model.MenteeDiary, total int64, page int) *DiaryPage {
	items := make([]DiaryListItem, 0, len(diaries))
	for _, diary := range diaries {
		items = append(items, DiaryListItem{
			DiarySrl: diary.DiarySrl,
			Srl:      diary.MenteeSrl,
			UserType: "mentee",
			Title:    diary.Title,
			Contents: strLimit(diary.Contents, diaryPreviewLimit, "..."),
			PhotoURL: diary.PhotoURL,
			Regdate:  diary.Regdate,
		})
	}
	return &DiaryPage{
		PageMeta: model.NewPageMeta(page, repository.DiaryPageSize, total),
		Data:     items,
	}
}

func (s *DiaryService) uploadPhoto(ctx context.Context, input DiaryInput) (string, error) {
	if input.Photo == nil || s.uploader == nil {
		return "", nil
	}
	return s.uploader.Upload(ctx, input.Photo, input.PhotoSize, input.PhotoContentType, input.PhotoFilename)
}

// strLimit truncates s to limit runes and appends end, mirroring the
// legacy preview behavior.
func strLimit(s string, limit int, end string) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + end
}
