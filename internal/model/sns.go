package model

import "time"

const (
	SnsTypeTwitter   = "TWITTER"
	SnsTypeNaverBlog = "NAVER_BLOG"
)

// Sns is one crawled social media post shown on the landing feed.
type Sns struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	SnsType       string    `gorm:"column:sns_type;size:32;not null;index" json:"sns_type"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	Link          string    `gorm:"size:512;not null;uniqueIndex" json:"link"`
	TextCreatedAt time.Time `gorm:"column:text_created_at;index" json:"text_created_at"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Sns) TableName() string { return "sns" }
