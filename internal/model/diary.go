package model

import "time"

type MenteeDiary struct {
	DiarySrl  uint      `gorm:"column:diary_srl;primaryKey" json:"diary_srl"`
	MenteeSrl uint      `gorm:"column:mentee_srl;not null;index" json:"mentee_srl"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Contents  string    `gorm:"type:text" json:"contents"`
	PhotoURL  string    `gorm:"size:512" json:"photo_url"`
	Regdate   time.Time `gorm:"column:regdate;index" json:"regdate"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MenteeDiary) TableName() string { return "mentee_diaries" }
