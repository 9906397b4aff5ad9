package model

type Subject struct {
	BaseModel
	UserID      uint   `gorm:"index;not null;type:bigint unsigned" json:"user_id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Subject) TableName() string {
	return "subjects"
}
