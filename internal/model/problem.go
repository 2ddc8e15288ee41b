package model

// Problem statements are Markdown. The stored answer never leaves the server;
// correctness is judged at submission time only.
type Problem struct {
	BaseModel
	ContestID uint   `gorm:"not null;index" json:"contestId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Statement string `gorm:"type:text" json:"statement"`
	Answer    string `gorm:"size:255;not null" json:"-"`
	Points    int    `gorm:"not null;default:0" json:"points"`

	Contest *Contest `gorm:"foreignKey:ContestID" json:"contest,omitempty"`
}

func (Problem) TableName() string {
	return "problems"
}
