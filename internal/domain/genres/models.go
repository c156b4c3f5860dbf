package genres

// NameMaxLength bounds Genre.Name.
const NameMaxLength = 30

// Genre is the persisted genre record. Games reference it by id.
type Genre struct {
	ID   int    `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:30;not null"`
}

// TableName pins the table name independent of gorm's naming strategy.
func (Genre) TableName() string {
	return "genres"
}
