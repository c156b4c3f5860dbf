package games

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
)

// NameMaxLength bounds Game.Name.
const NameMaxLength = 50

// Game is the persisted game record.
type Game struct {
	ID      int    `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:50;not null"`
	GenreID int    `gorm:"not null;index"`
	// Genre is only populated when eager-loaded or attached by the caller.
	Genre       *genres.Genre   `gorm:"foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ReleaseDate datatypes.Date  `gorm:"not null"`
}

// TableName pins the table name independent of gorm's naming strategy.
func (Game) TableName() string {
	return "games"
}

// GenreName returns the attached genre's name, or "" when it was not loaded.
func (g Game) GenreName() string {
	if g.Genre == nil {
		return ""
	}
	return g.Genre.Name
}

// Summary is the list projection of a game with its genre flattened to a name.
// Stores build it inside the query, not after loading full entities.
type Summary struct {
	ID          int
	Name        string
	Genre       string
	Price       decimal.Decimal
	ReleaseDate datatypes.Date
}
