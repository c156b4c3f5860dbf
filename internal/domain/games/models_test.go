package games

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/preston-bernstein/game-store-service/internal/domain/genres"
)

func TestGenreNameWithoutAssociation(t *testing.T) {
	g := Game{ID: 1, Name: "Doom", GenreID: 6}
	if got := g.GenreName(); got != "" {
		t.Fatalf("expected empty genre name, got %q", got)
	}
}

func TestGenreNameUsesAssociation(t *testing.T) {
	g := Game{ID: 1, Name: "Doom", GenreID: 6, Genre: &genres.Genre{ID: 6, Name: "Shooter"}}
	if got := g.GenreName(); got != "Shooter" {
		t.Fatalf("expected Shooter, got %q", got)
	}
}

func TestGameGormTags(t *testing.T) {
	gameType := reflect.TypeOf(Game{})
	checks := map[string]string{
		"ID":      "primaryKey",
		"GenreID": "index",
		"Name":    fmt.Sprintf("size:%d", NameMaxLength),
		"Genre":   "foreignKey:GenreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE",
		"Price":   "decimal(10,2)",
	}

	for name, want := range checks {
		field, ok := gameType.FieldByName(name)
		if !ok {
			t.Fatalf("missing field %s", name)
		}
		if tag := field.Tag.Get("gorm"); !strings.Contains(tag, want) {
			t.Fatalf("field %s expected gorm tag containing %q, got %q", name, want, tag)
		}
	}
}

func TestGenreNameColumnMatchesLimit(t *testing.T) {
	field, _ := reflect.TypeOf(genres.Genre{}).FieldByName("Name")
	want := fmt.Sprintf("size:%d", genres.NameMaxLength)
	if tag := field.Tag.Get("gorm"); !strings.Contains(tag, want) {
		t.Fatalf("expected genre name tag containing %q, got %q", want, tag)
	}
}

func TestTableName(t *testing.T) {
	if got := (Game{}).TableName(); got != "games" {
		t.Fatalf("expected games table, got %s", got)
	}
	if got := (genres.Genre{}).TableName(); got != "genres" {
		t.Fatalf("expected genres table, got %s", got)
	}
}
