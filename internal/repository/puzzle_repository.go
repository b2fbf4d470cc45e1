package repository

import (
	"context"

	"github.com/yukikurage/crossword-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPuzzleRepository is a GORM implementation of PuzzleRepository
type GormPuzzleRepository struct {
	db *gorm.DB
}

// NewPuzzleRepository creates a new PuzzleRepository
func NewPuzzleRepository(db *gorm.DB) PuzzleRepository {
	return &GormPuzzleRepository{db: db}
}

// Create stores the puzzle; gorm inserts its tags in the same transaction.
func (r *GormPuzzleRepository) Create(ctx context.Context, puzzle *models.Puzzle) error {
	return r.db.WithContext(ctx).Omit("Author").Create(puzzle).Error
}

// FindByID finds a puzzle by ID with its author and tags
func (r *GormPuzzleRepository) FindByID(ctx context.Context, id uint64) (*models.Puzzle, error) {
	var puzzle models.Puzzle
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag ASC") }).
		First(&puzzle, id).Error
	if err != nil {
		return nil, err
	}
	return &puzzle, nil
}

// List retrieves puzzles matching the filter. Ties on the sort column are
// broken by id so the order is stable.
func (r *GormPuzzleRepository) List(ctx context.Context, filter PuzzleFilter) ([]models.Puzzle, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Puzzle{}).
		Omit("grid", "solution_key", "clues").
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tag ASC") }).
		Scopes(withTag(filter.Tag))

	column := "created_at"
	switch filter.SortBy {
	case SortByTitle:
		column = "title"
	case SortBySolvedCount:
		column = "solved_count"
	}

	var puzzles []models.Puzzle
	err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: filter.Descending}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: filter.Descending}).
		Find(&puzzles).Error
	return puzzles, err
}

// withTag keeps puzzles carrying the tag. An empty tag matches everything.
func withTag(tag string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tag == "" {
			return db
		}
		return db.Where("EXISTS (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Model(&models.PuzzleTag{}).
				Select("1").
				Where("puzzle_tags.puzzle_id = puzzles.id AND puzzle_tags.tag = ?", tag),
		)
	}
}
