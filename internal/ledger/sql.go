package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/creatorstation/postdesk/internal/models"
	"gorm.io/gorm"
)

// SQLStore keeps posts in the posts table through gorm.
type SQLStore struct {
	*ImageDir

	db *gorm.DB
}

func NewSQLStore(db *gorm.DB, images *ImageDir) *SQLStore {
	return &SQLStore{ImageDir: images, db: db}
}

func (s *SQLStore) Initialize(ctx context.Context) error {
	if err := s.ensure(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).AutoMigrate(&models.Post{}); err != nil {
		return unavailable("migrate posts", err)
	}
	return nil
}

func (s *SQLStore) LoadAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	result := s.db.WithContext(ctx).
		Order("created_at asc").
		Order("id asc").
		Find(&posts)
	if result.Error != nil {
		return nil, unavailable("load posts", result.Error)
	}
	return posts, nil
}

func (s *SQLStore) Append(ctx context.Context, post models.Post) error {
	post.Text = NormalizeText(post.Text)
	if err := s.requireImage(post.Image); err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", post.ID).Count(&count).Error; err != nil {
		return unavailable("check post id", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
	}

	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, post.ID)
		}
		return unavailable("insert post", err)
	}
	return nil
}

func (s *SQLStore) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	if err := checkTransition(models.StatusPending, status); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Update("status", status)
	if result.Error != nil {
		return unavailable("update status", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var post models.Post
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}
	if err != nil {
		return unavailable("load post", err)
	}
	return checkTransition(post.Status, status)
}
