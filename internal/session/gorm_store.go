package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/catalog_panel/internal/models"
	pkgdb "github.com/Skotchmaster/catalog_panel/pkg/db"
)

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.SessionRecord{}, &models.NoticeRecord{}); err != nil {
		return nil, fmt.Errorf("migrate session tables: %w", err)
	}
	return &GormStore{DB: db}, nil
}

func (s *GormStore) Load(ctx context.Context, id string) (*Session, error) {
	var rec models.SessionRecord
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Session{ID: rec.ID, Token: rec.Token, Role: rec.Role}, nil
}

func (s *GormStore) Save(ctx context.Context, sess *Session) error {
	rec := models.SessionRecord{ID: sess.ID, Token: sess.Token, Role: sess.Role}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "role", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *GormStore) Clear(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).
		Model(&models.SessionRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"token": "", "role": "", "updated_at": time.Now().UTC()}).Error
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.NoticeRecord{}).Error; err != nil {
			return fmt.Errorf("delete notices: %w", err)
		}
		if err := tx.Where("id = ?", id).Delete(&models.SessionRecord{}).Error; err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (s *GormStore) PushNotice(ctx context.Context, id string, n Notice) error {
	rec := models.NoticeRecord{
		SessionID:   id,
		Level:       string(n.Level),
		Title:       n.Title,
		Text:        n.Text,
		AckURL:      n.AckURL,
		AckLabel:    n.AckLabel,
		AutoCloseMs: n.AutoClose.Milliseconds(),
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SessionRecord{ID: id}).Error; err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

func (s *GormStore) PopNotices(ctx context.Context, id string) ([]Notice, error) {
	var recs []models.NoticeRecord
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Order("id ASC").Find(&recs).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		ids := make([]uint, 0, len(recs))
		for _, r := range recs {
			ids = append(ids, r.ID)
		}
		return tx.Where("id IN ?", ids).Delete(&models.NoticeRecord{}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("pop notices: %w", err)
	}

	out := make([]Notice, 0, len(recs))
	for _, r := range recs {
		out = append(out, Notice{
			Level:     Level(r.Level),
			Title:     r.Title,
			Text:      r.Text,
			AckURL:    r.AckURL,
			AckLabel:  r.AckLabel,
			AutoClose: time.Duration(r.AutoCloseMs) * time.Millisecond,
		})
	}
	return out, nil
}

func (s *GormStore) Ping(ctx context.Context) error {
	return pkgdb.Ping(ctx, s.DB)
}
