package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ProductID is opaque to the panel: the backend may send numbers or strings.
type ProductID string

func (id *ProductID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ProductID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("product id: %w", err)
	}
	*id = ProductID(n.String())
	return nil
}

func (id ProductID) String() string { return string(id) }

type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
}

// PriceString renders the price without a trailing ".0" for whole numbers.
func (p Product) PriceString() string {
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

type SessionRecord struct {
	ID        string    `gorm:"primaryKey;size:64"  json:"id"`
	Token     string    `gorm:"not null;default:''" json:"-"`
	Role      string    `gorm:"not null;default:''" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SessionRecord) TableName() string { return "panel_sessions" }

type NoticeRecord struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID   string    `gorm:"index;not null;size:64"   json:"session_id"`
	Level       string    `gorm:"not null"                 json:"level"`
	Title       string    `gorm:"not null"                 json:"title"`
	Text        string    `json:"text"`
	AckURL      string    `json:"ack_url"`
	AckLabel    string    `json:"ack_label"`
	AutoCloseMs int64     `json:"auto_close_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func (NoticeRecord) TableName() string { return "panel_notices" }
