package notify

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SubscriberDao is a data access object that maps directly to the 'subscribers' table in PostgreSQL.
type SubscriberDao struct {
	bun.BaseModel `bun:"table:subscribers,alias:sub"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	PhoneNumber string    `bun:"phone_number,unique,notnull,type:varchar(32)"`
	IsVerified  bool      `bun:"is_verified,notnull,default:false"`
	SMSEnabled  bool      `bun:"sms_enabled,notnull,default:true"`
	NoFeeAlerts bool      `bun:"no_fee_alerts,notnull,default:true"`
	DailyDigest bool      `bun:"daily_digest,notnull,default:true"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// NotificationDao is a data access object that maps directly to the 'notifications' table in PostgreSQL.
type NotificationDao struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID           uuid.UUID   `bun:"id,pk,type:uuid"`
	SubscriberID uuid.UUID   `bun:"subscriber_id,notnull,type:uuid"`
	Type         string      `bun:"type,notnull,type:varchar(16)"`
	Title        string      `bun:"title,type:varchar(255)"`
	Message      string      `bun:"message,notnull,type:text"`
	SessionID    uuid.UUID   `bun:"session_id,type:uuid"`
	ApartmentIDs []uuid.UUID `bun:"apartment_ids,array,type:uuid[]"`
	Status       string      `bun:"status,notnull,type:varchar(16)"`
	SentAt       *time.Time  `bun:"sent_at"`
	ErrorMessage string      `bun:"error_message,type:text"`
	CreatedAt    time.Time   `bun:"created_at,nullzero,default:current_timestamp"`
}

func toSubscriber(dao *SubscriberDao) *Subscriber {
	return &Subscriber{
		ID:          dao.ID,
		PhoneNumber: dao.PhoneNumber,
		IsVerified:  dao.IsVerified,
		SMSEnabled:  dao.SMSEnabled,
		NoFeeAlerts: dao.NoFeeAlerts,
		DailyDigest: dao.DailyDigest,
	}
}

func toNotificationDao(n *Notification) *NotificationDao {
	return &NotificationDao{
		ID:           n.ID,
		SubscriberID: n.SubscriberID,
		Type:         n.Type,
		Title:        n.Title,
		Message:      n.Message,
		SessionID:    n.SessionID,
		ApartmentIDs: n.ApartmentIDs,
		Status:       n.Status,
		SentAt:       n.SentAt,
		ErrorMessage: n.ErrorMessage,
		CreatedAt:    n.CreatedAt,
	}
}
