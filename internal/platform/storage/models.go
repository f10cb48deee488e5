package storage

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the persisted identity. All four status flags gate authentication;
// the password hash is never serialized.
type User struct {
	ID                 uint      `gorm:"primaryKey"                             json:"id"`
	Username           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash       string    `gorm:"not null"                               json:"-"`
	Nickname           string    `gorm:"type:varchar(255)"                      json:"nickname"`
	Email              string    `gorm:"type:varchar(255);index"                json:"email"`
	Enabled            bool      `gorm:"default:true"                           json:"enabled"`
	Locked             bool      `gorm:"default:false"                          json:"locked"`
	Expired            bool      `gorm:"default:false"                          json:"expired"`
	CredentialsExpired bool      `gorm:"default:false"                          json:"credentialsExpired"`
	Roles              []Role    `gorm:"many2many:user_roles"                   json:"roles"`
	CreatedAt          time.Time `                                              json:"createdAt"`
	UpdatedAt          time.Time `                                              json:"updatedAt"`
}

// Role is a named permission group (ADMIN, EMPLOYEE, USER, CUSTOMER).
type Role struct {
	ID     uint   `gorm:"primaryKey"                             json:"id"`
	Name   string `gorm:"type:varchar(64);uniqueIndex;not null"  json:"name"`
	Active bool   `gorm:"default:true"                           json:"active"`
}

type Publisher struct {
	ID          uint      `gorm:"primaryKey"                             json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Country     string    `gorm:"type:varchar(128)"                      json:"country"`
	FoundedYear int       `                                              json:"foundedYear"`
	Website     string    `gorm:"type:varchar(255)"                      json:"website"`
	CreatedAt   time.Time `                                              json:"createdAt"`
	UpdatedAt   time.Time `                                              json:"updatedAt"`
}

type Boardgame struct {
	ID              uint           `gorm:"primaryKey"           json:"id"`
	Name            string         `gorm:"not null;index"       json:"name"`
	Description     string         `gorm:"type:text"            json:"description"`
	MinPlayers      int            `gorm:"default:1"            json:"minPlayers"`
	MaxPlayers      int            `gorm:"default:4"            json:"maxPlayers"`
	PlaytimeMinutes int            `                            json:"playtimeMinutes"`
	PriceCents      int64          `                            json:"priceCents"`
	Stock           int            `gorm:"default:0"            json:"stock"`
	PublisherID     uint           `gorm:"index;not null"       json:"publisherId"`
	Publisher       *Publisher     `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	CoverImage      string         `gorm:"type:varchar(255)"    json:"coverImage"`
	Thumbnail       string         `gorm:"type:varchar(255)"    json:"thumbnail"`
	Attributes      datatypes.JSON `gorm:"type:json"            json:"attributes,omitempty"`
	DeletedAt       gorm.DeletedAt `gorm:"index"                json:"-"`
	CreatedAt       time.Time      `                            json:"createdAt"`
	UpdatedAt       time.Time      `                            json:"updatedAt"`
}

// Reservation statuses.
const (
	ReservationPending   = "pending"
	ReservationActive    = "active"
	ReservationReturned  = "returned"
	ReservationCancelled = "cancelled"
)

type Reservation struct {
	ID          uint       `gorm:"primaryKey"                             json:"id"`
	Code        string     `gorm:"type:varchar(64);uniqueIndex;not null"  json:"code"`
	UserID      uint       `gorm:"index;not null"                         json:"userId"`
	User        *User      `gorm:"foreignKey:UserID"                      json:"-"`
	BoardgameID uint       `gorm:"index;not null"                         json:"boardgameId"`
	Boardgame   *Boardgame `gorm:"foreignKey:BoardgameID"                 json:"boardgame,omitempty"`
	StartDate   time.Time  `                                              json:"startDate"`
	EndDate     time.Time  `                                              json:"endDate"`
	Status      string     `gorm:"type:varchar(32);default:'pending'"     json:"status"`
	CreatedAt   time.Time  `                                              json:"createdAt"`
	UpdatedAt   time.Time  `                                              json:"updatedAt"`
}

type Review struct {
	ID          uint      `gorm:"primaryKey"                                 json:"id"`
	UserID      uint      `gorm:"index;not null;uniqueIndex:idx_review_once" json:"userId"`
	BoardgameID uint      `gorm:"index;not null;uniqueIndex:idx_review_once" json:"boardgameId"`
	Rating      int       `gorm:"not null"                                   json:"rating"`
	Comment     string    `gorm:"type:text"                                  json:"comment"`
	CreatedAt   time.Time `                                                  json:"createdAt"`
	UpdatedAt   time.Time `                                                  json:"updatedAt"`
}

// Notification is the sqlite record behind the notification store driver.
type Notification struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Subject   string         `gorm:"type:varchar(255);index"   json:"subject"`
	Kind      string         `gorm:"type:varchar(64)"          json:"kind"`
	Payload   datatypes.JSON `gorm:"type:json"                 json:"payload"`
	ReadAt    *time.Time     `                                 json:"readAt"`
	ExpiresAt *time.Time     `                                 json:"expiresAt"`
	CreatedAt time.Time      `                                 json:"createdAt"`
}
