package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UserRole identifies the privilege tier of an account.
type UserRole string

const (
	RoleUser       UserRole = "user"
	RoleAgent      UserRole = "agent"
	RoleAdmin      UserRole = "admin"
	RoleSuperAdmin UserRole = "super_admin"
)

const (
	// NoWaveSentinel marks a property as explicitly wave-less; treated the
	// same as a null wave by quota accounting.
	NoWaveSentinel = "no-wave"

	// DefaultWaveBalance is the quota assigned to regular accounts and
	// restored by the zero-balance repair operation.
	DefaultWaveBalance = 10

	// UnlimitedWaveBalance is the remaining-quota value reported for
	// admin and super_admin accounts.
	UnlimitedWaveBalance = 999999
)

// StringList stores an ordered list of strings as a JSON text column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// JSONMap stores an arbitrary JSON object as a text column.
type JSONMap map[string]interface{}

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported type for JSONMap: %T", value)
	}
}

// User represents an account: customer, listing agent or administrator.
type User struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Username         string     `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash     string     `gorm:"size:255" json:"-"`
	Role             UserRole   `gorm:"size:20;default:'user'" json:"role"`
	WaveBalance      int        `json:"wave_balance"`
	AllowedLanguages StringList `gorm:"type:text" json:"allowed_languages"`
	IsVerified       bool       `gorm:"default:false" json:"is_verified"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// IsExpired reports whether the account is past its expiry instant.
// Computed at read time, never stored.
func (u *User) IsExpired() bool {
	return u.ExpiresAt != nil && time.Now().After(*u.ExpiresAt)
}

// HasUnlimitedWaves reports whether the account is exempt from wave quota.
func (u *User) HasUnlimitedWaves() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// Property represents a real-estate listing.
type Property struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"size:50" json:"type"`         // house, apartment, villa, land, ...
	ListingType string     `gorm:"size:20" json:"listing_type"` // sale, rent
	Price       string     `gorm:"size:50" json:"price"`        // decimal as string
	Currency    string     `gorm:"size:10" json:"currency"`
	Bedrooms    int        `json:"bedrooms"`
	Bathrooms   int        `json:"bathrooms"`
	Area        float64    `json:"area"`
	Address     string     `gorm:"size:500" json:"address"`
	City        string     `gorm:"size:100" json:"city"`
	Country     string     `gorm:"size:100" json:"country"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Images      StringList `gorm:"type:text" json:"images"`
	Amenities   StringList `gorm:"type:text" json:"amenities"`
	Features    StringList `gorm:"type:text" json:"features"`
	Language    string     `gorm:"size:10" json:"language"`
	AgentID     string     `gorm:"size:36;index" json:"agent_id"`
	WaveID      *string    `gorm:"size:36;index" json:"wave_id,omitempty"`
	IsFeatured  bool       `gorm:"default:false" json:"is_featured"`
	Views       int64      `gorm:"default:0" json:"views"`
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HasWave reports whether the property carries a real wave assignment.
// The "no-wave" sentinel counts as unassigned.
func (p *Property) HasWave() bool {
	return p.WaveID != nil && *p.WaveID != "" && *p.WaveID != NoWaveSentinel
}

// PropertyWithAgent is a property enriched with its agent's public record
// and, when available, the most recent inquiry that carries a phone number.
type PropertyWithAgent struct {
	Property
	Agent           *User    `json:"agent,omitempty"`
	CustomerContact *Inquiry `json:"customer_contact,omitempty"`
}

// PropertyFilters is the query shape HTTP handlers translate query strings
// into. All fields are optional and combined with AND.
type PropertyFilters struct {
	Type         string   `form:"type"`
	ListingType  string   `form:"listing_type"`
	MinPrice     *float64 `form:"min_price"`
	MaxPrice     *float64 `form:"max_price"`
	MinBedrooms  *int     `form:"bedrooms"`
	MinBathrooms *int     `form:"bathrooms"`
	City         string   `form:"city"`
	Country      string   `form:"country"`
	Language     string   `form:"language"`
	Search       string   `form:"search"`
	SortBy       string   `form:"sort_by"`    // price, views, created_at
	SortOrder    string   `form:"sort_order"` // asc, desc
	Limit        int      `form:"limit"`
	Offset       int      `form:"offset"`
}

// Favorite links a user to a property they bookmarked. Unique per pair.
type Favorite struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     string    `gorm:"size:36;not null;uniqueIndex:idx_fav_user_property" json:"user_id"`
	PropertyID string    `gorm:"size:36;not null;uniqueIndex:idx_fav_user_property" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Inquiry is a contact request left on a property listing.
type Inquiry struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	PropertyID string    `gorm:"size:36;not null;index" json:"property_id"`
	Name       string    `gorm:"size:255" json:"name"`
	Phone      string    `gorm:"size:50" json:"phone,omitempty"`
	Email      string    `gorm:"size:255" json:"email"`
	Status     string    `gorm:"size:20;default:'pending'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchHistory is an append-only record of a search a user performed.
type SearchHistory struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    *string   `gorm:"size:36;index" json:"user_id,omitempty"`
	Query     string    `gorm:"size:500" json:"query"`
	Filters   JSONMap   `gorm:"type:text" json:"filters"`
	Results   JSONMap   `gorm:"type:text" json:"results"`
	CreatedAt time.Time `json:"created_at"`
}

// Wave is a named promotional channel properties can be tagged with.
// Deletion is soft: IsActive flips to false.
type Wave struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Color       string    `gorm:"size:20" json:"color"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   string    `gorm:"size:36" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerWavePermission is a per-wave allowance layered on top of the
// coarse wave balance.
type CustomerWavePermission struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"size:36;not null;uniqueIndex:idx_perm_user_wave" json:"user_id"`
	WaveID        string    `gorm:"size:36;not null;uniqueIndex:idx_perm_user_wave" json:"wave_id"`
	MaxProperties int       `json:"max_properties"`
	GrantedBy     string    `gorm:"size:36" json:"granted_by"`
	CreatedAt     time.Time `json:"created_at"`
}
