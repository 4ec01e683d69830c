package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SuitType classifies a racing suit cut, matching the ENUM in the database.
type SuitType string

const (
	SuitTypeJammer   SuitType = "jammer"   // men's knee-length suit
	SuitTypeKneeskin SuitType = "kneeskin" // women's knee-length suit
	SuitTypeBrief    SuitType = "brief"
)

// SuitCondition tracks how much life a swimmer's suit has left.
type SuitCondition string

const (
	SuitConditionNew     SuitCondition = "new"
	SuitConditionGood    SuitCondition = "good"
	SuitConditionWorn    SuitCondition = "worn"
	SuitConditionRetired SuitCondition = "retired"
)

// SuitModel is one catalog entry: a specific suit product from a
// manufacturer. Both tech suits and regular racing suits are tracked.
type SuitModel struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	Brand              string    `json:"brand" db:"brand"`
	ModelName          string    `json:"model_name" db:"model_name"`
	SuitType           SuitType  `json:"suit_type" db:"suit_type"`
	IsTechSuit         bool      `json:"is_tech_suit" db:"is_tech_suit"`
	Gender             Gender    `json:"gender" db:"gender"`
	ReleaseYear        *int      `json:"release_year,omitempty" db:"release_year"`
	MSRPCents          *int      `json:"msrp_cents,omitempty" db:"msrp_cents"`
	ExpectedRacesPeak  int       `json:"expected_races_peak" db:"expected_races_peak"`
	ExpectedRacesTotal int       `json:"expected_races_total" db:"expected_races_total"`
	FINAApproved       bool      `json:"fina_approved" db:"fina_approved"`
	Notes              *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

func (m SuitModel) String() string {
	return m.Brand + " " + m.ModelName
}

// Category is the human-readable catalog grouping.
func (m SuitModel) Category() string {
	if m.IsTechSuit {
		return "Tech Suit"
	}
	return "Racing Suit"
}

// FormatCents renders a cent amount as a dollar string, e.g. "$289.99".
func FormatCents(cents int) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

// SwimmerSuit is one physical suit in a swimmer's inventory, tied to a
// catalog SuitModel and tracked through its usable life.
type SwimmerSuit struct {
	ID          uuid.UUID `json:"id" db:"id"`
	SwimmerID   uuid.UUID `json:"swimmer_id" db:"swimmer_id"`
	SuitModelID uuid.UUID `json:"suit_model_id" db:"suit_model_id"`

	Nickname *string `json:"nickname,omitempty" db:"nickname"`
	Size     *string `json:"size,omitempty" db:"size"`
	Color    *string `json:"color,omitempty" db:"color"`

	PurchaseDate       *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePriceCents *int       `json:"purchase_price_cents,omitempty" db:"purchase_price_cents"`
	PurchaseLocation   *string    `json:"purchase_location,omitempty" db:"purchase_location"`

	WearCount int           `json:"wear_count" db:"wear_count"`
	RaceCount int           `json:"race_count" db:"race_count"`
	Condition SuitCondition `json:"condition" db:"condition"`

	RetiredDate      *time.Time `json:"retired_date,omitempty" db:"retired_date"`
	RetirementReason *string    `json:"retirement_reason,omitempty" db:"retirement_reason"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// IsCurrent reports whether the suit is still in rotation.
func (s SwimmerSuit) IsCurrent() bool {
	return s.Condition != SuitConditionRetired
}

// LifePercentage is how much of the model's expected race lifespan has
// been used, as a percentage. Can exceed 100 for an overused suit.
func (s SwimmerSuit) LifePercentage(expectedRacesTotal int) float64 {
	if expectedRacesTotal <= 0 {
		return 0
	}
	return float64(s.RaceCount) / float64(expectedRacesTotal) * 100
}

// RemainingRaces estimates races left before the suit is spent. Negative
// means the suit is past its expected lifespan.
func (s SwimmerSuit) RemainingRaces(expectedRacesTotal int) int {
	return expectedRacesTotal - s.RaceCount
}

// IsPastPeak reports whether the suit has raced beyond its peak window.
func (s SwimmerSuit) IsPastPeak(expectedRacesPeak int) bool {
	return s.RaceCount >= expectedRacesPeak
}
