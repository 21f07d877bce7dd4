package models

import "time"

const (
	ItemTypeWorkout = "workout"
	ItemTypeDiet    = "diet"
	ItemTypeNote    = "note"
)

const (
	StatusMarkDone    = "done"
	StatusMarkPartial = "partial"
	StatusMarkNotDone = "not_done"
)

type PlanWeek struct {
	ID        int64     `json:"id"`
	MatchID   int64     `json:"match_id"`
	WeekStart time.Time `json:"week_start"`
	Title     string    `json:"title"`
	Note      *string   `json:"note"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PlanDay struct {
	ID       int64   `json:"id"`
	WeekID   int64   `json:"week_id"`
	DayIndex int     `json:"day_index"`
	Note     *string `json:"note"`
}

type PlanItem struct {
	ID          int64      `json:"id"`
	DayID       int64      `json:"day_id"`
	ItemType    string     `json:"item_type"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	TargetKcal  *int       `json:"target_kcal"`
	TargetMin   *int       `json:"target_min"`
	StatusMark  string     `json:"status_mark"`
	CompletedAt *time.Time `json:"completed_at"`
	Locked      bool       `json:"locked"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ItemTarget ties a plan item's numeric goal to its type: a diet item carries
// calories only, a workout carries minutes only, a note carries neither.
// Constructing one through the factory functions makes an inconsistent
// (type, target) pair unrepresentable.
type ItemTarget struct {
	itemType string
	kcal     *int
	min      *int
}

func WorkoutTarget(minutes *int) ItemTarget {
	return ItemTarget{itemType: ItemTypeWorkout, min: minutes}
}

func DietTarget(kcal *int) ItemTarget {
	return ItemTarget{itemType: ItemTypeDiet, kcal: kcal}
}

func NoteTarget() ItemTarget {
	return ItemTarget{itemType: ItemTypeNote}
}

func (t ItemTarget) ItemType() string { return t.itemType }
func (t ItemTarget) Kcal() *int       { return t.kcal }
func (t ItemTarget) Min() *int        { return t.min }

type DayView struct {
	PlanDay
	Items []PlanItem `json:"items"`
}

type WeekView struct {
	PlanWeek
	Days []DayView `json:"days"`
}
