package domain

import "time"

type Event struct {
	EventID      int64      `gorm:"column:eventId;primaryKey;autoIncrement" json:"eventId"`
	EventName    string     `gorm:"column:eventName;size:255;not null" json:"eventName"`
	EventDate    *time.Time `gorm:"column:eventDate" json:"eventDate"`
	Multiplier   float64    `gorm:"column:multiplier;not null" json:"multiplier"`
	NumLanes     int        `gorm:"column:numLanes" json:"numLanes"`
	Hidden       BitBool    `gorm:"column:hidden;not null;default:false" json:"hidden"`
	EnableVoting BitBool    `gorm:"column:enableVoting;not null;default:false" json:"enableVoting"`
}

func (Event) TableName() string { return "Events" }

type Car struct {
	CarID        int64  `gorm:"column:carId;primaryKey;autoIncrement" json:"carId"`
	EventID      int64  `gorm:"column:eventId;index;not null" json:"eventId"`
	CarNumber    int    `gorm:"column:carNumber" json:"carNumber"`
	CarName      string `gorm:"column:carName;size:255" json:"carName"`
	Owner        string `gorm:"column:owner;size:255" json:"owner"`
	Den          string `gorm:"column:den;size:64" json:"den"`
	ImageVersion int    `gorm:"column:imageVersion;not null;default:0" json:"imageVersion"`
}

func (Car) TableName() string { return "Cars" }

// CarWithAchievements adds the comma-joined achievement list to a car; nil
// when the car has none.
type CarWithAchievements struct {
	Car
	AllAchs *string `json:"allAchs"`
}

type Result struct {
	ResultID   int64    `gorm:"column:resultId;primaryKey;autoIncrement" json:"resultId"`
	EventID    int64    `gorm:"column:eventId;index;not null" json:"eventId"`
	HeatNumber int      `gorm:"column:heatNumber" json:"heatNumber"`
	Lane       int      `gorm:"column:lane" json:"lane"`
	CarID      int64    `gorm:"column:carId;index" json:"carId"`
	Time       *float64 `gorm:"column:time" json:"time"`
	Place      *int     `gorm:"column:place" json:"place"`
}

func (Result) TableName() string { return "Results" }

type Achievement struct {
	CarID       int64  `gorm:"column:carId;primaryKey;autoIncrement:false" json:"carId"`
	Achievement string `gorm:"column:achievement;primaryKey;size:128" json:"achievement"`
}

func (Achievement) TableName() string { return "Achievements" }

type Vote struct {
	CarID int64 `gorm:"column:carId;primaryKey;autoIncrement:false" json:"carId"`
	Votes int   `gorm:"column:Votes;not null;default:0" json:"votes"`
}

func (Vote) TableName() string { return "Votes" }

// CheckIn is a photo submitted at the registration table before the car is
// entered into an event.
type CheckIn struct {
	CheckInID      string    `gorm:"column:checkInId;primaryKey;size:36" json:"checkInId"`
	CarName        string    `gorm:"column:carName;size:255" json:"carName"`
	Nickname       string    `gorm:"column:nickname;size:255" json:"nickname"`
	Den            string    `gorm:"column:den;size:64" json:"den"`
	Time           time.Time `gorm:"column:time;autoCreateTime" json:"time"`
	AddedToEventID *int64    `gorm:"column:addedToEventId" json:"addedToEventId"`
}

func (CheckIn) TableName() string { return "CheckIn" }

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Event{},
		&Car{},
		&Result{},
		&Achievement{},
		&Vote{},
		&CheckIn{},
	}
}
