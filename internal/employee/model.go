package employee

import (
	"time"

	"github.com/uptrace/bun"
)

// Gender values accepted by the directory.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type Employee struct {
	bun.BaseModel `bun:"table:employees,alias:e"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Email       string    `bun:"email,unique,notnull" json:"email"`
	MobileNo    string    `bun:"mobile_no,notnull" json:"mobileNo"`
	Designation string    `bun:"designation,notnull" json:"designation"`
	Gender      string    `bun:"gender" json:"gender"`
	Course      string    `bun:"course,notnull" json:"course"`
	Image       string    `bun:"image" json:"image"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"createdAt"`
}
