package account

import "github.com/fundwit/go-commons/types"

type Role string

const (
	RoleStudent     Role = "student"
	RoleShiftLeader Role = "shiftLeader"
	RoleGateman     Role = "gateman"
	RoleClient      Role = "client"
	RoleAdmin       Role = "admin"
)

// Worker is an account able to hold shift assignments. PunctualityRating is
// maintained by the rating subsystem at half-point granularity and is
// read-only here.
type Worker struct {
	ID     types.ID `json:"id" gorm:"primary_key"`
	Name   string   `json:"name" gorm:"unique_index:uni_worker_name"`
	Secret string   `json:"-"`

	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`

	PunctualityRating float64 `json:"punctualityRating" sql:"type:DECIMAL(2,1) NOT NULL DEFAULT 0"`
}

type WorkerInfo struct {
	ID       types.ID `json:"id"`
	Name     string   `json:"name"`
	Nickname string   `json:"nickname"`
	Email    string   `json:"email"`
	Role     Role     `json:"role"`

	PunctualityRating float64 `json:"punctualityRating"`
}

type WorkerCreation struct {
	Name   string `json:"name" binding:"required,lte=32"`
	Secret string `json:"secret" binding:"required,gte=6,lte=32"`

	Nickname string `json:"nickname" binding:"omitempty,gte=1,lte=32"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     Role   `json:"role" binding:"required,oneof=student shiftLeader gateman client admin"`
}

func (u Worker) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	} else {
		return u.Name
	}
}

func (u WorkerInfo) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	} else {
		return u.Name
	}
}
