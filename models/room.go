// models/room.go
package models

import (
	"time"
)

const (
	RoomStatusWaiting  = "WAITING"
	RoomStatusFinished = "FINISHED"
	// Cancelled rooms are deleted rather than kept as a terminal row;
	// the settlement archive export covers the audit trail.
)

const (
	MoveRock     = "ROCK"
	MovePaper    = "PAPER"
	MoveScissors = "SCISSORS"
)

// WinnerDraw marks a tied match in GameRoom.Winner (otherwise a wallet address).
const WinnerDraw = "DRAW"

// GameRoom is one wager instance between a host and a joiner.
// A room transitions WAITING → FINISHED exactly once (join), or
// WAITING → deleted exactly once (cancel). Joiner fields, winner and
// settled_at are written together in the same transaction that flips status.
type GameRoom struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid"`
	HostAddress string `json:"host_address" gorm:"type:varchar(64);not null;index"`
	HostMove    string `json:"-" gorm:"type:varchar(16);not null"` // hidden from listings until settled
	BetAmount   int64  `json:"bet_amount" gorm:"not null"`         // base token units, per side

	Status string `json:"status" gorm:"type:varchar(16);not null;index;default:'WAITING'"`

	// Set exactly once, atomically with the WAITING → FINISHED transition.
	JoinerAddress *string `json:"joiner_address,omitempty" gorm:"type:varchar(64)"`
	JoinerMove    *string `json:"joiner_move,omitempty" gorm:"type:varchar(16)"`
	Winner        *string `json:"winner,omitempty" gorm:"type:varchar(64)"` // host/joiner address, or DRAW

	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

func (GameRoom) TableName() string {
	return "game_rooms"
}
