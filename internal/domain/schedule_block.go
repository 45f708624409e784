package domain

import "time"

// BlockType enumerates the kinds of unavailability a staff member can request.
type BlockType string

const (
	BlockTypeBreak     BlockType = "BREAK"
	BlockTypeDayOff    BlockType = "DAY_OFF"
	BlockTypeVacation  BlockType = "VACATION"
	BlockTypeSickLeave BlockType = "SICK_LEAVE"
	BlockTypePersonal  BlockType = "PERSONAL"
)

// Valid reports whether the value is one of the known block types.
func (t BlockType) Valid() bool {
	switch t {
	case BlockTypeBreak, BlockTypeDayOff, BlockTypeVacation, BlockTypeSickLeave, BlockTypePersonal:
		return true
	}
	return false
}

// BlockApproval enumerates review states for a block request. Approval is
// performed by an external administrative actor.
type BlockApproval string

const (
	BlockApprovalPending  BlockApproval = "PENDING"
	BlockApprovalApproved BlockApproval = "APPROVED"
	BlockApprovalRejected BlockApproval = "REJECTED"
)

// ScheduleBlock is a staff-requested unavailability window. StaffName is a
// denormalized copy of the owner's display name at request time.
type ScheduleBlock struct {
	ID        string
	StaffID   string
	StaffName string
	Type      BlockType
	StartDate time.Time
	EndDate   time.Time
	StartTime *string
	EndTime   *string
	AllDay    bool
	Reason    string
	Approval  BlockApproval
	CreatedAt time.Time
}
