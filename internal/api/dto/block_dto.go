package dto

import (
	"time"

	"github.com/spec-kit/barber-portal/internal/domain"
)

// BlockCreateRequest payload. Dates use the 2006-01-02 layout; EndDate
// defaults to StartDate when empty. A Status supplied here is ignored:
// new blocks always start pending.
type BlockCreateRequest struct {
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	AllDay    bool    `json:"all_day"`
	Reason    string  `json:"reason"`
	Status    string  `json:"status,omitempty"`
}

// BlockResponse is the API shape of a schedule block.
type BlockResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	AllDay    bool      `json:"all_day"`
	Reason    string    `json:"reason"`
	Approval  string    `json:"approval"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBlockResponse maps a domain block.
func NewBlockResponse(block domain.ScheduleBlock) BlockResponse {
	return BlockResponse{
		ID:        block.ID,
		Type:      string(block.Type),
		StartDate: block.StartDate.Format("2006-01-02"),
		EndDate:   block.EndDate.Format("2006-01-02"),
		StartTime: block.StartTime,
		EndTime:   block.EndTime,
		AllDay:    block.AllDay,
		Reason:    block.Reason,
		Approval:  string(block.Approval),
		CreatedAt: block.CreatedAt,
	}
}

// NewBlockResponses maps a collection.
func NewBlockResponses(blocks []domain.ScheduleBlock) []BlockResponse {
	out := make([]BlockResponse, 0, len(blocks))
	for _, block := range blocks {
		out = append(out, NewBlockResponse(block))
	}
	return out
}
