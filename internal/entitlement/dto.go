// AngelaMos | 2026
// dto.go

package entitlement

import (
	"time"
)

// SetEntitlementRequest is the administrative write body. IsVip is a
// pointer so a missing field fails validation instead of decoding as false.
type SetEntitlementRequest struct {
	IsVip     *bool      `json:"isVip"               validate:"required"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// StatusResponse carries the derived flag: isVip is false for an expired
// record even though the stored flag is still true.
type StatusResponse struct {
	IsVip     bool       `json:"isVip"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type RecordResponse struct {
	UserID    string     `json:"userId"`
	IsVip     bool       `json:"isVip"`
	StoredVip bool       `json:"storedVip"`
	ExpiresAt *time.Time `json:"expiresAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Active   *bool
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToStatusResponse(rec *Record, now time.Time) StatusResponse {
	if rec == nil {
		return StatusResponse{}
	}
	return StatusResponse{
		IsVip:     rec.ActiveAt(now),
		ExpiresAt: rec.ExpiresAt,
	}
}

func ToRecordResponse(rec *Record, now time.Time) RecordResponse {
	return RecordResponse{
		UserID:    rec.UserID,
		IsVip:     rec.ActiveAt(now),
		StoredVip: rec.IsVip,
		ExpiresAt: rec.ExpiresAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

func ToRecordResponseList(records []Record, now time.Time) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i], now))
	}
	return responses
}
