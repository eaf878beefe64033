package models

import "time"

// RedeemCode is a single-use promotional code exchangeable for a fixed balance
// credit. Unused codes also serve as the authorization pool for withdrawal
// approvals. Once Used flips to true it never reverts and UsedBy/UsedAt are
// never rewritten.
type RedeemCode struct {
	Code      string     `json:"code" gorm:"primaryKey"`
	Amount    int64      `json:"amount" gorm:"not null"`
	Used      bool       `json:"used" gorm:"not null;default:false"`
	UsedBy    *uint      `json:"used_by"`
	UsedAt    *time.Time `json:"used_at"`
	CreatedAt time.Time  `json:"created_at"`
}

type GenerateCodesRequest struct {
	Count  int   `json:"count" validate:"required,min=1,max=500"`
	Amount int64 `json:"amount" validate:"required,min=1"`
}

type RedeemRequest struct {
	Code string `json:"code" validate:"required,len=10"`
}
